// Package compose turns booking and feedback form submissions into the
// text of a WhatsApp message addressed to the lab.
package compose

import (
	"strings"

	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
	"github.com/aman-yadav7052/hari-pathology/internal/format"
)

// Lab identifies the message recipient.
type Lab struct {
	Name         string
	Contact      string
	HomeVisitFee int
}

// DefaultLab is the lab the site books for.
var DefaultLab = Lab{Name: "Hari Pathology", Contact: "6393345938", HomeVisitFee: 150}

// Kind distinguishes message types.
type Kind string

const (
	KindBooking  Kind = "booking"
	KindFeedback Kind = "feedback"
)

// Message is a composed chat message.
type Message struct {
	Kind Kind
	Text string

	// Booking only.
	Price          int
	HomeVisitFee   int
	Total          int
	HomeCollection bool
	LookupMiss     bool
}

// BookingRequest is a submitted booking form.
type BookingRequest struct {
	Name           string
	Phone          string
	TestName       string
	Date           string
	HomeCollection bool
}

// FeedbackRequest is a submitted feedback form.
type FeedbackRequest struct {
	Name    string
	Phone   string
	Message string
}

// Booking composes booking messages against the price list.
type Booking struct {
	lab     Lab
	catalog *catalog.Store
}

// NewBooking returns a booking composer.
func NewBooking(lab Lab, store *catalog.Store) *Booking {
	return &Booking{lab: lab, catalog: store}
}

// Compose validates req and formats the booking message. A test name that
// is not on the price list is booked at price zero.
func (b *Booking) Compose(req BookingRequest) (Message, error) {
	name, phone, testName, date := clean(req.Name), clean(req.Phone), clean(req.TestName), clean(req.Date)
	if fields := missing(
		[2]string{"name", name},
		[2]string{"phone", phone},
		[2]string{"test", testName},
		[2]string{"date", date},
	); len(fields) > 0 {
		return Message{}, &ValidationError{Message: BookingIncompleteMessage, Fields: fields}
	}

	msg := Message{Kind: KindBooking, HomeCollection: req.HomeCollection}
	if rec, ok := b.catalog.Find(testName); ok {
		msg.Price = rec.Price
	} else {
		msg.LookupMiss = true
	}
	msg.Total = msg.Price
	if req.HomeCollection {
		msg.HomeVisitFee = b.lab.HomeVisitFee
		msg.Total += b.lab.HomeVisitFee
	}

	var sb strings.Builder
	sb.WriteString("Hello " + b.lab.Name + ",\n\n")
	sb.WriteString("Main ek test book karna chahta hoon.\n\n")
	sb.WriteString("*Naam:* " + name + "\n")
	sb.WriteString("*Phone:* " + phone + "\n")
	sb.WriteString("*Test:* " + testName + "\n")
	sb.WriteString("*Date:* " + date + "\n")
	sb.WriteString("*Price:* " + format.Rupees(msg.Price))
	if req.HomeCollection {
		sb.WriteString("\n*Home Collection:* " + format.Rupees(b.lab.HomeVisitFee))
	}
	sb.WriteString("\n*Total:* " + format.Rupees(msg.Total))
	msg.Text = sb.String()
	return msg, nil
}

// Feedback composes feedback messages.
type Feedback struct {
	lab Lab
}

// NewFeedback returns a feedback composer.
func NewFeedback(lab Lab) *Feedback {
	return &Feedback{lab: lab}
}

// Compose validates req and formats the feedback message.
func (f *Feedback) Compose(req FeedbackRequest) (Message, error) {
	name, phone, text := clean(req.Name), clean(req.Phone), clean(req.Message)
	if fields := missing(
		[2]string{"name", name},
		[2]string{"phone", phone},
		[2]string{"message", text},
	); len(fields) > 0 {
		return Message{}, &ValidationError{Message: FeedbackIncompleteMessage, Fields: fields}
	}

	var sb strings.Builder
	sb.WriteString("Hello " + f.lab.Name + ",\n\n")
	sb.WriteString("Feedback:\n\n")
	sb.WriteString("*Naam:* " + name + "\n")
	sb.WriteString("*Phone:* " + phone + "\n")
	sb.WriteString("*Sandesh:* " + text)
	return Message{Kind: KindFeedback, Text: sb.String()}, nil
}
