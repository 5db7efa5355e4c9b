package compose

import (
	"fmt"
	"strings"
)

const (
	// BookingIncompleteMessage is shown when a booking field is missing.
	BookingIncompleteMessage = "Kripya sabhi jaankari bharein."
	// FeedbackIncompleteMessage is shown when a feedback field is missing.
	FeedbackIncompleteMessage = "Kripya sabhi fields bharein."
	// BookingSentMessage confirms a dispatched booking.
	BookingSentMessage = "Aapki booking WhatsApp par bhej di gayi hai."
	// FeedbackSentMessage confirms dispatched feedback.
	FeedbackSentMessage = "Aapka feedback WhatsApp par bhej diya gaya hai."
)

// ValidationError reports required fields that were empty after trimming.
// Message is the fixed text shown inline next to the form.
type ValidationError struct {
	Message string
	Fields  []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("compose: missing required fields [%s]", strings.Join(e.Fields, ", "))
}

// DispatchError reports that a link could not be opened.
type DispatchError struct {
	Link string
	Err  error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("compose: open %s: %v", redactLink(e.Link), e.Err)
}

// Unwrap exposes the opener failure.
func (e *DispatchError) Unwrap() error { return e.Err }

// redactLink drops the message payload so logs never carry customer details.
func redactLink(link string) string {
	if i := strings.IndexByte(link, '?'); i >= 0 {
		return link[:i]
	}
	return link
}

func missing(fields ...[2]string) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			out = append(out, f[0])
		}
	}
	return out
}
