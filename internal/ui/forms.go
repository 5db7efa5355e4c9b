package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/compose"
	"github.com/aman-yadav7052/hari-pathology/internal/format"
	custommw "github.com/aman-yadav7052/hari-pathology/internal/middleware"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
)

// ErrLinkRejected is returned by the redirect opener for links it will not
// hand to the browser.
var ErrLinkRejected = errors.New("ui: link rejected")

// redirectOpener "opens" a link by remembering it as the redirect target of
// the current response. Links that exceed the length limit or use an
// unexpected scheme are rejected so the dispatcher falls back to dialing.
type redirectOpener struct {
	maxLength int
	target    string
}

func (o *redirectOpener) Open(_ context.Context, link string) error {
	if o.maxLength > 0 && len(link) > o.maxLength {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrLinkRejected, len(link), o.maxLength)
	}
	if !strings.HasPrefix(link, "https://") && !strings.HasPrefix(link, "tel:") {
		return fmt.Errorf("%w: unsupported scheme", ErrLinkRejected)
	}
	o.target = link
	return nil
}

// Booking handles the booking form.
func (h *Handlers) Booking(w http.ResponseWriter, r *http.Request) {
	csrf := custommw.CSRFTokenFromContext(r.Context())
	req := compose.BookingRequest{
		Name:           r.PostFormValue("name"),
		Phone:          r.PostFormValue("phone"),
		TestName:       r.PostFormValue("test"),
		Date:           r.PostFormValue("date"),
		HomeCollection: checked(r.PostFormValue("home")),
	}

	msg, err := h.booking.Compose(req)
	if err != nil {
		var vErr *compose.ValidationError
		if !errors.As(err, &vErr) {
			h.fail(w, r, err)
			return
		}
		h.deps.Metrics.ObserveValidationFailure(string(compose.KindBooking))
		form := h.bookingForm(csrf, req.TestName)
		form.Name, form.Phone, form.Date, form.HomeCollection = req.Name, req.Phone, req.Date, req.HomeCollection
		form.Invalid = invalidSet(vErr.Fields)
		form.Status = &FormStatus{Tone: "error", Text: vErr.Message}
		h.respondForm(w, r, "booking_form", form, func(vm *PageData) { vm.Booking = form })
		return
	}

	if msg.LookupMiss {
		observability.FromContext(r.Context()).Warn("booking for unlisted test", zap.String("test", req.TestName))
	}
	form := h.bookingForm(csrf, "")
	form.Status = &FormStatus{Tone: "success", Text: compose.BookingSentMessage}
	h.deliver(w, r, msg, "booking_form", form, func(vm *PageData) { vm.Booking = form })
}

// Feedback handles the feedback form.
func (h *Handlers) Feedback(w http.ResponseWriter, r *http.Request) {
	csrf := custommw.CSRFTokenFromContext(r.Context())
	req := compose.FeedbackRequest{
		Name:    r.PostFormValue("name"),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	}

	msg, err := h.feedback.Compose(req)
	if err != nil {
		var vErr *compose.ValidationError
		if !errors.As(err, &vErr) {
			h.fail(w, r, err)
			return
		}
		h.deps.Metrics.ObserveValidationFailure(string(compose.KindFeedback))
		form := FeedbackForm{
			CSRFToken: csrf,
			Name:      req.Name,
			Phone:     req.Phone,
			Message:   req.Message,
			Invalid:   invalidSet(vErr.Fields),
			Status:    &FormStatus{Tone: "error", Text: vErr.Message},
		}
		h.respondForm(w, r, "feedback_form", form, func(vm *PageData) { vm.Feedback = form })
		return
	}

	form := FeedbackForm{CSRFToken: csrf, Status: &FormStatus{Tone: "success", Text: compose.FeedbackSentMessage}}
	h.deliver(w, r, msg, "feedback_form", form, func(vm *PageData) { vm.Feedback = form })
}

// OpenEvent is the HX-Trigger event that asks the browser to open the
// composed link in a new tab, falling back to dialing when it cannot.
const OpenEvent = "lab:open"

// OpenInstruction is the payload of OpenEvent.
type OpenInstruction struct {
	Link     string `json:"link"`
	Fallback string `json:"fallback"`
}

// deliver dispatches msg and hands the chosen link to the browser. htmx
// callers get the reset form with the confirmation plus an OpenEvent; plain
// form posts, which the page submits into a new tab, are redirected there.
func (h *Handlers) deliver(w http.ResponseWriter, r *http.Request, msg compose.Message, fragment string, form any, apply func(*PageData)) {
	logger := observability.FromContext(r.Context())
	opener := &redirectOpener{maxLength: h.deps.MaxLinkLength}
	res, err := h.dispatcher.Dispatch(r.Context(), opener, msg)
	h.deps.Metrics.ObserveComposed(string(msg.Kind))
	if res.FellBack {
		h.deps.Metrics.ObserveFallback(string(msg.Kind))
	}
	if err != nil {
		// Nothing could be opened; the confirmation is still shown and the
		// visitor can use the phone number on the page.
		logger.Error("message dispatch failed", zap.String("kind", string(msg.Kind)), zap.Error(err))
	}
	logger.Info("message composed",
		zap.String("kind", string(msg.Kind)),
		zap.Bool("fallback", res.FellBack),
		zap.String("total", format.Rupees(msg.Total)),
	)

	if !custommw.IsHTMXRequest(r.Context()) {
		if opener.target != "" {
			http.Redirect(w, r, opener.target, http.StatusSeeOther)
			return
		}
		h.respondForm(w, r, fragment, form, apply)
		return
	}
	if opener.target != "" {
		setTrigger(w, map[string]any{
			OpenEvent: OpenInstruction{Link: opener.target, Fallback: compose.DialLink(h.deps.Lab.Contact)},
		})
	}
	h.render(w, r, fragment, form, http.StatusOK)
}

// respondForm renders the form fragment for htmx and the whole page with the
// form state applied otherwise. htmx only swaps 2xx responses, so the
// fragment is always sent with 200.
func (h *Handlers) respondForm(w http.ResponseWriter, r *http.Request, fragment string, form any, apply func(*PageData)) {
	if custommw.IsHTMXRequest(r.Context()) {
		h.render(w, r, fragment, form, http.StatusOK)
		return
	}
	vm, err := h.page(r, r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apply(&vm)
	status := http.StatusOK
	if s := formStatus(form); s != nil && s.Tone == "error" {
		status = http.StatusUnprocessableEntity
	}
	h.render(w, r, "page", vm, status)
}

func formStatus(form any) *FormStatus {
	switch f := form.(type) {
	case BookingForm:
		return f.Status
	case FeedbackForm:
		return f.Status
	}
	return nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
