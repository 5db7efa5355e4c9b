package compose

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "github.com/aman-yadav7052/hari-pathology/internal/compose"

// DeepLink returns the WhatsApp link that opens a chat with contact
// prefilled with text. Spaces are encoded as %20.
func DeepLink(contact, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + contact + "?text=" + escaped
}

// DialLink returns the telephone link for contact.
func DialLink(contact string) string {
	return "tel:" + contact
}

// Opener opens a link in the visitor's browser.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, link string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, link string) error { return f(ctx, link) }

// Result records how a message was delivered.
type Result struct {
	Link     string
	FellBack bool
	// Failure is the recovered primary failure when FellBack is set.
	Failure *DispatchError
}

// Dispatcher hands composed messages to the messaging app, falling back
// once to a phone call when the deep link cannot be opened.
type Dispatcher struct {
	contact string
	logger  *zap.Logger
}

// NewDispatcher returns a dispatcher addressing contact.
func NewDispatcher(contact string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{contact: contact, logger: logger}
}

// Dispatch opens the deep link for msg. When that fails, the dial link is
// opened instead; there is no further retry. An error is returned only if
// the fallback fails too.
func (d *Dispatcher) Dispatch(ctx context.Context, opener Opener, msg Message) (Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "compose.Dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("message.kind", string(msg.Kind)))

	if opener == nil {
		err := errors.New("compose: opener not configured")
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	link := DeepLink(d.contact, msg.Text)
	err := opener.Open(ctx, link)
	if err == nil {
		return Result{Link: link}, nil
	}

	failure := &DispatchError{Link: link, Err: err}
	d.logger.Warn("deep link failed; falling back to dial",
		zap.String("kind", string(msg.Kind)),
		zap.Error(failure),
	)
	span.AddEvent("fallback.dial")
	span.SetAttributes(attribute.Bool("dispatch.fallback", true))

	dial := DialLink(d.contact)
	if err := opener.Open(ctx, dial); err != nil {
		fallbackErr := &DispatchError{Link: dial, Err: err}
		d.logger.Error("dial fallback failed", zap.Error(fallbackErr))
		span.SetStatus(codes.Error, fallbackErr.Error())
		return Result{FellBack: true, Failure: failure}, fallbackErr
	}
	return Result{Link: dial, FellBack: true, Failure: failure}, nil
}
