package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/carousel"
	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/schedule"
	"github.com/aman-yadav7052/hari-pathology/internal/stats"
)

// Autoplay intervals used when Options leave them unset.
const (
	DefaultSlideInterval       = 5 * time.Second
	DefaultTestimonialInterval = 4 * time.Second
)

// Sender delivers messages to the connected browser.
type Sender interface {
	Send(ctx context.Context, msg Outbound) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Outbound) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Outbound) error { return f(ctx, msg) }

// Options configure a session.
type Options struct {
	Policy              compat.Policy
	SlideInterval       time.Duration
	TestimonialInterval time.Duration
	Slides              int
	Testimonials        int
	// Stats maps counter element ids to their targets, in display order.
	Stats     []StatTarget
	Scheduler schedule.Scheduler
	Device    compat.Device
	Logger    *zap.Logger
}

// StatTarget is a counter shown in the stats section.
type StatTarget struct {
	Element string
	Target  int
}

type track struct {
	name     string
	cycler   *carousel.Cycler
	interval time.Duration
	slot     schedule.Slot
	// epoch changes whenever autoplay is rescheduled; ticks from an
	// older schedule are dropped.
	epoch int
}

// Session owns one visitor's carousels and counters. All state changes run
// on the goroutine executing Run; timers and client events only post work.
type Session struct {
	id     string
	opts   Options
	sender Sender
	logger *zap.Logger

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once

	// owned by the Run goroutine
	ctx      context.Context
	device   compat.Device
	tracks   []*track
	animator *stats.Animator
}

// NewSession builds a session for the given carousel sizes.
func NewSession(id string, sender Sender, opts Options) (*Session, error) {
	if sender == nil {
		return nil, errors.New("live: sender is required")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SlideInterval <= 0 {
		opts.SlideInterval = DefaultSlideInterval
	}
	if opts.TestimonialInterval <= 0 {
		opts.TestimonialInterval = DefaultTestimonialInterval
	}
	slides, err := carousel.New(opts.Slides)
	if err != nil {
		return nil, fmt.Errorf("live: slides: %w", err)
	}
	testimonials, err := carousel.New(opts.Testimonials)
	if err != nil {
		return nil, fmt.Errorf("live: testimonials: %w", err)
	}

	return &Session{
		id:     id,
		opts:   opts,
		sender: sender,
		logger: opts.Logger.With(zap.String("session_id", id)),
		events: make(chan func(), 32),
		done:   make(chan struct{}),
		ctx:    context.Background(),
		device: opts.Device,
		tracks: []*track{
			{name: CarouselSlides, cycler: slides, interval: opts.SlideInterval},
			{name: CarouselTestimonials, cycler: testimonials, interval: opts.TestimonialInterval},
		},
		animator: stats.NewAnimator(opts.Scheduler),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Run processes events until ctx is done, then cancels every timer.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()
	s.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.events:
			fn()
		}
	}
}

// Handle queues a client event. It returns false once the session is closed.
func (s *Session) Handle(ev Inbound) bool {
	return s.post(func() { s.dispatch(ev) })
}

// Reject queues an error message for the client.
func (s *Session) Reject(message string) bool {
	return s.post(func() { s.send(Outbound{Type: MessageError, Message: message}) })
}

func (s *Session) post(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		for _, t := range s.tracks {
			t.slot.Stop()
		}
		s.animator.Stop()
	})
}

func (s *Session) dispatch(ev Inbound) {
	switch ev.Type {
	case EventHello:
		if ev.UserAgent != "" {
			s.device = compat.Detect(ev.UserAgent, s.device.Width)
		}
		s.device.Width = ev.Width
		for _, t := range s.tracks {
			s.sendSnapshot(t)
		}
		s.restartAutoplay()
	case EventResize:
		s.device.Width = ev.Width
		s.restartAutoplay()
	case EventSwipe:
		t, ok := s.track(ev.Carousel)
		if !ok {
			return
		}
		if dir := s.opts.Policy.Swipe(ev.StartX, ev.EndX); dir != 0 {
			s.step(t, dir)
		}
	case EventAdvance:
		t, ok := s.track(ev.Carousel)
		if !ok {
			return
		}
		s.step(t, ev.Direction)
	case EventJump:
		t, ok := s.track(ev.Carousel)
		if !ok {
			return
		}
		if _, err := t.cycler.JumpTo(ev.Position); err != nil {
			s.fail(err)
			return
		}
		s.sendSnapshot(t)
	case EventVisible:
		s.reveal(ev.Element)
	default:
		s.send(Outbound{Type: MessageError, Message: "unknown event " + ev.Type})
	}
}

func (s *Session) track(name string) (*track, bool) {
	for _, t := range s.tracks {
		if t.name == name {
			return t, true
		}
	}
	s.send(Outbound{Type: MessageError, Message: "unknown carousel " + name})
	return nil, false
}

func (s *Session) step(t *track, direction int) {
	if _, err := t.cycler.Advance(direction); err != nil {
		s.fail(err)
		return
	}
	s.sendSnapshot(t)
}

// restartAutoplay reschedules both carousels for the current viewport.
// Slot.Start cancels the previous timer, so repeated resizes never stack.
func (s *Session) restartAutoplay() {
	allowed := s.opts.Policy.AutoplayAllowed(s.device.Width, s.device.UserAgent)
	for _, t := range s.tracks {
		t.epoch++
		if !allowed || t.interval <= 0 {
			t.slot.Stop()
			continue
		}
		t, epoch := t, t.epoch
		t.slot.Start(s.opts.Scheduler, t.interval, func() {
			s.post(func() {
				if t.epoch != epoch {
					return
				}
				s.step(t, 1)
			})
		})
	}
	s.logger.Debug("autoplay updated", zap.Bool("allowed", allowed), zap.Int("width", s.device.Width))
}

func (s *Session) reveal(element string) {
	for _, st := range s.opts.Stats {
		if element != StatsSection && element != st.Element {
			continue
		}
		plan := stats.NewPlan(st.Target, s.device.Mobile)
		s.animator.Animate(st.Element, plan, func(el string, value int, done bool) {
			s.post(func() {
				s.send(Outbound{Type: MessageStat, Element: el, Value: value, Done: done})
			})
		})
	}
}

func (s *Session) sendSnapshot(t *track) {
	snap := t.cycler.Snapshot()
	s.send(Outbound{Type: MessageCarousel, Carousel: t.name, Index: snap.Index, Marks: snap.Marks})
}

func (s *Session) fail(err error) {
	s.send(Outbound{Type: MessageError, Message: err.Error()})
}

func (s *Session) send(msg Outbound) {
	if err := s.sender.Send(s.ctx, msg); err != nil {
		s.logger.Debug("send failed", zap.String("type", msg.Type), zap.Error(err))
	}
}
