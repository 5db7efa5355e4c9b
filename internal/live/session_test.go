package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/schedule"
)

const (
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
)

type recorder struct {
	mu   sync.Mutex
	msgs []Outbound
}

func (r *recorder) Send(_ context.Context, msg Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) take() []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

func carousels(msgs []Outbound, name string) []Outbound {
	var out []Outbound
	for _, m := range msgs {
		if m.Type == MessageCarousel && m.Carousel == name {
			out = append(out, m)
		}
	}
	return out
}

type harness struct {
	sess  *Session
	rec   *recorder
	sched *schedule.Manual
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rec := &recorder{}
	sched := schedule.NewManual()
	sess, err := NewSession("test", rec, Options{
		Policy:              compat.DefaultPolicy(),
		SlideInterval:       5 * time.Second,
		TestimonialInterval: 4 * time.Second,
		Slides:              3,
		Testimonials:        3,
		Stats: []StatTarget{
			{Element: "patients", Target: 15000},
			{Element: "years", Target: 12},
		},
		Scheduler: sched,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sess.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &harness{sess: sess, rec: rec, sched: sched}
}

// send queues ev and waits until the loop has processed it.
func (h *harness) send(t *testing.T, ev Inbound) {
	t.Helper()
	require.True(t, h.sess.Handle(ev))
	h.flush(t)
}

func (h *harness) flush(t *testing.T) {
	t.Helper()
	barrier := make(chan struct{})
	require.True(t, h.sess.post(func() { close(barrier) }))
	select {
	case <-barrier:
	case <-time.After(2 * time.Second):
		t.Fatal("session loop did not drain")
	}
}

func (h *harness) advance(t *testing.T, d time.Duration) {
	t.Helper()
	h.sched.Advance(d)
	h.flush(t)
}

func TestHelloSendsSnapshotsAndStartsAutoplayOnDesktop(t *testing.T) {
	h := newHarness(t)
	h.send(t, Inbound{Type: EventHello, Width: 1280, UserAgent: desktopUA})

	msgs := h.rec.take()
	require.Len(t, carousels(msgs, CarouselSlides), 1)
	require.Len(t, carousels(msgs, CarouselTestimonials), 1)
	require.Equal(t, []bool{true, false, false}, msgs[0].Marks)
	require.Equal(t, 2, h.sched.Live())

	h.advance(t, 4*time.Second)
	msgs = h.rec.take()
	require.Len(t, carousels(msgs, CarouselTestimonials), 1)
	require.Empty(t, carousels(msgs, CarouselSlides))

	h.advance(t, time.Second)
	msgs = h.rec.take()
	slides := carousels(msgs, CarouselSlides)
	require.Len(t, slides, 1)
	require.Equal(t, 1, slides[0].Index)
}

func TestAutoplayDisabledOnMobileAndNarrowViewports(t *testing.T) {
	h := newHarness(t)
	h.send(t, Inbound{Type: EventHello, Width: 1280, UserAgent: iphoneUA})
	require.Zero(t, h.sched.Live())

	h2 := newHarness(t)
	h2.send(t, Inbound{Type: EventHello, Width: 768, UserAgent: desktopUA})
	require.Zero(t, h2.sched.Live())

	h2.advance(t, time.Minute)
	require.Len(t, h2.rec.take(), 2, "only the hello snapshots are sent")
}

func TestResizeKeepsOneTimerPerCarousel(t *testing.T) {
	h := newHarness(t)
	h.send(t, Inbound{Type: EventHello, Width: 1280, UserAgent: desktopUA})
	h.send(t, Inbound{Type: EventResize, Width: 1300})
	h.send(t, Inbound{Type: EventResize, Width: 1400})
	require.Equal(t, 2, h.sched.Live())
	h.rec.take()

	h.advance(t, 5*time.Second)
	msgs := h.rec.take()
	require.Len(t, carousels(msgs, CarouselSlides), 1, "slides advance once per interval")
	require.Len(t, carousels(msgs, CarouselTestimonials), 1)

	h.send(t, Inbound{Type: EventResize, Width: 500})
	require.Zero(t, h.sched.Live(), "shrinking below the breakpoint stops autoplay")
}

func TestSwipeAdvanceAndJump(t *testing.T) {
	h := newHarness(t)
	h.send(t, Inbound{Type: EventHello, Width: 390, UserAgent: iphoneUA})
	h.rec.take()

	h.send(t, Inbound{Type: EventSwipe, Carousel: CarouselSlides, StartX: 300, EndX: 200})
	h.send(t, Inbound{Type: EventSwipe, Carousel: CarouselSlides, StartX: 200, EndX: 230})
	msgs := h.rec.take()
	require.Len(t, msgs, 1, "short swipes are ignored")
	require.Equal(t, 1, msgs[0].Index)

	h.send(t, Inbound{Type: EventSwipe, Carousel: CarouselSlides, StartX: 100, EndX: 300})
	h.send(t, Inbound{Type: EventAdvance, Carousel: CarouselSlides, Direction: -1})
	msgs = h.rec.take()
	require.Len(t, msgs, 2)
	require.Equal(t, 0, msgs[0].Index)
	require.Equal(t, 2, msgs[1].Index, "stepping back from the first item wraps to the last")

	h.send(t, Inbound{Type: EventJump, Carousel: CarouselTestimonials, Position: 3})
	msgs = h.rec.take()
	require.Equal(t, []bool{false, false, true}, msgs[0].Marks)

	h.send(t, Inbound{Type: EventJump, Carousel: CarouselTestimonials, Position: 4})
	msgs = h.rec.take()
	require.Len(t, msgs, 1)
	require.Equal(t, MessageError, msgs[0].Type)

	h.send(t, Inbound{Type: EventAdvance, Carousel: "gallery", Direction: 1})
	msgs = h.rec.take()
	require.Equal(t, MessageError, msgs[0].Type)
}

func TestStatsAnimateOnceToTarget(t *testing.T) {
	h := newHarness(t)
	h.send(t, Inbound{Type: EventHello, Width: 390, UserAgent: iphoneUA})
	h.rec.take()

	h.send(t, Inbound{Type: EventVisible, Element: StatsSection})
	h.advance(t, 2*time.Second)

	final := map[string]Outbound{}
	for _, m := range h.rec.take() {
		require.Equal(t, MessageStat, m.Type)
		if m.Done {
			final[m.Element] = m
		}
	}
	require.Equal(t, 15000, final["patients"].Value)
	require.Equal(t, 12, final["years"].Value)

	h.send(t, Inbound{Type: EventVisible, Element: "patients"})
	h.advance(t, time.Second)
	require.Empty(t, h.rec.take(), "a counter animates only once")
}

func TestClosedSessionRejectsEvents(t *testing.T) {
	rec := &recorder{}
	sess, err := NewSession("closed", rec, Options{Slides: 1, Testimonials: 1, Scheduler: schedule.NewManual()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sess.Run(ctx), context.Canceled)
	require.False(t, sess.Handle(Inbound{Type: EventAdvance}))
}

func TestNewSessionValidates(t *testing.T) {
	_, err := NewSession("x", nil, Options{Slides: 1, Testimonials: 1})
	require.Error(t, err)

	_, err = NewSession("x", &recorder{}, Options{Slides: 0, Testimonials: 1})
	require.Error(t, err)
}

// capturing records every callback handed to the scheduler so a test can
// fire one after its timer was replaced.
type capturing struct {
	*schedule.Manual
	mu  sync.Mutex
	fns map[time.Duration][]func()
}

func (c *capturing) Every(interval time.Duration, fn func()) schedule.Handle {
	c.mu.Lock()
	c.fns[interval] = append(c.fns[interval], fn)
	c.mu.Unlock()
	return c.Manual.Every(interval, fn)
}

func (c *capturing) callbacks(interval time.Duration) []func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]func(){}, c.fns[interval]...)
}

func TestStaleAutoplayTickIsDropped(t *testing.T) {
	rec := &recorder{}
	sched := &capturing{Manual: schedule.NewManual(), fns: map[time.Duration][]func(){}}
	sess, err := NewSession("stale", rec, Options{
		Policy:              compat.DefaultPolicy(),
		SlideInterval:       5 * time.Second,
		TestimonialInterval: 4 * time.Second,
		Slides:              3,
		Testimonials:        3,
		Scheduler:           sched,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sess.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	h := &harness{sess: sess, rec: rec, sched: sched.Manual}

	h.send(t, Inbound{Type: EventHello, Width: 1280, UserAgent: desktopUA})
	h.send(t, Inbound{Type: EventResize, Width: 1300})
	h.rec.take()

	fns := sched.callbacks(5 * time.Second)
	require.Len(t, fns, 2)

	// A tick from the replaced timer that raced its cancellation.
	fns[0]()
	h.flush(t)
	require.Empty(t, carousels(h.rec.take(), CarouselSlides))

	fns[1]()
	h.flush(t)
	msgs := carousels(h.rec.take(), CarouselSlides)
	require.Len(t, msgs, 1)
	require.Equal(t, 1, msgs[0].Index)

	h.send(t, Inbound{Type: EventResize, Width: 500})
	fns[1]()
	h.flush(t)
	require.Empty(t, carousels(h.rec.take(), CarouselSlides), "ticks after autoplay stops are dropped")
}
