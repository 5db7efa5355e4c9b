// Package stats animates counters from zero up to a declared target.
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/aman-yadav7052/hari-pathology/internal/schedule"
)

const (
	// DesktopDuration is how long a counter takes to reach its target on desktop.
	DesktopDuration = 2000 * time.Millisecond
	// MobileDuration is the shorter animation used on mobile devices.
	MobileDuration = 1500 * time.Millisecond
	// Tick is the frame interval (about 60 frames per second).
	Tick = 16 * time.Millisecond
)

// DurationFor returns the animation length for the device class.
func DurationFor(mobile bool) time.Duration {
	if mobile {
		return MobileDuration
	}
	return DesktopDuration
}

// Plan describes one counter animation.
type Plan struct {
	Target   int
	Duration time.Duration
	Tick     time.Duration
}

// NewPlan returns the plan for target on the given device class.
func NewPlan(target int, mobile bool) Plan {
	return Plan{Target: target, Duration: DurationFor(mobile), Tick: Tick}
}

func (p Plan) increment() float64 {
	tick := p.Tick
	if tick <= 0 {
		tick = Tick
	}
	steps := float64(p.Duration) / float64(tick)
	if steps < 1 {
		steps = 1
	}
	return float64(p.Target) / steps
}

// Counter is the running state of a plan.
type Counter struct {
	plan    Plan
	inc     float64
	current float64
	done    bool
}

// Start returns a counter at zero.
func (p Plan) Start() *Counter {
	return &Counter{plan: p, inc: p.increment()}
}

// Step advances one frame and returns the displayed value and whether the
// target has been reached. Steps after completion keep returning the target.
func (c *Counter) Step() (int, bool) {
	if c.done {
		return c.plan.Target, true
	}
	c.current += c.inc
	if c.current >= float64(c.plan.Target) {
		c.current = float64(c.plan.Target)
		c.done = true
	}
	return int(math.Floor(c.current)), c.done
}

// Frames returns every displayed value from the first tick to completion.
func (p Plan) Frames() []int {
	c := p.Start()
	var out []int
	for {
		v, done := c.Step()
		out = append(out, v)
		if done {
			return out
		}
	}
}

// Once remembers which elements have already been animated.
type Once struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Trigger returns true the first time it is called for id.
func (o *Once) Trigger(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seen == nil {
		o.seen = map[string]struct{}{}
	}
	if _, ok := o.seen[id]; ok {
		return false
	}
	o.seen[id] = struct{}{}
	return true
}

// Emit receives each displayed frame of an element.
type Emit func(element string, value int, done bool)

// Animator runs counter plans on a scheduler, one slot per element.
type Animator struct {
	sched schedule.Scheduler
	once  Once

	mu    sync.Mutex
	slots map[string]*schedule.Slot
}

// NewAnimator returns an animator driven by sched.
func NewAnimator(sched schedule.Scheduler) *Animator {
	return &Animator{sched: sched, slots: map[string]*schedule.Slot{}}
}

// Animate starts the plan for element unless it was animated before. It
// reports whether an animation was started. The timer cancels itself once
// the target is displayed.
func (a *Animator) Animate(element string, plan Plan, emit Emit) bool {
	if !a.once.Trigger(element) {
		return false
	}
	a.mu.Lock()
	slot, ok := a.slots[element]
	if !ok {
		slot = &schedule.Slot{}
		a.slots[element] = slot
	}
	a.mu.Unlock()

	counter := plan.Start()
	tick := plan.Tick
	if tick <= 0 {
		tick = Tick
	}
	slot.Start(a.sched, tick, func() {
		v, done := counter.Step()
		if done {
			slot.Stop()
		}
		emit(element, v, done)
	})
	return true
}

// Running reports how many counters are still ticking.
func (a *Animator) Running() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, s := range a.slots {
		if s.Active() {
			n++
		}
	}
	return n
}

// Stop cancels every running counter.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.slots {
		s.Stop()
	}
}
