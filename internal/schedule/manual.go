package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a virtual-time scheduler. Callbacks fire synchronously from
// Advance in due order, which makes timer behaviour deterministic in tests.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m        *Manual
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
	live     bool
}

// NewManual returns a scheduler at virtual time zero.
func NewManual() *Manual { return &Manual{} }

// Every registers fn to fire every interval of virtual time.
func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, id: m.seq, interval: interval, next: m.now + interval, fn: fn, live: true}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Cancel() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if !t.live {
		return
	}
	t.live = false
	for i, other := range t.m.timers {
		if other == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			break
		}
	}
}

// Advance moves virtual time forward by d, firing every due callback.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		due := m.nextDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next += due.interval
		fn := due.fn
		m.mu.Unlock()
		fn()
	}
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sorted := make([]*manualTimer, len(m.timers))
	copy(sorted, m.timers)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].next == sorted[j].next {
			return sorted[i].id < sorted[j].id
		}
		return sorted[i].next < sorted[j].next
	})
	if sorted[0].next > target {
		return nil
	}
	return sorted[0]
}

// Live returns the number of uncancelled handles.
func (m *Manual) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
