package chart

import "sync"

// Board tracks the chart bound to each display surface. Rendering onto a
// surface destroys whatever chart was bound there before.
type Board struct {
	mu        sync.Mutex
	live      map[string]*Chart
	destroyed int
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{live: map[string]*Chart{}}
}

// Render lays ds out and binds it to surface, replacing the previous chart.
func (b *Board) Render(surface string, ds Dataset, width, height float64) (Chart, error) {
	c, err := Layout(ds, width, height)
	if err != nil {
		return Chart{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c.Surface = surface
	if prev, ok := b.live[surface]; ok {
		c.Generation = prev.Generation + 1
		b.destroyed++
	}
	b.live[surface] = &c
	return c, nil
}

// Live returns the chart currently bound to surface.
func (b *Board) Live(surface string) (Chart, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.live[surface]
	if !ok {
		return Chart{}, false
	}
	return *c, true
}

// Surfaces returns the number of bound surfaces.
func (b *Board) Surfaces() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Destroyed returns how many charts have been replaced.
func (b *Board) Destroyed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}
