// Package carousel implements the wraparound index shared by the image
// slideshow and the testimonial carousel.
package carousel

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a carousel is built without items.
	ErrEmpty = errors.New("carousel: at least one item required")
	// ErrInvalidDirection is returned when Advance receives anything but ±1.
	ErrInvalidDirection = errors.New("carousel: direction must be +1 or -1")
	// ErrPositionOutOfRange is returned when JumpTo receives a position outside 1..N.
	ErrPositionOutOfRange = errors.New("carousel: position out of range")
)

// Cycler tracks the active item of a carousel. 0 <= Index() < Len() always holds.
type Cycler struct {
	index int
	count int
}

// New returns a cycler over count items positioned on the first one.
func New(count int) (*Cycler, error) {
	if count < 1 {
		return nil, ErrEmpty
	}
	return &Cycler{count: count}, nil
}

// Index returns the zero-based active item.
func (c *Cycler) Index() int { return c.index }

// Len returns the number of items.
func (c *Cycler) Len() int { return c.count }

// Advance moves one item forward (+1) or back (-1), wrapping at both ends.
func (c *Cycler) Advance(direction int) (int, error) {
	if direction != 1 && direction != -1 {
		return c.index, fmt.Errorf("%w: got %d", ErrInvalidDirection, direction)
	}
	c.index = ((c.index+direction)%c.count + c.count) % c.count
	return c.index, nil
}

// JumpTo activates the item at the one-based position.
func (c *Cycler) JumpTo(position int) (int, error) {
	if position < 1 || position > c.count {
		return c.index, fmt.Errorf("%w: %d not in 1..%d", ErrPositionOutOfRange, position, c.count)
	}
	c.index = position - 1
	return c.index, nil
}

// Marks returns the active flag of every item. Exactly one entry is true.
// The visual element and its indicator dot both read from the same slice.
func (c *Cycler) Marks() []bool {
	marks := make([]bool, c.count)
	marks[c.index] = true
	return marks
}

// Snapshot is an immutable view of the cycler after a mutation.
type Snapshot struct {
	Index int
	Marks []bool
}

// Snapshot captures the current state.
func (c *Cycler) Snapshot() Snapshot {
	return Snapshot{Index: c.index, Marks: c.Marks()}
}

// At returns a cycler positioned on index, clamped into range. It is used
// to rebuild state from a request parameter.
func At(count, index int) (*Cycler, error) {
	c, err := New(count)
	if err != nil {
		return nil, err
	}
	if index > 0 && index < count {
		c.index = index
	}
	return c, nil
}
