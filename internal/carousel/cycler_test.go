package carousel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := New(0)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestAdvanceWrapsBothWays(t *testing.T) {
	t.Parallel()

	c, err := New(3)
	require.NoError(t, err)

	idx, err := c.Advance(-1)
	require.NoError(t, err)
	require.Equal(t, 2, idx, "index -1 becomes N-1")

	idx, err = c.Advance(1)
	require.NoError(t, err)
	require.Equal(t, 0, idx, "index N becomes 0")
}

func TestAdvanceStaysInRange(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 8; n++ {
		c, err := New(n)
		require.NoError(t, err)
		for i := 0; i < 500; i++ {
			dir := 1
			if rng.Intn(2) == 0 {
				dir = -1
			}
			idx, err := c.Advance(dir)
			require.NoError(t, err)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
		}
	}
}

func TestAdvanceInverse(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 6; n++ {
		for start := 0; start < n; start++ {
			c, err := At(n, start)
			require.NoError(t, err)
			_, err = c.Advance(1)
			require.NoError(t, err)
			idx, err := c.Advance(-1)
			require.NoError(t, err)
			require.Equal(t, start, idx)
		}
	}
}

func TestAdvanceRejectsOtherDirections(t *testing.T) {
	t.Parallel()

	c, _ := New(4)
	_, err := c.Advance(2)
	require.ErrorIs(t, err, ErrInvalidDirection)
	require.Equal(t, 0, c.Index())
}

func TestJumpTo(t *testing.T) {
	t.Parallel()

	c, _ := New(4)
	idx, err := c.JumpTo(3)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	for _, pos := range []int{0, 5, -1} {
		_, err := c.JumpTo(pos)
		require.ErrorIs(t, err, ErrPositionOutOfRange)
		require.Equal(t, 2, c.Index(), "rejected jump leaves index unchanged")
	}
}

func TestMarksExactlyOneActive(t *testing.T) {
	t.Parallel()

	c, _ := New(5)
	for i := 0; i < 12; i++ {
		_, _ = c.Advance(1)
		active := 0
		for j, m := range c.Marks() {
			if m {
				active++
				require.Equal(t, c.Index(), j)
			}
		}
		require.Equal(t, 1, active)
	}
}

func TestAtClampsOutOfRangeToFirst(t *testing.T) {
	t.Parallel()

	c, err := At(3, 7)
	require.NoError(t, err)
	require.Equal(t, 0, c.Index())

	c, err = At(3, 2)
	require.NoError(t, err)
	require.Equal(t, 2, c.Snapshot().Index)
}
