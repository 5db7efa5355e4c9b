package compat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"
	uaIPad    = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
)

func TestIsMobileClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{"desktop chrome", uaDesktop, false},
		{"android", uaAndroid, true},
		{"ipad", uaIPad, true},
		{"opera mini lowercase", "opera mini/8.0", true},
		{"blackberry", "BlackBerry9700", true},
		{"empty", "", false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, IsMobileClass(tc.ua))
		})
	}
	require.True(t, IsAndroid(uaAndroid))
	require.False(t, IsAndroid(uaIPad))
}

func TestAutoplayAllowed(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	require.True(t, p.AutoplayAllowed(1280, uaDesktop))
	require.False(t, p.AutoplayAllowed(768, uaDesktop), "breakpoint itself is not wide enough")
	require.True(t, p.AutoplayAllowed(769, uaDesktop))
	require.False(t, p.AutoplayAllowed(1280, uaIPad), "mobile devices never autoplay")
}

func TestSwipe(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	require.Equal(t, 1, p.Swipe(300, 200))
	require.Equal(t, -1, p.Swipe(100, 200))
	require.Equal(t, 0, p.Swipe(100, 150), "exactly the threshold is not a swipe")
	require.Equal(t, 0, p.Swipe(150, 100))
	require.Equal(t, 1, p.Swipe(150, 99))

	custom := Policy{SwipeThreshold: 10}
	require.Equal(t, -1, custom.Swipe(0, 11))
}

func TestCompactLayout(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	require.True(t, p.CompactLayout(768))
	require.False(t, p.CompactLayout(1024))
}

func TestDetectAndHints(t *testing.T) {
	t.Parallel()

	d := Detect(uaAndroid, HintedWidth("", "412"))
	require.Equal(t, 412, d.Width)
	require.True(t, d.Mobile)
	require.ElementsMatch(t, []string{"is-mobile", "no-hover", "is-android"}, d.BodyClasses())

	require.Zero(t, HintedWidth("abc", "-4"))
	require.Empty(t, Detect(uaDesktop, 0).BodyClasses())
}
