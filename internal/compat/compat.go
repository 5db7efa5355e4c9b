// Package compat classifies devices and decides which timer- and
// touch-driven behaviours apply to them.
package compat

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultBreakpoint is the widest viewport, in logical pixels, treated as a phone layout.
	DefaultBreakpoint = 768
	// DefaultSwipeThreshold is the horizontal travel, in logical pixels, that counts as a swipe.
	DefaultSwipeThreshold = 50
	// ViewportContent is the viewport meta value the page enforces.
	ViewportContent = "width=device-width, initial-scale=1.0, maximum-scale=5.0, user-scalable=yes"
)

var (
	mobilePattern  = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
	androidPattern = regexp.MustCompile(`(?i)Android`)
)

// IsMobileClass reports whether the user agent belongs to a known mobile platform.
func IsMobileClass(userAgent string) bool {
	return mobilePattern.MatchString(userAgent)
}

// IsAndroid reports whether the user agent is an Android device.
func IsAndroid(userAgent string) bool {
	return androidPattern.MatchString(userAgent)
}

// Policy holds the device thresholds.
type Policy struct {
	Breakpoint     int
	SwipeThreshold int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{Breakpoint: DefaultBreakpoint, SwipeThreshold: DefaultSwipeThreshold}
}

func (p Policy) normalised() Policy {
	if p.Breakpoint <= 0 {
		p.Breakpoint = DefaultBreakpoint
	}
	if p.SwipeThreshold <= 0 {
		p.SwipeThreshold = DefaultSwipeThreshold
	}
	return p
}

// AutoplayAllowed reports whether carousel timers may run: the viewport must
// be wider than the breakpoint and the device must not be mobile-classed.
func (p Policy) AutoplayAllowed(width int, userAgent string) bool {
	p = p.normalised()
	return width > p.Breakpoint && !IsMobileClass(userAgent)
}

// CompactLayout reports whether the viewport uses the phone layout.
func (p Policy) CompactLayout(width int) bool {
	p = p.normalised()
	return width <= p.Breakpoint
}

// Swipe converts a touch from startX to endX into a carousel step: +1 for a
// leftward swipe (next), -1 for a rightward swipe (previous), 0 when the
// travel does not exceed the threshold.
func (p Policy) Swipe(startX, endX float64) int {
	p = p.normalised()
	diff := startX - endX
	threshold := float64(p.SwipeThreshold)
	switch {
	case diff > threshold:
		return 1
	case -diff > threshold:
		return -1
	default:
		return 0
	}
}

// Device is what the server knows about the visitor's browser.
type Device struct {
	UserAgent string
	Width     int
	Mobile    bool
	Android   bool
}

// Detect builds a Device from the user agent and a reported viewport width.
// A width of zero means unknown.
func Detect(userAgent string, width int) Device {
	return Device{
		UserAgent: userAgent,
		Width:     width,
		Mobile:    IsMobileClass(userAgent),
		Android:   IsAndroid(userAgent),
	}
}

// HintedWidth reads a viewport width client hint ("Sec-CH-Viewport-Width"
// or the legacy "Viewport-Width"). It returns 0 when absent or malformed.
func HintedWidth(values ...string) int {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// BodyClasses returns the document classes for the device. The hover-off
// class disables hover effects on touch devices.
func (d Device) BodyClasses() []string {
	var classes []string
	if d.Mobile {
		classes = append(classes, "is-mobile", "no-hover")
	}
	if d.Android {
		classes = append(classes, "is-android")
	}
	return classes
}
