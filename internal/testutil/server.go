package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aman-yadav7052/hari-pathology/internal/httpserver"
	"github.com/aman-yadav7052/hari-pathology/internal/schedule"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithMaxLinkLength caps deep link length so the dial fallback can be exercised.
func WithMaxLinkLength(n int) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.MaxLinkLength = n
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s schedule.Scheduler) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Scheduler = s
	}
}

// WithClock pins the time used for booking date limits.
func WithClock(now time.Time) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Now = func() time.Time { return now }
	}
}

// NewServer constructs an httptest server running the lab HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:       ":0",
		BaseURL:       "https://haripathology.example",
		MaxLinkLength: 4096,
		Scheduler:     schedule.NewManual(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client that keeps cookies and does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
