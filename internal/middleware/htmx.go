package middleware

import (
	"context"
	"net/http"
	"strings"
)

type htmxContextKey struct{}

// HTMXRequest is the subset of htmx request headers the lab handlers branch on.
type HTMXRequest struct {
	Request        bool
	HistoryRestore bool
	Target         string
	Trigger        string
	TriggerName    string
	CurrentURL     string
}

// Fragment reports whether the response should be a partial swap. History
// restores ask for the full page even though they carry HX-Request.
func (h HTMXRequest) Fragment() bool {
	return h.Request && !h.HistoryRestore
}

func parseHTMX(r *http.Request) HTMXRequest {
	flag := func(name string) bool { return strings.EqualFold(r.Header.Get(name), "true") }
	return HTMXRequest{
		Request:        flag("HX-Request"),
		HistoryRestore: flag("HX-History-Restore-Request"),
		Target:         r.Header.Get("HX-Target"),
		Trigger:        r.Header.Get("HX-Trigger"),
		TriggerName:    r.Header.Get("HX-Trigger-Name"),
		CurrentURL:     r.Header.Get("HX-Current-URL"),
	}
}

// HTMX stores the parsed htmx headers on the request context. Responses vary
// on both headers since the same URL serves a fragment and a page.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "HX-Request")
			w.Header().Add("Vary", "HX-History-Restore-Request")
			ctx := context.WithValue(r.Context(), htmxContextKey{}, parseHTMX(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HTMXFromContext returns the parsed headers, or the zero value outside the middleware.
func HTMXFromContext(ctx context.Context) HTMXRequest {
	info, _ := ctx.Value(htmxContextKey{}).(HTMXRequest)
	return info
}

// IsHTMXRequest reports whether the handler should answer with a fragment.
func IsHTMXRequest(ctx context.Context) bool {
	return HTMXFromContext(ctx).Fragment()
}
