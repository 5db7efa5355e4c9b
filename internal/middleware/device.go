package middleware

import (
	"context"
	"net/http"

	"github.com/aman-yadav7052/hari-pathology/internal/compat"
)

type deviceContextKey struct{}

// Device classifies the visitor from the User-Agent and the viewport width
// hints (Sec-CH-Viewport-Width, Viewport-Width, or a ?vw= query value).
func Device() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			width := compat.HintedWidth(
				r.Header.Get("Sec-CH-Viewport-Width"),
				r.Header.Get("Viewport-Width"),
				r.URL.Query().Get("vw"),
			)
			device := compat.Detect(r.UserAgent(), width)
			w.Header().Set("Accept-CH", "Sec-CH-Viewport-Width, Viewport-Width")
			w.Header().Add("Vary", "User-Agent")

			ctx := context.WithValue(r.Context(), deviceContextKey{}, device)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DeviceFromContext returns the detected device, or a classification of an
// empty user agent when the middleware did not run.
func DeviceFromContext(ctx context.Context) compat.Device {
	if ctx != nil {
		if d, ok := ctx.Value(deviceContextKey{}).(compat.Device); ok {
			return d
		}
	}
	return compat.Detect("", 0)
}
