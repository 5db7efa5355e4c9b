package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/httpx"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
)

type csrfContextKey struct{}

// CSRFFormField is the hidden form field used by no-script form posts.
const CSRFFormField = "csrf_token"

const csrfTokenBytes = 32

// CSRFConfig controls the double-submit cookie.
type CSRFConfig struct {
	CookieName string
	CookiePath string
	HeaderName string
	MaxAge     time.Duration
	Secure     bool
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = "lab_csrf"
	}
	if c.HeaderName == "" {
		c.HeaderName = "X-CSRF-Token"
	}
	if c.CookiePath == "" {
		c.CookiePath = "/"
	}
	if c.MaxAge == 0 {
		c.MaxAge = 24 * time.Hour
	}
	return c
}

// CSRF guards the booking, feedback and theme posts with a double-submit
// cookie. Every request gets a token; unsafe methods must echo it in the
// header (htmx) or in the csrf_token form field (plain form posts).
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.token(w, r)
			if err != nil {
				observability.FromContext(r.Context()).Error("csrf token generation failed", zap.Error(err))
				httpx.WriteError(r.Context(), w, r, httpx.NewError("csrf_unavailable", "csrf token error", http.StatusInternalServerError))
				return
			}
			if mutating(r.Method) && !cfg.matches(r, token) {
				httpx.WriteError(r.Context(), w, r, httpx.NewError("csrf_mismatch", "forbidden", http.StatusForbidden))
				return
			}
			ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFTokenFromContext returns the token issued for the current request.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// token returns the cookie value, issuing a fresh cookie when none is present.
func (c CSRFConfig) token(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(c.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    token,
		Path:     c.CookiePath,
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func (c CSRFConfig) matches(r *http.Request, token string) bool {
	submitted := r.Header.Get(c.HeaderName)
	if submitted == "" {
		submitted = r.PostFormValue(CSRFFormField)
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) == 1
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
