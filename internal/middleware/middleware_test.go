package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTMXAnnotatesContext(t *testing.T) {
	var info HTMXRequest
	handler := HTMX()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		info = HTMXFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/tests?category=basic", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "test-grid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.True(t, info.Request)
	require.True(t, info.Fragment())
	require.Equal(t, "test-grid", info.Target)
	require.Empty(t, HTMXFromContext(req.Context()).Target)
	require.Equal(t, []string{"HX-Request", "HX-History-Restore-Request"}, rec.Header().Values("Vary"))
}

func TestIsHTMXRequestIgnoresHistoryRestore(t *testing.T) {
	var isHTMX bool
	handler := HTMX()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		isHTMX = IsHTMXRequest(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/tests", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-History-Restore-Request", "true")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, isHTMX)
}

func TestCSRFIssuesAndValidatesToken(t *testing.T) {
	handler := CSRF(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(CSRFTokenFromContext(r.Context())))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value
	require.Equal(t, token, rec.Body.String())

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/booking", nil)
		req.AddCookie(cookies[0])
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("header token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/booking", nil)
		req.AddCookie(cookies[0])
		req.Header.Set("X-CSRF-Token", token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("form field token passes", func(t *testing.T) {
		form := url.Values{CSRFFormField: {token}}
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("mismatched token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/booking", nil)
		req.AddCookie(cookies[0])
		req.Header.Set("X-CSRF-Token", token+"x")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeviceDetectsMobileAndWidth(t *testing.T) {
	var got struct {
		mobile  bool
		android bool
		width   int
	}
	handler := Device()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		d := DeviceFromContext(r.Context())
		got.mobile, got.android, got.width = d.Mobile, d.Android, d.Width
	}))

	req := httptest.NewRequest(http.MethodGet, "/?vw=390", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, got.mobile)
	require.True(t, got.android)
	require.Equal(t, 390, got.width)
}

func TestNoStoreSetsCacheControl(t *testing.T) {
	rec := httptest.NewRecorder()
	NoStore()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
