// Package theme persists the visitor's light/dark preference.
package theme

import (
	"net/http"
	"strings"
	"time"
)

// Preference is the colour scheme. The zero value is Dark.
type Preference string

const (
	Dark  Preference = "dark"
	Light Preference = "light"
)

// CookieName is the single persisted key.
const CookieName = "theme"

const cookieMaxAge = 365 * 24 * time.Hour

// Parse resolves a stored value. Anything but "light" is dark.
func Parse(raw string) Preference {
	if strings.EqualFold(strings.TrimSpace(raw), string(Light)) {
		return Light
	}
	return Dark
}

// Toggle returns the opposite preference.
func (p Preference) Toggle() Preference {
	if p == Light {
		return Dark
	}
	return Light
}

// BodyClass is the class added to <body>; dark needs none.
func (p Preference) BodyClass() string {
	if p == Light {
		return "light"
	}
	return ""
}

// Icon is the Font Awesome class for the toggle button.
func (p Preference) Icon() string {
	if p == Light {
		return "fas fa-sun"
	}
	return "fas fa-moon"
}

// Store reads and writes the preference cookie.
type Store struct {
	Secure bool
}

// Read returns the stored preference, defaulting to dark.
func (s Store) Read(r *http.Request) Preference {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Dark
	}
	return Parse(c.Value)
}

// Write persists p.
func (s Store) Write(w http.ResponseWriter, p Preference) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(Parse(string(p))),
		Path:     "/",
		HttpOnly: false,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieMaxAge.Seconds()),
	})
}

// Toggle flips the stored preference, persists it and returns the new value.
func (s Store) Toggle(w http.ResponseWriter, r *http.Request) Preference {
	next := s.Read(r).Toggle()
	s.Write(w, next)
	return next
}
