// Package content holds the page copy: slides, stats, services and
// testimonials. Markdown fields are rendered once at load.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultDocument []byte

// Brand is the lab's identity block.
type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Address string `yaml:"address"`
	Hours   string `yaml:"hours"`
	Email   string `yaml:"email"`
}

// Slide is a slideshow image.
type Slide struct {
	Image   string `yaml:"image"`
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
}

// Stat is an animated counter.
type Stat struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Target int    `yaml:"target"`
}

// Service is a feature tile.
type Service struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Testimonial is a carousel quote. Quote is markdown; QuoteHTML is the
// sanitised rendering.
type Testimonial struct {
	Author    string        `yaml:"author"`
	Role      string        `yaml:"role"`
	Quote     string        `yaml:"quote"`
	QuoteHTML template.HTML `yaml:"-"`
}

// Site is all the page copy.
type Site struct {
	Brand        Brand         `yaml:"brand"`
	Slides       []Slide       `yaml:"slides"`
	Stats        []Stat        `yaml:"stats"`
	Services     []Service     `yaml:"services"`
	Testimonials []Testimonial `yaml:"testimonials"`
	About        string        `yaml:"about"`
	AboutHTML    template.HTML `yaml:"-"`
}

var (
	// ErrNoSlides is returned when the slideshow would be empty.
	ErrNoSlides = errors.New("content: at least one slide required")
	// ErrNoTestimonials is returned when the testimonial carousel would be empty.
	ErrNoTestimonials = errors.New("content: at least one testimonial required")
)

var markdown = goldmark.New()

func newCopyPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

var copyPolicy = newCopyPolicy()

// Default returns the compiled-in copy.
func Default() *Site {
	s, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("content: embedded site copy invalid: %v", err))
	}
	return s
}

// Parse decodes and renders a site document.
func Parse(raw []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	if len(s.Slides) == 0 {
		return nil, ErrNoSlides
	}
	if len(s.Testimonials) == 0 {
		return nil, ErrNoTestimonials
	}
	seen := map[string]bool{}
	for _, st := range s.Stats {
		if st.ID == "" || seen[st.ID] {
			return nil, fmt.Errorf("content: stat id %q missing or duplicated", st.ID)
		}
		if st.Target < 0 {
			return nil, fmt.Errorf("content: stat %s has negative target", st.ID)
		}
		seen[st.ID] = true
	}
	for i := range s.Testimonials {
		html, err := Render(s.Testimonials[i].Quote)
		if err != nil {
			return nil, fmt.Errorf("content: testimonial %d: %w", i, err)
		}
		s.Testimonials[i].QuoteHTML = html
	}
	about, err := Render(s.About)
	if err != nil {
		return nil, fmt.Errorf("content: about: %w", err)
	}
	s.AboutHTML = about
	return &s, nil
}

// Render converts markdown to sanitised HTML.
func Render(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(copyPolicy.Sanitize(buf.String()))), nil
}

// Stat returns the counter with id.
func (s *Site) Stat(id string) (Stat, bool) {
	for _, st := range s.Stats {
		if st.ID == id {
			return st, true
		}
	}
	return Stat{}, false
}
