package ui

import (
	"html/template"
	"strings"

	"github.com/aman-yadav7052/hari-pathology/internal/carousel"
	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
	"github.com/aman-yadav7052/hari-pathology/internal/chart"
	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/content"
	"github.com/aman-yadav7052/hari-pathology/internal/nav"
	"github.com/aman-yadav7052/hari-pathology/internal/seo"
	"github.com/aman-yadav7052/hari-pathology/internal/theme"
)

// PageData is the view model of the home page.
type PageData struct {
	Meta      seo.Meta
	Brand     content.Brand
	Nav       []nav.RenderedItem
	Theme     ThemeView
	BodyClass string
	CSRFToken string
	Live      LiveView

	Slides       CarouselView
	Testimonials CarouselView
	Stats        []content.Stat
	Services     []content.Service
	About        template.HTML

	Catalog  CatalogView
	Chart    chart.Chart
	Booking  BookingForm
	Feedback FeedbackForm

	Contact  string
	DialLink string
	Fee      string
}

// ThemeView renders the theme toggle.
type ThemeView struct {
	Preference theme.Preference
	Icon       string
	BodyClass  string
}

func newThemeView(p theme.Preference) ThemeView {
	return ThemeView{Preference: p, Icon: p.Icon(), BodyClass: p.BodyClass()}
}

// LiveView configures the browser side of the live channel.
type LiveView struct {
	Path           string
	SwipeThreshold int
	Breakpoint     int
}

// CarouselView is one slideshow or testimonial carousel.
type CarouselView struct {
	Name  string
	Index int
	Items []CarouselItem
}

// CarouselItem is a slide or quote with its indicator dot.
type CarouselItem struct {
	Position int
	Active   bool
	Slide    content.Slide
	Quote    content.Testimonial
}

// Prev and Next are the one-based positions behind the arrow buttons, used
// by the no-script fallback links.
func (c CarouselView) Prev() int { return (c.Index-1+len(c.Items))%len(c.Items) + 1 }

func (c CarouselView) Next() int { return (c.Index+1)%len(c.Items) + 1 }

func slidesView(site *content.Site, cyc *carousel.Cycler) CarouselView {
	v := CarouselView{Name: "slides", Index: cyc.Index()}
	for i, mark := range cyc.Marks() {
		v.Items = append(v.Items, CarouselItem{Position: i + 1, Active: mark, Slide: site.Slides[i]})
	}
	return v
}

func testimonialsView(site *content.Site, cyc *carousel.Cycler) CarouselView {
	v := CarouselView{Name: "testimonials", Index: cyc.Index()}
	for i, mark := range cyc.Marks() {
		v.Items = append(v.Items, CarouselItem{Position: i + 1, Active: mark, Quote: site.Testimonials[i]})
	}
	return v
}

// CatalogView wraps the rendered catalog with the fragment flag that
// toggles out-of-band swaps.
type CatalogView struct {
	catalog.View
	OOB bool
}

// FormStatus is the inline message below a form.
type FormStatus struct {
	Tone string // "success" or "error"
	Text string
}

// BookingForm is the booking form state.
type BookingForm struct {
	CSRFToken      string
	Name           string
	Phone          string
	Date           string
	MinDate        string
	HomeCollection bool
	Options        []catalog.Option
	Fee            string
	Invalid        map[string]bool
	Status         *FormStatus
}

// FeedbackForm is the feedback form state.
type FeedbackForm struct {
	CSRFToken string
	Name      string
	Phone     string
	Message   string
	Invalid   map[string]bool
	Status    *FormStatus
}

// TestSelect is the booking selector fragment.
type TestSelect struct {
	Options []catalog.Option
	OOB     bool
}

func bodyClass(p theme.Preference, device compat.Device, compact bool) string {
	classes := append([]string{}, device.BodyClasses()...)
	if c := p.BodyClass(); c != "" {
		classes = append(classes, c)
	}
	if compact {
		classes = append(classes, "compact")
	}
	return strings.Join(classes, " ")
}

func invalidSet(fields []string) map[string]bool {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = true
	}
	return out
}
