package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/carousel"
	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
	"github.com/aman-yadav7052/hari-pathology/internal/chart"
	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/compose"
	"github.com/aman-yadav7052/hari-pathology/internal/content"
	"github.com/aman-yadav7052/hari-pathology/internal/format"
	"github.com/aman-yadav7052/hari-pathology/internal/httpx"
	custommw "github.com/aman-yadav7052/hari-pathology/internal/middleware"
	"github.com/aman-yadav7052/hari-pathology/internal/nav"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
	"github.com/aman-yadav7052/hari-pathology/internal/seo"
	"github.com/aman-yadav7052/hari-pathology/internal/theme"
)

// ChartSurface is the surface id of the price chart. The surface is
// process-wide: every visitor renders onto the same board slot, so the
// generation counts re-renders across all visitors, not per page.
const ChartSurface = "prices"

// Dependencies collects everything the UI handlers render from.
type Dependencies struct {
	Catalog       *catalog.Store
	Site          *content.Site
	Lab           compose.Lab
	Policy        compat.Policy
	Theme         theme.Store
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	MaxLinkLength int
	LivePath      string
	BaseURL       string
	Now           func() time.Time
	Templates     *template.Template
}

// Handlers exposes the page and fragment handlers.
type Handlers struct {
	deps       Dependencies
	templates  *template.Template
	booking    *compose.Booking
	feedback   *compose.Feedback
	dispatcher *compose.Dispatcher
	board      *chart.Board
	prices     chart.Dataset
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) (*Handlers, error) {
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Site == nil {
		deps.Site = content.Default()
	}
	if deps.Lab.Name == "" {
		deps.Lab = compose.DefaultLab
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.LivePath == "" {
		deps.LivePath = "/live"
	}
	tmpl := deps.Templates
	if tmpl == nil {
		parsed, err := ParseTemplates()
		if err != nil {
			return nil, err
		}
		tmpl = parsed
	}
	return &Handlers{
		deps:       deps,
		templates:  tmpl,
		booking:    compose.NewBooking(deps.Lab, deps.Catalog),
		feedback:   compose.NewFeedback(deps.Lab),
		dispatcher: compose.NewDispatcher(deps.Lab.Contact, deps.Logger),
		board:      chart.NewBoard(),
		prices:     chart.FromCatalog(deps.Catalog),
	}, nil
}

// Board exposes the chart board, mainly for tests. One board serves the
// whole process.
func (h *Handlers) Board() *chart.Board { return h.board }

// Home renders the full page. Query parameters restore fragment state for
// visitors without scripts: category, test, slide and review.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vm, err := h.page(r, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "page", vm, http.StatusOK)
}

func (h *Handlers) page(r *http.Request, q url.Values) (PageData, error) {
	ctx := r.Context()
	site := h.deps.Site
	pref := h.deps.Theme.Read(r)
	device := custommw.DeviceFromContext(ctx)
	csrf := custommw.CSRFTokenFromContext(ctx)
	filter := catalog.ParseFilter(q.Get("category"))
	selected := q.Get("test")

	slides, err := carousel.At(len(site.Slides), positionParam(q.Get("slide")))
	if err != nil {
		return PageData{}, err
	}
	reviews, err := carousel.At(len(site.Testimonials), positionParam(q.Get("review")))
	if err != nil {
		return PageData{}, err
	}
	priceChart, err := h.board.Render(ChartSurface, h.prices, 0, 0)
	if err != nil {
		return PageData{}, err
	}

	compact := device.Width > 0 && h.deps.Policy.CompactLayout(device.Width)
	vm := PageData{
		Brand:        site.Brand,
		Nav:          nav.Build(""),
		Theme:        newThemeView(pref),
		BodyClass:    bodyClass(pref, device, compact),
		CSRFToken:    csrf,
		Live:         LiveView{Path: h.deps.LivePath, SwipeThreshold: h.deps.Policy.SwipeThreshold, Breakpoint: h.deps.Policy.Breakpoint},
		Slides:       slidesView(site, slides),
		Testimonials: testimonialsView(site, reviews),
		Stats:        site.Stats,
		Services:     site.Services,
		About:        site.AboutHTML,
		Catalog:      CatalogView{View: catalog.Render(h.deps.Catalog, filter, selected)},
		Chart:        priceChart,
		Booking:      h.bookingForm(csrf, selected),
		Feedback:     FeedbackForm{CSRFToken: csrf},
		Contact:      h.deps.Lab.Contact,
		DialLink:     compose.DialLink(h.deps.Lab.Contact),
		Fee:          format.Rupees(h.deps.Lab.HomeVisitFee),
	}
	vm.Meta = h.meta(r)
	return vm, nil
}

func (h *Handlers) meta(r *http.Request) seo.Meta {
	brand := h.deps.Site.Brand
	canonical := strings.TrimRight(h.deps.BaseURL, "/") + "/"
	m := seo.Meta{
		Title:       brand.Name + " | " + brand.Tagline,
		Description: "Blood tests, home collection aur digital reports. Booking WhatsApp par.",
		Canonical:   canonical,
		Viewport:    compat.ViewportContent,
	}
	m.OG = seo.OpenGraph{
		Title:       m.Title,
		Description: m.Description,
		Type:        "website",
		URL:         canonical,
		SiteName:    brand.Name,
	}
	if len(h.deps.Site.Slides) > 0 {
		m.OG.Image = h.deps.Site.Slides[0].Image
	}
	m.JSONLD = []string{
		seo.JSON(seo.MedicalLab(brand.Name, canonical, h.deps.Lab.Contact, brand.Address)),
		seo.JSON(seo.TestOffers(brand.Name+" tests", h.deps.Catalog.All())),
	}
	return m
}

func (h *Handlers) bookingForm(csrf, selected string) BookingForm {
	return BookingForm{
		CSRFToken: csrf,
		MinDate:   format.ISODate(h.deps.Now()),
		Options:   catalog.Render(h.deps.Catalog, catalog.FilterAll, selected).Options,
		Fee:       format.Rupees(h.deps.Lab.HomeVisitFee),
	}
}

// Tests renders the filtered grid. htmx callers get the grid with the
// category buttons swapped out of band; others get the full page.
func (h *Handlers) Tests(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ParseFilter(r.URL.Query().Get("category"))
	h.deps.Metrics.ObserveFilter(filter.Key())
	if !custommw.IsHTMXRequest(r.Context()) {
		h.Home(w, r)
		return
	}

	push := "/"
	if filter != catalog.FilterAll {
		push = "/?category=" + url.QueryEscape(filter.Key())
	}
	w.Header().Set("HX-Push-Url", push)
	view := CatalogView{View: catalog.Render(h.deps.Catalog, filter, ""), OOB: true}
	h.render(w, r, "tests_fragment", view, http.StatusOK)
}

// BookTest preselects a test in the booking form and scrolls to it.
func (h *Handlers) BookTest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, ok := h.deps.Catalog.Find(name)
	if !ok {
		httpx.WriteError(r.Context(), w, r, httpx.NewError("unknown_test", "test not found", http.StatusNotFound))
		return
	}
	if !custommw.IsHTMXRequest(r.Context()) {
		http.Redirect(w, r, "/?test="+url.QueryEscape(rec.Name)+"#"+catalog.BookingSection, http.StatusSeeOther)
		return
	}

	view := catalog.Render(h.deps.Catalog, catalog.FilterAll, rec.Name)
	setTrigger(w, map[string]any{
		"lab:scroll": map[string]string{"target": catalog.BookingSection},
	})
	h.render(w, r, "test_select", TestSelect{Options: view.Options}, http.StatusOK)
}

// Carousel steps or jumps a carousel for clients without the live channel.
// The current index travels in the query string.
func (h *Handlers) Carousel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q := r.URL.Query()
	site := h.deps.Site

	var count int
	switch name {
	case "slides":
		count = len(site.Slides)
	case "testimonials":
		count = len(site.Testimonials)
	default:
		httpx.WriteError(r.Context(), w, r, httpx.NewError("unknown_carousel", "carousel not found", http.StatusNotFound))
		return
	}

	index := 0
	if raw := q.Get("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n >= count {
			httpx.WriteError(r.Context(), w, r, httpx.NewError("invalid_index", "index must be between 0 and "+strconv.Itoa(count-1), http.StatusBadRequest))
			return
		}
		index = n
	}
	cyc, err := carousel.At(count, index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if raw := q.Get("pos"); raw != "" {
		pos, _ := strconv.Atoi(raw)
		_, err = cyc.JumpTo(pos)
	} else {
		step, _ := strconv.Atoi(q.Get("step"))
		_, err = cyc.Advance(step)
	}
	if err != nil {
		httpx.WriteError(r.Context(), w, r, httpx.NewError("invalid_step", err.Error(), http.StatusBadRequest))
		return
	}

	if !custommw.IsHTMXRequest(r.Context()) {
		param, anchor := "slide", "home"
		if name == "testimonials" {
			param, anchor = "review", "testimonials"
		}
		http.Redirect(w, r, "/?"+param+"="+strconv.Itoa(cyc.Index()+1)+"#"+anchor, http.StatusSeeOther)
		return
	}

	if name == "slides" {
		h.render(w, r, "slideshow", slidesView(site, cyc), http.StatusOK)
		return
	}
	h.render(w, r, "testimonials", testimonialsView(site, cyc), http.StatusOK)
}

// Theme toggles the stored preference.
func (h *Handlers) Theme(w http.ResponseWriter, r *http.Request) {
	pref := h.deps.Theme.Toggle(w, r)
	if !custommw.IsHTMXRequest(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	setTrigger(w, map[string]any{
		"lab:theme": map[string]string{"theme": string(pref), "bodyClass": pref.BodyClass()},
	})
	h.render(w, r, "theme_toggle", newThemeView(pref), http.StatusOK)
}

// Chart re-renders the price chart at the requested size. Each render
// replaces the chart previously bound to the surface.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, _ := strconv.ParseFloat(q.Get("w"), 64)
	height, _ := strconv.ParseFloat(q.Get("h"), 64)
	c, err := h.board.Render(ChartSurface, h.prices, width, height)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "chart", c, http.StatusOK)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("render failed", zap.Error(err))
	httpx.WriteError(r.Context(), w, r, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
}

// positionParam converts a one-based query position into an index.
// Malformed or missing values select the first item.
func positionParam(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n - 1
}
