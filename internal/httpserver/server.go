package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/compose"
	"github.com/aman-yadav7052/hari-pathology/internal/config"
	"github.com/aman-yadav7052/hari-pathology/internal/content"
	"github.com/aman-yadav7052/hari-pathology/internal/httpx"
	"github.com/aman-yadav7052/hari-pathology/internal/live"
	custommw "github.com/aman-yadav7052/hari-pathology/internal/middleware"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
	"github.com/aman-yadav7052/hari-pathology/internal/schedule"
	"github.com/aman-yadav7052/hari-pathology/internal/theme"
	"github.com/aman-yadav7052/hari-pathology/internal/ui"
	"github.com/aman-yadav7052/hari-pathology/public"
)

// LivePath is where the live channel is mounted.
const LivePath = "/live"

// Config holds runtime options for the lab HTTP server.
type Config struct {
	Address        string
	BaseURL        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	SecureCookies  bool

	Lab           compose.Lab
	MaxLinkLength int
	Policy        compat.Policy

	SlideInterval       time.Duration
	TestimonialInterval time.Duration
	AllowedOrigins      []string
	// Scheduler drives carousel and counter timers. Nil uses wall-clock tickers.
	Scheduler schedule.Scheduler

	Catalog *catalog.Store
	Site    *content.Site
	Now     func() time.Time

	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// FromConfig maps loaded settings onto the server configuration.
func FromConfig(cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) Config {
	return Config{
		Address:        cfg.Server.Addr,
		BaseURL:        cfg.Server.BaseURL,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		RequestTimeout: cfg.Server.RequestTimeout,
		SecureCookies:  cfg.Server.SecureCookies,
		Lab: compose.Lab{
			Name:         cfg.Lab.Name,
			Contact:      cfg.Lab.ContactNumber,
			HomeVisitFee: cfg.Lab.HomeVisitFee,
		},
		MaxLinkLength: cfg.Lab.MaxLinkLength,
		Policy: compat.Policy{
			Breakpoint:     cfg.Live.MobileBreakpoint,
			SwipeThreshold: cfg.Live.SwipeThreshold,
		},
		SlideInterval:       cfg.Live.SlideInterval,
		TestimonialInterval: cfg.Live.TestimonialInterval,
		AllowedOrigins:      cfg.Live.AllowedOrigins,
		Logger:              logger,
		Metrics:             metrics,
	}
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	cfg = withDefaults(cfg)

	site := cfg.Site
	if site == nil {
		site = content.Default()
	}
	handlers, err := ui.NewHandlers(ui.Dependencies{
		Catalog:       cfg.Catalog,
		Site:          site,
		Lab:           cfg.Lab,
		Policy:        cfg.Policy,
		Theme:         theme.Store{Secure: cfg.SecureCookies},
		Metrics:       cfg.Metrics,
		Logger:        cfg.Logger,
		MaxLinkLength: cfg.MaxLinkLength,
		LivePath:      LivePath,
		BaseURL:       cfg.BaseURL,
		Now:           cfg.Now,
	})
	if err != nil {
		return nil, err
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, err
	}

	liveHandler := live.NewHandler(live.HandlerConfig{
		Session: live.Options{
			Policy:              cfg.Policy,
			SlideInterval:       cfg.SlideInterval,
			TestimonialInterval: cfg.TestimonialInterval,
			Slides:              len(site.Slides),
			Testimonials:        len(site.Testimonials),
			Stats:               statTargets(site),
			Scheduler:           cfg.Scheduler,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        cfg.Metrics,
		Logger:         cfg.Logger,
	})

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(cfg.Logger))
	router.Use(observability.TraceMiddleware())
	router.Use(observability.RequestLoggerMiddleware())
	router.Use(observability.RecoveryMiddleware(cfg.Logger))
	router.Use(custommw.Device())
	router.Use(custommw.HTMX())

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(r.Context(), w, r, httpx.NewError("not_found", "page not found", http.StatusNotFound))
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	router.Handle("/metrics", cfg.Metrics.Handler())
	// The live channel is long lived and must not see the request timeout
	// or the compressor.
	router.Handle(LivePath, liveHandler)

	router.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.With(custommw.Immutable()).Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
			r.Use(custommw.NoStore())
			r.Use(custommw.CSRF(custommw.CSRFConfig{
				CookiePath: "/",
				HeaderName: "X-CSRF-Token",
				Secure:     cfg.SecureCookies,
			}))
			mountRoutes(r, handlers)
		})
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	srv.RegisterOnShutdown(liveHandler.Shutdown)
	return srv, nil
}

func mountRoutes(r chi.Router, h *ui.Handlers) {
	r.Get("/", h.Home)
	r.Get("/tests", h.Tests)
	r.Get("/tests/{name}/book", h.BookTest)
	r.Get("/carousel/{name}", h.Carousel)
	r.Get("/chart/"+ui.ChartSurface, h.Chart)
	r.Post("/booking", h.Booking)
	r.Post("/feedback", h.Feedback)
	r.Post("/theme", h.Theme)
}

func withDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.Address) == "" {
		cfg.Address = ":8080"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Lab.Name == "" {
		cfg.Lab = compose.DefaultLab
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewMetrics()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = schedule.Real{}
	}
	return cfg
}

func statTargets(site *content.Site) []live.StatTarget {
	out := make([]live.StatTarget, 0, len(site.Stats))
	for _, s := range site.Stats {
		out = append(out, live.StatTarget{Element: s.ID, Target: s.Target})
	}
	return out
}
