package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile             = ".env"
	defaultAddr                = ":8080"
	defaultEnvironment         = "local"
	defaultLogLevel            = "info"
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultIdleTimeout         = 120 * time.Second
	defaultRequestTimeout      = 20 * time.Second
	defaultShutdownTimeout     = 10 * time.Second
	defaultContactNumber       = "6393345938"
	defaultLabName             = "Hari Pathology"
	defaultHomeVisitFee        = 150
	defaultSwipeThreshold      = 50
	defaultMobileBreakpoint    = 768
	defaultSlideInterval       = 5 * time.Second
	defaultTestimonialInterval = 4 * time.Second
	defaultMaxLinkLength       = 4096
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Lab    LabConfig
	Live   LiveConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr            string
	BaseURL         string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SecureCookies   bool
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string
}

// LabConfig holds the business details used by the composers.
type LabConfig struct {
	Name          string
	ContactNumber string
	HomeVisitFee  int
	MaxLinkLength int
}

// LiveConfig tunes the interactive carousel channel.
type LiveConfig struct {
	SwipeThreshold      int
	MobileBreakpoint    int
	SlideInterval       time.Duration
	TestimonialInterval time.Duration
	AllowedOrigins      []string
}

// Production reports whether the server runs in a production environment.
func (c Config) Production() bool {
	return c.Server.Environment == "production" || c.Server.Environment == "prod"
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
// An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map. Values in the map take
// precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides,
// environment variables and the explicit map, in increasing precedence.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}

	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	p := parser{lookup: lookup}
	cfg := Config{
		Server: ServerConfig{
			Addr:            p.str("LAB_HTTP_ADDR", defaultAddr),
			BaseURL:         strings.TrimRight(p.str("LAB_BASE_URL", ""), "/"),
			Environment:     strings.ToLower(p.str("LAB_ENV", defaultEnvironment)),
			ReadTimeout:     p.duration("LAB_HTTP_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    p.duration("LAB_HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     p.duration("LAB_HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:  p.duration("LAB_HTTP_REQUEST_TIMEOUT", defaultRequestTimeout),
			ShutdownTimeout: p.duration("LAB_HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Log: LogConfig{
			Level: strings.ToLower(p.str("LAB_LOG_LEVEL", defaultLogLevel)),
		},
		Lab: LabConfig{
			Name:          p.str("LAB_NAME", defaultLabName),
			ContactNumber: p.str("LAB_CONTACT_NUMBER", defaultContactNumber),
			HomeVisitFee:  p.integer("LAB_HOME_VISIT_FEE", defaultHomeVisitFee),
			MaxLinkLength: p.integer("LAB_MAX_LINK_LENGTH", defaultMaxLinkLength),
		},
		Live: LiveConfig{
			SwipeThreshold:      p.integer("LAB_SWIPE_THRESHOLD", defaultSwipeThreshold),
			MobileBreakpoint:    p.integer("LAB_MOBILE_BREAKPOINT", defaultMobileBreakpoint),
			SlideInterval:       p.duration("LAB_SLIDE_INTERVAL", defaultSlideInterval),
			TestimonialInterval: p.duration("LAB_TESTIMONIAL_INTERVAL", defaultTestimonialInterval),
			AllowedOrigins:      p.csv("LAB_ALLOWED_ORIGINS"),
		},
	}
	cfg.Server.SecureCookies = p.boolean("LAB_SECURE_COOKIES", cfg.Production())

	if err := validateConfig(cfg, p.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	fields := append([]string(nil), invalid...)
	add := func(ok bool, name string) {
		if !ok {
			fields = append(fields, name)
		}
	}

	add(strings.TrimSpace(cfg.Server.Addr) != "", "Server.Addr")
	add(cfg.Server.ReadTimeout > 0, "Server.ReadTimeout")
	add(cfg.Server.WriteTimeout > 0, "Server.WriteTimeout")
	add(cfg.Server.RequestTimeout > 0, "Server.RequestTimeout")
	add(validLevel(cfg.Log.Level), "Log.Level")
	add(isDigits(cfg.Lab.ContactNumber), "Lab.ContactNumber")
	add(strings.TrimSpace(cfg.Lab.Name) != "", "Lab.Name")
	add(cfg.Lab.HomeVisitFee >= 0, "Lab.HomeVisitFee")
	add(cfg.Lab.MaxLinkLength > 0, "Lab.MaxLinkLength")
	add(cfg.Live.SwipeThreshold > 0, "Live.SwipeThreshold")
	add(cfg.Live.MobileBreakpoint > 0, "Live.MobileBreakpoint")
	add(cfg.Live.SlideInterval > 0, "Live.SlideInterval")
	add(cfg.Live.TestimonialInterval > 0, "Live.TestimonialInterval")

	if len(fields) > 0 {
		return &ValidationError{fields: dedupe(fields)}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

// parser reads typed values and records keys that were set but unparsable.
type parser struct {
	lookup  func(string) (string, bool)
	invalid []string
}

func (p *parser) raw(key string) (string, bool) {
	value, ok := p.lookup(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (p *parser) str(key, fallback string) string {
	if value, ok := p.raw(key); ok {
		return value
	}
	return fallback
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value, ok := p.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	value, ok := p.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return parsed
}

func (p *parser) boolean(key string, fallback bool) bool {
	value, ok := p.raw(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	p.invalid = append(p.invalid, key)
	return fallback
}

func (p *parser) csv(key string) []string {
	value, ok := p.raw(key)
	if !ok {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
