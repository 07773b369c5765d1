package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix = "KNIFE_WEB_"

	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTemplatesDir    = "templates"
	defaultPublicDir       = "public"
	defaultEnvironment     = "local"
	defaultCountryHeader   = "CF-IPCountry"
	defaultLogLevel        = "info"
)

// Config captures runtime configuration for the storefront server.
type Config struct {
	Server  ServerConfig
	Assets  AssetsConfig
	Site    SiteConfig
	Pricing PricingConfig
	Trace   TraceConfig
	Log     LogConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AssetsConfig points at templates and static files on disk.
type AssetsConfig struct {
	TemplatesDir string
	PublicDir    string
	// Dev re-parses templates on every request.
	Dev bool
}

// SiteConfig holds the environment name and canonical base URL.
type SiteConfig struct {
	Environment string
	BaseURL     string
}

// PricingConfig controls geo lookup and variant draws.
type PricingConfig struct {
	CountryHeader string
	// VariantSeed is nil when draws should be seeded from the clock.
	VariantSeed *uint64
}

// TraceConfig identifies the Cloud Trace project for header propagation.
type TraceConfig struct {
	ProjectID string
}

// LogConfig sets the zap level.
type LogConfig struct {
	Level string
}

// ValidationError is returned when configuration values are missing or invalid.
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

// WithEnvFile overrides the .env file path. An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over every other source.
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

// Load assembles configuration from defaults, the .env file, the process
// environment and explicit overrides, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
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
		if value, ok := options.envMap[key]; ok {
			return value, true
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		value, ok := dotEnvValues[key]
		return value, ok
	}

	var invalid []string

	port := stringWithDefault(lookup, envPrefix+"PORT", "")
	if port == "" {
		// Platforms such as Cloud Run inject a bare PORT.
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            strings.TrimPrefix(port, ":"),
			ReadTimeout:     durationWithDefault(lookup, envPrefix+"READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, envPrefix+"WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, envPrefix+"IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, envPrefix+"SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Assets: AssetsConfig{
			TemplatesDir: stringWithDefault(lookup, envPrefix+"TEMPLATES_DIR", defaultTemplatesDir),
			PublicDir:    stringWithDefault(lookup, envPrefix+"PUBLIC_DIR", defaultPublicDir),
			Dev:          boolWithDefault(lookup, envPrefix+"DEV", false),
		},
		Site: SiteConfig{
			Environment: strings.ToLower(stringWithDefault(lookup, envPrefix+"ENV", defaultEnvironment)),
			BaseURL:     strings.TrimRight(stringWithDefault(lookup, envPrefix+"BASE_URL", ""), "/"),
		},
		Pricing: PricingConfig{
			CountryHeader: stringWithDefault(lookup, envPrefix+"COUNTRY_HEADER", defaultCountryHeader),
		},
		Trace: TraceConfig{
			ProjectID: stringWithDefault(lookup, envPrefix+"TRACE_PROJECT_ID", ""),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, envPrefix+"LOG_LEVEL", stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
	}

	if raw, ok := lookup(envPrefix + "VARIANT_SEED"); ok && strings.TrimSpace(raw) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			invalid = append(invalid, "Pricing.VariantSeed")
		} else {
			cfg.Pricing.VariantSeed = &seed
		}
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	fields := append([]string(nil), invalid...)

	if _, err := strconv.ParseUint(cfg.Server.Port, 10, 16); err != nil {
		fields = append(fields, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		fields = append(fields, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		fields = append(fields, "Server.WriteTimeout")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		fields = append(fields, "Server.ShutdownTimeout")
	}
	if strings.TrimSpace(cfg.Assets.TemplatesDir) == "" {
		fields = append(fields, "Assets.TemplatesDir")
	}
	if strings.TrimSpace(cfg.Pricing.CountryHeader) == "" {
		fields = append(fields, "Pricing.CountryHeader")
	}
	if cfg.Site.BaseURL != "" && !strings.HasPrefix(cfg.Site.BaseURL, "http://") && !strings.HasPrefix(cfg.Site.BaseURL, "https://") {
		fields = append(fields, "Site.BaseURL")
	}

	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

// IsProduction reports whether the site runs in a production environment.
func (c Config) IsProduction() bool {
	return c.Site.Environment == "prod" || c.Site.Environment == "production"
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.Server.Port
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
