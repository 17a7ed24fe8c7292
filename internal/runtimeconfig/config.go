package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrDomainRequired = errors.New("sections config: domain is required")
var ErrLocalesRequired = errors.New("sections config: at least one locale is required")
var ErrDefaultLocaleUnsupported = errors.New("sections config: default locale must be listed in locales")
var ErrStorageDriverUnknown = errors.New("sections config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("sections config: storage dsn is required")
var ErrTransportBaseURLInvalid = errors.New("sections config: transport base url is invalid")
var ErrTransportTimeoutInvalid = errors.New("sections config: transport timeout must be positive")
var ErrAssetsUploadLimitInvalid = errors.New("sections config: asset upload limit must be positive")
var ErrAuthSecretRequired = errors.New("sections config: auth secret is required when auth is enabled")
var ErrServerAddrRequired = errors.New("sections config: server address is required")
var ErrLoggingProviderRequired = errors.New("sections config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("sections config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sections config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sections config: logging format is invalid")

// Config aggregates runtime settings for the sections server and clients.
type Config struct {
	Domain        string          `env:"DOMAIN"`
	DefaultLocale string          `env:"DEFAULT_LOCALE"`
	Locales       []string        `env:"LOCALES" envSeparator:","`
	SchemaDir     string          `env:"SCHEMA_DIR"`
	Transport     TransportConfig `envPrefix:"TRANSPORT_"`
	Assets        AssetsConfig    `envPrefix:"ASSETS_"`
	Storage       StorageConfig   `envPrefix:"STORAGE_"`
	Cache         CacheConfig     `envPrefix:"CACHE_"`
	Server        ServerConfig    `envPrefix:"SERVER_"`
	Auth          AuthConfig      `envPrefix:"AUTH_"`
	Logging       LoggingConfig   `envPrefix:"LOG_"`
}

// TransportConfig points synchronizer clients at a sections API.
type TransportConfig struct {
	BaseURL string        `env:"BASE_URL"`
	Token   string        `env:"TOKEN"`
	Timeout time.Duration `env:"TIMEOUT"`
}

// AssetsConfig controls uploads and public URLs.
type AssetsConfig struct {
	Folder         string        `env:"FOLDER"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT"`
}

// StorageConfig selects the database backing the server.
type StorageConfig struct {
	Driver string `env:"DRIVER"`
	DSN    string `env:"DSN"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `env:"ENABLED"`
	DefaultTTL time.Duration `env:"TTL"`
}

// ServerConfig captures the HTTP listener.
type ServerConfig struct {
	Addr            string        `env:"ADDR"`
	BasePath        string        `env:"BASE_PATH"`
	MediaPath       string        `env:"MEDIA_PATH"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// AuthConfig controls bearer verification on mutating routes.
type AuthConfig struct {
	Enabled  bool          `env:"ENABLED"`
	Secret   string        `env:"SECRET"`
	Issuer   string        `env:"ISSUER"`
	TokenTTL time.Duration `env:"TOKEN_TTL"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider   string `env:"PROVIDER"`
	Level      string `env:"LEVEL"`
	Format     string `env:"FORMAT"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB"`
	MaxBackups int    `env:"MAX_BACKUPS"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS"`
}

func DefaultConfig() Config {
	return Config{
		Domain:        "site",
		DefaultLocale: "en",
		Locales:       []string{"en", "ar"},
		Transport: TransportConfig{
			Timeout: 30 * time.Second,
		},
		Assets: AssetsConfig{
			Folder:         "sections",
			PublicBaseURL:  "/media",
			MaxUploadBytes: 25 << 20,
			UploadTimeout:  2 * time.Minute,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:sections.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/api/v1",
			MediaPath:       "/media",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:   "sections",
			TokenTTL: 12 * time.Hour,
		},
		Logging: LoggingConfig{
			Provider:   "console",
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Domain) == "" {
		return ErrDomainRequired
	}
	if len(cfg.Locales) == 0 {
		return ErrLocalesRequired
	}
	if def := strings.ToLower(strings.TrimSpace(cfg.DefaultLocale)); def != "" {
		found := false
		for _, code := range cfg.Locales {
			if strings.ToLower(strings.TrimSpace(code)) == def {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrDefaultLocaleUnsupported, cfg.DefaultLocale)
		}
	}
	if base := strings.TrimSpace(cfg.Transport.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrTransportBaseURLInvalid, base)
		}
	}
	if cfg.Transport.Timeout < 0 {
		return ErrTransportTimeoutInvalid
	}
	if cfg.Assets.MaxUploadBytes <= 0 {
		return ErrAssetsUploadLimitInvalid
	}
	switch normalizeProvider(cfg.Storage.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.Secret) == "" {
		return ErrAuthSecretRequired
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider != "console" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
