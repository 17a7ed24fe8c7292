package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/rs/cors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-sections/internal/auth"
	"github.com/goliatone/go-cms-sections/internal/blobstore"
	sectionshttp "github.com/goliatone/go-cms-sections/internal/http"
	"github.com/goliatone/go-cms-sections/internal/locale"
	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/logging/console"
	"github.com/goliatone/go-cms-sections/internal/logging/gologger"
	"github.com/goliatone/go-cms-sections/internal/logging/zaplogger"
	"github.com/goliatone/go-cms-sections/internal/runtimeconfig"
	"github.com/goliatone/go-cms-sections/internal/sectionstore"
	"github.com/goliatone/go-cms-sections/internal/validation"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// Container wires the sections server. Without a database it falls back to
// in-memory stores.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	closers        []func() error

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	documents sectionstore.Repository
	blobs     blobstore.Store
	schemas   *validation.Registry
	locales   *locale.Set
	auth      *auth.Service

	api *sectionshttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB backs documents and blobs with db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected by configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithDocumentRepository overrides the section document store.
func WithDocumentRepository(repo sectionstore.Repository) Option {
	return func(c *Container) {
		c.documents = repo
	}
}

// WithBlobStore overrides the asset blob store.
func WithBlobStore(store blobstore.Store) Option {
	return func(c *Container) {
		c.blobs = store
	}
}

// WithSchemaRegistry overrides the registry loaded from Config.SchemaDir.
func WithSchemaRegistry(registry *validation.Registry) Option {
	return func(c *Container) {
		c.schemas = registry
	}
}

// WithAuthService overrides the bearer verifier built from Config.Auth.
func WithAuthService(service *auth.Service) Option {
	return func(c *Container) {
		c.auth = service
	}
}

// NewContainer validates cfg and wires every server dependency.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}

	locales, err := locale.NewSet(localeCodes(cfg)...)
	if err != nil {
		return nil, err
	}
	c.locales = locales

	c.configureCacheDefaults()
	c.configureStores()

	if err := c.configureSchemas(); err != nil {
		return nil, err
	}
	if err := c.configureAuth(); err != nil {
		return nil, err
	}

	apiOpts := []sectionshttp.Option{
		sectionshttp.WithBasePath(cfg.Server.BasePath),
		sectionshttp.WithMediaPath(cfg.Server.MediaPath),
		sectionshttp.WithDomains(cfg.Domain),
		sectionshttp.WithLocales(c.locales),
		sectionshttp.WithSchemas(c.schemas),
		sectionshttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		sectionshttp.WithMaxUploadBytes(cfg.Assets.MaxUploadBytes),
	}
	if c.auth != nil {
		apiOpts = append(apiOpts, sectionshttp.WithAuth(c.auth))
	}
	c.api = sectionshttp.NewAPI(c.documents, c.blobs, apiOpts...)

	logging.ModuleLogger(c.loggerProvider, "sections.server").Info("sections.container.configured",
		"domain", cfg.Domain,
		"locales", c.locales.Locales(),
		"storage", c.storageName(),
		"cache", c.cacheService != nil,
		"auth", c.auth != nil,
	)

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:  cfg.Level,
			Format: cfg.Format,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "zap":
		provider, err := zaplogger.NewProvider(zaplogger.Config{
			Level:      cfg.Level,
			Format:     cfg.Format,
			File:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		c.closers = append(c.closers, provider.Close)
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStores() {
	blobOpts := []blobstore.Option{
		blobstore.WithPublicBaseURL(c.Config.Assets.PublicBaseURL),
		blobstore.WithMaxBytes(c.Config.Assets.MaxUploadBytes),
	}
	if c.bunDB != nil {
		if c.documents == nil {
			c.documents = sectionstore.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.blobs == nil {
			c.blobs = blobstore.NewBunStore(c.bunDB, blobOpts...)
		}
		return
	}
	if c.documents == nil {
		c.documents = sectionstore.NewMemoryRepository()
	}
	if c.blobs == nil {
		c.blobs = blobstore.NewMemoryStore(blobOpts...)
	}
}

// configureSchemas registers every *.json file in SchemaDir under the file's
// base name.
func (c *Container) configureSchemas() error {
	if c.schemas != nil {
		return nil
	}
	c.schemas = validation.NewRegistry()
	dir := strings.TrimSpace(c.Config.SchemaDir)
	if dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("schemas: %w", err)
	}
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("schemas: read %s: %w", path, err)
		}
		section := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := c.schemas.RegisterJSON(section, raw); err != nil {
			return fmt.Errorf("schemas: %s: %w", path, err)
		}
	}
	return nil
}

func (c *Container) configureAuth() error {
	if c.auth != nil || !c.Config.Auth.Enabled {
		return nil
	}
	service, err := auth.New(c.Config.Auth.Secret, c.Config.Auth.Issuer, auth.WithTTL(c.Config.Auth.TokenTTL))
	if err != nil {
		return err
	}
	c.auth = service
	return nil
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return "memory"
	}
	return c.Config.Storage.Driver
}

// Handler returns the API mounted on a fresh mux with CORS applied.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := c.api.Register(mux); err != nil {
		return nil, err
	}
	origins := c.Config.Server.AllowedOrigins
	if len(origins) == 0 {
		return mux, nil
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: false,
	}).Handler(mux), nil
}

// WatchChanges logs document change events until ctx is done.
func (c *Container) WatchChanges(ctx context.Context) error {
	events, err := c.documents.Subscribe(ctx)
	if err != nil {
		return err
	}
	logger := logging.StoreLogger(c.loggerProvider)
	go func() {
		for event := range events {
			logging.WithSectionContext(logger, event.Key.Domain, event.Key.Section, event.Key.Locale).
				Info("sections.store.changed", "type", string(event.Type), "version", event.Version)
		}
	}()
	return nil
}

// Close releases resources owned by the container. The database passed via
// WithBunDB stays open.
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// API exposes the HTTP API.
func (c *Container) API() *sectionshttp.API {
	return c.api
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Documents exposes the section document store.
func (c *Container) Documents() sectionstore.Repository {
	return c.documents
}

// Blobs exposes the asset blob store.
func (c *Container) Blobs() blobstore.Store {
	return c.blobs
}

// Schemas exposes the section schema registry.
func (c *Container) Schemas() *validation.Registry {
	return c.schemas
}

// Locales exposes the supported locale set.
func (c *Container) Locales() *locale.Set {
	return c.locales
}

// AuthService exposes the bearer verifier, nil when auth is disabled.
func (c *Container) AuthService() *auth.Service {
	return c.auth
}

func localeCodes(cfg runtimeconfig.Config) []string {
	codes := make([]string, 0, len(cfg.Locales)+1)
	if def := strings.TrimSpace(cfg.DefaultLocale); def != "" {
		codes = append(codes, def)
	}
	return append(codes, cfg.Locales...)
}
