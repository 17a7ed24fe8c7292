package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-sections/internal/auth"
	"github.com/goliatone/go-cms-sections/internal/blobstore"
	"github.com/goliatone/go-cms-sections/internal/locale"
	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/sectionstore"
	"github.com/goliatone/go-cms-sections/internal/validation"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const (
	defaultMaxBodyBytes   int64 = 1 << 20
	defaultMaxUploadBytes int64 = 25 << 20
)

// API serves section documents and assets.
type API struct {
	basePath       string
	mediaPath      string
	domains        map[string]struct{}
	locales        *locale.Set
	documents      sectionstore.Repository
	blobs          blobstore.Store
	schemas        *validation.Registry
	auth           *auth.Service
	logger         interfaces.Logger
	maxBodyBytes   int64
	maxUploadBytes int64
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(documents sectionstore.Repository, blobs blobstore.Store, opts ...Option) *API {
	api := &API{
		basePath:       "/api/v1",
		mediaPath:      "/media",
		locales:        locale.MustSet(),
		documents:      documents,
		blobs:          blobs,
		logger:         logging.NoOp(),
		maxBodyBytes:   defaultMaxBodyBytes,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the API prefix (defaults to "/api/v1").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithMediaPath overrides the blob serving prefix (defaults to "/media").
func WithMediaPath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.mediaPath = trimmed
		}
	}
}

// WithDomains restricts the served content domains. An empty list serves any.
func WithDomains(domains ...string) Option {
	return func(api *API) {
		api.domains = nil
		for _, domain := range domains {
			domain = strings.ToLower(strings.TrimSpace(domain))
			if domain == "" {
				continue
			}
			if api.domains == nil {
				api.domains = make(map[string]struct{})
			}
			api.domains[domain] = struct{}{}
		}
	}
}

func WithLocales(set *locale.Set) Option {
	return func(api *API) {
		if set != nil {
			api.locales = set
		}
	}
}

func WithSchemas(registry *validation.Registry) Option {
	return func(api *API) {
		api.schemas = registry
	}
}

// WithAuth requires bearer tokens on mutating routes.
func WithAuth(service *auth.Service) Option {
	return func(api *API) {
		api.auth = service
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithMaxUploadBytes caps multipart uploads.
func WithMaxUploadBytes(limit int64) Option {
	return func(api *API) {
		if limit > 0 {
			api.maxUploadBytes = limit
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}
	if api.documents == nil {
		return fmt.Errorf("http: section repository is required")
	}

	base := joinPath(api.basePath, "")

	mux.HandleFunc("GET "+joinPath(base, "{domain}"), api.handleSectionList)
	mux.HandleFunc("GET "+joinPath(base, "{domain}/{section}"), api.handleSectionGet)
	mux.Handle("PATCH "+joinPath(base, "{domain}/{section}"), api.protect(auth.PermissionWrite, api.handleSectionPatch))

	if api.blobs != nil {
		mux.Handle("POST "+joinPath(base, "assets"), api.protect(auth.PermissionWrite, api.handleAssetUpload))
		mux.Handle("DELETE "+joinPath(base, "assets"), api.protect(auth.PermissionWrite, api.handleAssetDelete))
		mux.HandleFunc("GET "+joinPath(api.mediaPath, "{path...}"), api.handleBlobGet)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return nil
}

func (api *API) protect(permission string, handler http.HandlerFunc) http.Handler {
	if api.auth == nil {
		return handler
	}
	return api.auth.Require(permission, handler)
}

func (api *API) resolveDomain(raw string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if domain == "" {
		return "", errDomainUnknown
	}
	if api.domains == nil {
		return domain, nil
	}
	if _, ok := api.domains[domain]; !ok {
		return "", fmt.Errorf("%w: %q", errDomainUnknown, raw)
	}
	return domain, nil
}
