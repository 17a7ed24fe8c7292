// Package sections keeps locale-scoped content sections and the binary assets
// they reference in sync with a remote store.
package sections

import (
	"net/http"
	"time"

	"github.com/goliatone/go-cms-sections/assets"
	"github.com/goliatone/go-cms-sections/internal/reconcile"
	internal "github.com/goliatone/go-cms-sections/internal/sections"
	"github.com/goliatone/go-cms-sections/internal/transport"
	"github.com/goliatone/go-cms-sections/internal/transport/httpassets"
	"github.com/goliatone/go-cms-sections/internal/transport/httptransport"
	"github.com/goliatone/go-cms-sections/internal/typeswitch"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

type (
	Synchronizer[T any] = internal.Synchronizer[T]
	Workspace[T any]    = internal.Workspace[T]
	Definition[T any]   = internal.Definition[T]
	Collection[T any]   = internal.Collection[T]
	Result[T any]       = internal.Result[T]

	Option    = internal.Option
	Slot      = internal.Slot
	Document  = internal.Document
	Item      = internal.Item
	LoadState = internal.LoadState
	SaveState = internal.SaveState
	Strategy  = reconcile.Strategy
	Stats     = reconcile.Stats

	TransportError  = internal.TransportError
	AssetStoreError = internal.AssetStoreError

	SectionTransport = interfaces.SectionTransport
	FetchResult      = interfaces.FetchResult
	AssetStore       = interfaces.AssetStore
	File             = interfaces.File
	StoredObject     = interfaces.StoredObject

	TypeSwitchCache = typeswitch.Cache
	TypeSwitchField = typeswitch.Field
)

const (
	Positional = reconcile.Positional
	SetBased   = reconcile.SetBased

	LoadIdle     = internal.LoadIdle
	LoadLoading  = internal.LoadLoading
	LoadLoaded   = internal.LoadLoaded
	LoadNotFound = internal.LoadNotFound
	LoadErrored  = internal.LoadErrored

	SaveIdle    = internal.SaveIdle
	SaveSaving  = internal.SaveSaving
	SaveSaved   = internal.SaveSaved
	SaveErrored = internal.SaveErrored
)

var (
	ErrSaveInProgress    = internal.ErrSaveInProgress
	ErrLoadDuringSave    = internal.ErrLoadDuringSave
	ErrNotLoaded         = internal.ErrNotLoaded
	ErrCleanupIncomplete = internal.ErrCleanupIncomplete
	ErrTransportRequired = internal.ErrTransportRequired
	ErrSectionRequired   = internal.ErrSectionRequired
	ErrLocaleRequired    = internal.ErrLocaleRequired
	ErrNotFound          = transport.ErrNotFound
)

// New creates a synchronizer for one section in one locale.
func New[T any](def Definition[T], locale string, t SectionTransport, opts ...Option) (*Synchronizer[T], error) {
	return internal.New(def, locale, t, opts...)
}

// NewWorkspace creates a per-locale synchronizer registry for one section.
func NewWorkspace[T any](def Definition[T], t SectionTransport, opts ...Option) (*Workspace[T], error) {
	return internal.NewWorkspace(def, t, opts...)
}

// Single declares a payload field holding one asset slot.
func Single[T any](name, folder string, slot func(*T) *Slot) Collection[T] {
	return internal.Single(name, folder, slot)
}

// List declares a slice of E inside T whose elements each carry one slot.
func List[T, E any](name string, strategy Strategy, folder string, items func(*T) *[]E, slot func(*E) *Slot, id func(*E) string) Collection[T] {
	return internal.List(name, strategy, folder, items, slot, id)
}

// DocumentCollection declares a collection of an untyped Document.
func DocumentCollection(name string, strategy Strategy, folder string) Collection[Document] {
	return internal.DocumentCollection(name, strategy, folder)
}

// Edit wraps the passthrough ref and an input in a Slot.
func Edit(ref *assets.Ref, in assets.Input) Slot { return internal.Edit(ref, in) }

func WithAssetStore(store AssetStore) Option { return internal.WithAssetStore(store) }

func WithLogger(logger interfaces.Logger) Option { return internal.WithLogger(logger) }

func WithClock(now func() time.Time) Option { return internal.WithClock(now) }

// Orphans extracts uploaded object paths left unreferenced by a failed save.
func Orphans(err error) []string { return internal.Orphans(err) }

// NewTypeSwitchCache returns a cache that keeps per-representation drafts.
func NewTypeSwitchCache() *TypeSwitchCache { return typeswitch.NewCache() }

// NewHTTPTransport returns a SectionTransport for the sections HTTP API.
func NewHTTPTransport(baseURL, domain string, opts ...httptransport.Option) (*httptransport.Client, error) {
	return httptransport.New(baseURL, domain, opts...)
}

// NewHTTPAssetStore returns an AssetStore for the sections HTTP API.
func NewHTTPAssetStore(baseURL string, opts ...httpassets.Option) (*httpassets.Store, error) {
	return httpassets.New(baseURL, opts...)
}

// NewClient builds an HTTP transport and asset store from cfg.
func NewClient(cfg Config) (*httptransport.Client, *httpassets.Store, error) {
	client, err := httptransport.New(cfg.Transport.BaseURL, cfg.Domain,
		httptransport.WithToken(cfg.Transport.Token),
		httptransport.WithTimeout(cfg.Transport.Timeout),
	)
	if err != nil {
		return nil, nil, err
	}
	storeOpts := []httpassets.Option{httpassets.WithToken(cfg.Transport.Token)}
	if cfg.Assets.UploadTimeout > 0 {
		storeOpts = append(storeOpts, httpassets.WithHTTPClient(&http.Client{Timeout: cfg.Assets.UploadTimeout}))
	}
	store, err := httpassets.New(cfg.Transport.BaseURL, storeOpts...)
	if err != nil {
		return nil, nil, err
	}
	return client, store, nil
}
