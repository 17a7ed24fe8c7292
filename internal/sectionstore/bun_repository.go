package sectionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const documentNamespace = "section_document"

// NewDocumentRepository builds the go-repository-bun repository for section rows.
func NewDocumentRepository(db *bun.DB) repository.Repository[*DocumentModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*DocumentModel]{
		NewRecord: func() *DocumentModel { return &DocumentModel{} },
		GetID: func(m *DocumentModel) uuid.UUID {
			return m.ID
		},
		SetID: func(m *DocumentModel, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(m *DocumentModel) string {
			return m.Key
		},
	})
}

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo         repository.Repository[*DocumentModel]
	cacheService cache.CacheService
	cachePrefix  string
	broadcaster  *changeBroadcaster
	now          func() time.Time
}

// NewBunRepository creates a section repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a section repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewDocumentRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(documentNamespace)
	}
	return &BunRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		broadcaster:  newChangeBroadcaster(),
		now:          time.Now,
	}
}

// WithClock overrides the timestamp source.
func (r *BunRepository) WithClock(now func() time.Time) *BunRepository {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *BunRepository) Get(ctx context.Context, key Key) (*Record, error) {
	normalized, err := key.normalize()
	if err != nil {
		return nil, err
	}
	model, err := r.repo.GetByIdentifier(ctx, normalized.String())
	if err != nil {
		return nil, mapRepositoryError(err, "section", normalized.String())
	}
	record := modelToRecord(model)
	return &record, nil
}

// Upsert stores data under key, bumping the version on every write.
func (r *BunRepository) Upsert(ctx context.Context, key Key, data json.RawMessage) (*Record, error) {
	normalized, err := key.normalize()
	if err != nil {
		return nil, err
	}
	if err := validData(data); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	existing, err := r.repo.GetByIdentifier(ctx, normalized.String())
	if err != nil {
		if mapped := mapRepositoryError(err, "section", normalized.String()); !errors.Is(mapped, ErrSectionNotFound) {
			return nil, mapped
		}
		existing = nil
	}

	var stored *DocumentModel
	eventType := ChangeCreated
	if existing == nil {
		stored, err = r.repo.Create(ctx, &DocumentModel{
			ID:        normalized.ID(),
			Key:       normalized.String(),
			Domain:    normalized.Domain,
			Section:   normalized.Section,
			Locale:    normalized.Locale,
			Data:      string(data),
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		})
	} else {
		eventType = ChangeUpdated
		existing.Data = string(data)
		existing.Version++
		existing.UpdatedAt = now
		stored, err = r.repo.Update(ctx, existing)
	}
	if err != nil {
		return nil, mapRepositoryError(err, "section", normalized.String())
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}

	record := modelToRecord(stored)
	r.broadcaster.Broadcast(ChangeEvent{Type: eventType, Key: record.Key, Version: record.Version})
	return &record, nil
}

func (r *BunRepository) Delete(ctx context.Context, key Key) error {
	normalized, err := key.normalize()
	if err != nil {
		return err
	}
	existing, err := r.repo.GetByIdentifier(ctx, normalized.String())
	if err != nil {
		return mapRepositoryError(err, "section", normalized.String())
	}
	if err := r.repo.Delete(ctx, existing); err != nil {
		return mapRepositoryError(err, "section", normalized.String())
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: normalized, Version: existing.Version})
	return nil
}

// List returns the documents of a domain ordered by section then locale.
func (r *BunRepository) List(ctx context.Context, domain string) ([]Record, error) {
	models, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if domain != "" {
				q = q.Where("?TableAlias.domain = ?", domain)
			}
			return q.OrderExpr("?TableAlias.section ASC, ?TableAlias.locale ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "section", domain)
	}
	out := make([]Record, len(models))
	for i, model := range models {
		out[i] = modelToRecord(model)
	}
	return out, nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
