package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-sections/internal/identity"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// BlobModel is the section_blobs row.
type BlobModel struct {
	bun.BaseModel `bun:"table:section_blobs,alias:sb"`

	ID          uuid.UUID `bun:",pk,type:uuid"`
	Path        string    `bun:"path,notnull,unique"`
	ContentType string    `bun:"content_type,notnull"`
	Size        int64     `bun:"size,notnull"`
	Data        []byte    `bun:"data"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// BunStore persists blobs in a database table.
type BunStore struct {
	settings
	db *bun.DB
}

// NewBunStore creates a store backed by db.
func NewBunStore(db *bun.DB, opts ...Option) *BunStore {
	return &BunStore{settings: newSettings(opts), db: db}
}

func (s *BunStore) Upload(ctx context.Context, file interfaces.File, folder string) (interfaces.StoredObject, error) {
	if s.db == nil {
		return interfaces.StoredObject{}, errors.New("blobstore: bun store requires a database")
	}
	blob, err := s.prepare(file, folder)
	if err != nil {
		return interfaces.StoredObject{}, err
	}
	model := &BlobModel{
		ID:          identity.BlobUUID(blob.Path),
		Path:        blob.Path,
		ContentType: blob.ContentType,
		Size:        blob.Size,
		Data:        blob.Data,
		CreatedAt:   blob.UploadedAt,
	}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return interfaces.StoredObject{}, err
	}
	return s.stored(blob), nil
}

func (s *BunStore) Delete(ctx context.Context, path string) error {
	if s.db == nil {
		return errors.New("blobstore: bun store requires a database")
	}
	cleaned, err := CleanPath(path)
	if err != nil {
		return err
	}
	res, err := s.db.NewDelete().Model((*BlobModel)(nil)).Where("path = ?", cleaned).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrBlobNotFound
	}
	return nil
}

func (s *BunStore) Get(ctx context.Context, path string) (*Blob, error) {
	if s.db == nil {
		return nil, errors.New("blobstore: bun store requires a database")
	}
	cleaned, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	var model BlobModel
	if err := s.db.NewSelect().Model(&model).Where("path = ?", cleaned).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return &Blob{
		Path:        model.Path,
		ContentType: model.ContentType,
		Size:        model.Size,
		Data:        model.Data,
		UploadedAt:  model.CreatedAt,
	}, nil
}

var (
	_ Store = (*BunStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
