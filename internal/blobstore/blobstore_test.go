package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

func TestStores_UploadGetDelete(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts := []Option{
		WithPublicBaseURL("https://cdn.example.com/media/"),
		WithClock(func() time.Time { return fixed }),
	}
	for name, store := range map[string]Store{
		"memory": NewMemoryStore(opts...),
		"bun":    NewBunStore(newTestDB(t), opts...),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			obj, err := store.Upload(ctx, interfaces.File{
				Name:        "Hero Image.PNG",
				ContentType: "image/png",
				Data:        []byte("png-bytes"),
			}, "home/hero")
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			if !strings.HasPrefix(obj.Path, "home/hero/") || !strings.HasSuffix(obj.Path, ".png") {
				t.Fatalf("unexpected path %q", obj.Path)
			}
			if obj.URL != "https://cdn.example.com/media/"+obj.Path {
				t.Fatalf("unexpected url %q", obj.URL)
			}
			if !obj.UploadedAt.Equal(fixed) {
				t.Fatalf("unexpected upload time %s", obj.UploadedAt)
			}

			blob, err := store.Get(ctx, obj.Path)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(blob.Data) != "png-bytes" || blob.ContentType != "image/png" || blob.Size != 9 {
				t.Fatalf("unexpected blob %+v", blob)
			}

			if err := store.Delete(ctx, obj.Path); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, obj.Path); !errors.Is(err, ErrBlobNotFound) {
				t.Fatalf("expected ErrBlobNotFound, got %v", err)
			}
			if err := store.Delete(ctx, obj.Path); !errors.Is(err, ErrBlobNotFound) {
				t.Fatalf("expected ErrBlobNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestUploadRejectsEmptyAndOversized(t *testing.T) {
	store := NewMemoryStore(WithMaxBytes(4))
	ctx := context.Background()
	if _, err := store.Upload(ctx, interfaces.File{Name: "a.png"}, "x"); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if _, err := store.Upload(ctx, interfaces.File{Name: "a.png", Data: []byte("12345")}, "x"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing stored, got %d", store.Len())
	}
}

func TestUploadDetectsContentType(t *testing.T) {
	store := NewMemoryStore()
	obj, err := store.Upload(context.Background(), interfaces.File{Name: "note", Data: []byte("plain text")}, "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	blob, _ := store.Get(context.Background(), obj.Path)
	if !strings.HasPrefix(blob.ContentType, "text/plain") {
		t.Fatalf("expected detected text/plain, got %q", blob.ContentType)
	}
	if strings.Contains(obj.Path, "/") {
		t.Fatalf("expected root-level key, got %q", obj.Path)
	}
	if obj.URL != "/media/"+obj.Path {
		t.Fatalf("expected default public base, got %q", obj.URL)
	}
}

func TestNewKeyIsUnique(t *testing.T) {
	first := NewKey("cards", "a.png")
	second := NewKey("cards", "a.png")
	if first == second {
		t.Fatalf("expected distinct keys, got %q twice", first)
	}
	if got := NewKey("../../etc", "passwd"); strings.Contains(got, "..") {
		t.Fatalf("expected traversal segments dropped, got %q", got)
	}
}

func TestCleanPath(t *testing.T) {
	valid := map[string]string{
		"/home/a.png": "home/a.png",
		"home/a.png":  "home/a.png",
	}
	for in, want := range valid {
		got, err := CleanPath(in)
		if err != nil || got != want {
			t.Fatalf("CleanPath(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "../a", "a/../../b", "a//b"} {
		if _, err := CleanPath(in); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("CleanPath(%q) expected ErrInvalidPath, got %v", in, err)
		}
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file:blobstore_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqldb.Close()
	})
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	if _, err := db.NewCreateTable().Model((*BlobModel)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}
