package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-sections/internal/database"
	"github.com/goliatone/go-cms-sections/internal/sectionstore"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", "file:database_open_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Migrate is idempotent.
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	repo := sectionstore.NewBunRepository(db)
	key := sectionstore.Key{Domain: "site", Section: "hero", Locale: "en"}
	if _, err := repo.Upsert(ctx, key, []byte(`{"title":"Hi"}`)); err != nil {
		t.Fatalf("upsert after migrate: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(context.Background(), "oracle", "dsn")
	if !errors.Is(err, database.ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := database.Open(context.Background(), "sqlite", " "); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
