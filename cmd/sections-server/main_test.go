package main

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-sections/internal/auth"
	"github.com/goliatone/go-cms-sections/internal/runtimeconfig"
)

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "oracle"
	if err := run(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestRunFailsOnCancelledContext(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = "file:server_run_test?mode=memory&cache=shared"
	cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, cfg); err == nil {
		t.Fatal("expected ping to fail on a cancelled context")
	}
}

func TestIssueTokenRequiresSubjectAndSecret(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := issueToken(cfg, "", ""); err == nil {
		t.Fatal("expected usage error without subject")
	}
	if err := issueToken(cfg, "editor-1", ""); !errors.Is(err, auth.ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}
