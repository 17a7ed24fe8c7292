package di

import (
	"testing"

	"github.com/goliatone/go-cms-sections/internal/logging/gologger"
	"github.com/goliatone/go-cms-sections/internal/logging/zaplogger"
	"github.com/goliatone/go-cms-sections/internal/runtimeconfig"
)

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}

	logger := provider.GetLogger("sections.test")
	if logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderUsesZapAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "zap"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, ok := container.loggerProvider.(*zaplogger.Provider); !ok {
		t.Fatalf("expected zap provider, got %T", container.loggerProvider)
	}
	if len(container.closers) != 1 {
		t.Fatalf("expected zap provider to register a closer, got %d", len(container.closers))
	}
}

func TestConfigureLoggerProviderDefaultsToConsole(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	logger := container.loggerProvider.GetLogger("sections.test")
	if logger == nil {
		t.Fatal("expected console logger")
	}
	if _, ok := container.loggerProvider.(*gologger.Provider); ok {
		t.Fatal("expected console provider, got go-logger")
	}
}
