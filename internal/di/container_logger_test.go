package di_test

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-cms-sections/internal/di"
	"github.com/goliatone/go-cms-sections/internal/logging/zaplogger"
	"github.com/goliatone/go-cms-sections/internal/runtimeconfig"
)

// observedProvider returns a zap-backed provider whose entries are kept in
// memory.
func observedProvider() (*zaplogger.Provider, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zaplogger.NewProviderFromCore(core), logs
}

// waitForEntry polls logs until msg shows up or the timeout passes.
func waitForEntry(logs *observer.ObservedLogs, msg string, timeout time.Duration) (map[string]any, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if entries := logs.FilterMessage(msg).All(); len(entries) > 0 {
			return entries[0].ContextMap(), true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestContainerLogsConfigurationThroughProvider(t *testing.T) {
	provider, logs := observedProvider()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Locales = []string{"en", "ar"}
	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(provider)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	fields, ok := waitForEntry(logs, "sections.container.configured", 0)
	if !ok {
		t.Fatalf("expected sections.container.configured entry, got %d entries", logs.Len())
	}
	want := map[string]any{
		"storage": "memory",
		"module":  "sections.server",
		"auth":    false,
		"cache":   false,
		"domain":  cfg.Domain,
	}
	for key, value := range want {
		if fields[key] != value {
			t.Fatalf("field %s: expected %v, got %v", key, value, fields[key])
		}
	}
}
