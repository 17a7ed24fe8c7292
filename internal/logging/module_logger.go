package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const (
	rootModule   = "sections"
	syncModule   = "sections.sync"
	assetsModule = "sections.assets"
	httpModule   = "sections.http"
	storeModule  = "sections.store"
)

const (
	fieldSection = "section"
	fieldLocale  = "locale"
	fieldDomain  = "domain"
	fieldModule  = "module"
)

// ModuleLogger returns the provider's logger for module with a module field
// attached. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		logger = NoOp()
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

// SyncLogger returns the logger namespace reserved for section synchronizers.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// AssetsLogger returns the logger namespace reserved for asset stores.
func AssetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assetsModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// StoreLogger returns the logger namespace reserved for section persistence.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// WithSectionContext attaches the non-empty section coordinates to logger.
func WithSectionContext(logger interfaces.Logger, domain, section, locale string) interfaces.Logger {
	return WithFields(logger, sectionFields(domain, section, locale))
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
