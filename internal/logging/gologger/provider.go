package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const modulePrefix = "sections."

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Config selects the go-logger output. Focus limits output to the named
// modules; short names such as "sync" expand to "sections.sync".
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Provider hands out one go-logger child per module and reuses it across
// GetLogger calls.
type Provider struct {
	root *glog.BaseLogger

	mu      sync.Mutex
	modules map[string]glog.Logger
}

// NewProvider builds a go-logger root from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option

	if raw := strings.ToLower(strings.TrimSpace(cfg.Level)); raw != "" {
		level, ok := levels[raw]
		if !ok {
			return nil, fmt.Errorf("logging: unsupported go-logger level %q", cfg.Level)
		}
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := FocusModules(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{root: root, modules: make(map[string]glog.Logger)}, nil
}

// FocusModules trims, expands and dedupes module names for Config.Focus.
func FocusModules(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name != "sections" && !strings.HasPrefix(name, modulePrefix) {
			name = modulePrefix + name
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// GetLogger returns the logger for module name. An empty name is the root.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &adapter{inner: p.root}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	inner, ok := p.modules[name]
	if !ok {
		inner = p.root.GetLogger(name)
		p.modules[name] = inner
	}
	return &adapter{inner: inner}
}

// adapter exposes a go-logger Logger as interfaces.Logger. Loggers that cannot
// carry fields get them appended to every call instead.
type adapter struct {
	inner   glog.Logger
	carried []any
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) args(args []any) []any {
	if len(l.carried) == 0 {
		return args
	}
	return append(slices.Clone(l.carried), args...)
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.args(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.args(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.args(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.args(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.args(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.args(args)...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return &adapter{inner: with.WithFields(maps.Clone(fields)), carried: l.carried}
	}

	keys := slices.Sorted(maps.Keys(fields))
	carried := slices.Clone(l.carried)
	for _, key := range keys {
		carried = append(carried, key, fields[key])
	}
	return &adapter{inner: l.inner, carried: carried}
}

// WithContext forwards ctx to go-logger and lifts the fields stored with
// logging.ContextWithFields (section, locale, request id) onto the logger.
func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	next := &adapter{inner: l.inner.WithContext(ctx), carried: l.carried}
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return next.WithFields(fields)
	}
	return next
}
