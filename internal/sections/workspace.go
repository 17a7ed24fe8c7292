package sections

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// Workspace keeps one synchronizer per locale for a section, so each locale
// holds its own baseline.
type Workspace[T any] struct {
	def       Definition[T]
	transport interfaces.SectionTransport
	opts      []Option

	mu      sync.Mutex
	syncers map[string]*Synchronizer[T]
}

// NewWorkspace validates def and transport up front.
func NewWorkspace[T any](def Definition[T], transport interfaces.SectionTransport, opts ...Option) (*Workspace[T], error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrTransportRequired
	}
	return &Workspace[T]{
		def:       def,
		transport: transport,
		opts:      opts,
		syncers:   make(map[string]*Synchronizer[T]),
	}, nil
}

func (w *Workspace[T]) Section() string { return w.def.Section }

// Locale returns the synchronizer for locale, creating it on first use.
func (w *Workspace[T]) Locale(locale string) (*Synchronizer[T], error) {
	key := strings.ToLower(strings.TrimSpace(locale))
	if key == "" {
		return nil, ErrLocaleRequired
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if syncer, ok := w.syncers[key]; ok {
		return syncer, nil
	}
	syncer, err := New(w.def, key, w.transport, w.opts...)
	if err != nil {
		return nil, err
	}
	w.syncers[key] = syncer
	return syncer, nil
}

// Locales lists the locales opened so far.
func (w *Workspace[T]) Locales() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.syncers))
	for key := range w.syncers {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
