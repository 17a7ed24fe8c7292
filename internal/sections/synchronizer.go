package sections

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/reconcile"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// LoadState tracks the fetch lifecycle of one (section, locale).
type LoadState string

const (
	LoadIdle     LoadState = "idle"
	LoadLoading  LoadState = "loading"
	LoadLoaded   LoadState = "loaded"
	LoadNotFound LoadState = "not-found"
	LoadErrored  LoadState = "errored"
)

// SaveState tracks the save lifecycle of one (section, locale).
type SaveState string

const (
	SaveIdle    SaveState = "idle"
	SaveSaving  SaveState = "saving"
	SaveSaved   SaveState = "saved"
	SaveErrored SaveState = "errored"
)

// Result describes a completed save.
type Result[T any] struct {
	Payload  T
	Uploaded []interfaces.StoredObject
	Deleted  []string
}

// Option customises a Synchronizer.
type Option func(*options)

type options struct {
	store  interfaces.AssetStore
	logger interfaces.Logger
	now    func() time.Time
}

// WithAssetStore sets the store used for uploads and deletes.
func WithAssetStore(store interfaces.AssetStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp uploads.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Synchronizer keeps one section in one locale in step with the transport.
// It holds the baseline (the last fetched or persisted payload) and diffs
// every save against it.
type Synchronizer[T any] struct {
	def       Definition[T]
	locale    string
	transport interfaces.SectionTransport
	store     interfaces.AssetStore
	logger    interfaces.Logger
	now       func() time.Time

	mu        sync.Mutex
	loadState LoadState
	saveState SaveState
	known     bool
	baseline  json.RawMessage
	lastErr   error
}

// New builds a synchronizer for def in locale.
func New[T any](def Definition[T], locale string, transport interfaces.SectionTransport, opts ...Option) (*Synchronizer[T], error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrTransportRequired
	}
	cfg := options{logger: logging.NoOp(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Synchronizer[T]{
		def:       def,
		locale:    strings.TrimSpace(locale),
		transport: transport,
		store:     cfg.store,
		logger:    logging.WithSectionContext(cfg.logger, "", def.Section, locale),
		now:       cfg.now,
		loadState: LoadIdle,
		saveState: SaveIdle,
	}, nil
}

// Section returns the section name.
func (s *Synchronizer[T]) Section() string { return s.def.Section }

// Locale returns the locale the synchronizer is bound to.
func (s *Synchronizer[T]) Locale() string { return s.locale }

// LoadState reports the fetch state.
func (s *Synchronizer[T]) LoadState() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadState
}

// SaveState reports the save state.
func (s *Synchronizer[T]) SaveState() SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveState
}

// Err returns the error of the last failed load or save.
func (s *Synchronizer[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Baseline returns a copy of the baseline. It is nil when the section has no
// persisted state yet or has not been loaded.
func (s *Synchronizer[T]) Baseline() (*T, error) {
	s.mu.Lock()
	raw := s.baseline
	s.mu.Unlock()
	return decode[T](raw)
}

// Load fetches the section. A section with no persisted state is not an
// error: Load returns (nil, nil) and LoadState becomes LoadNotFound.
func (s *Synchronizer[T]) Load(ctx context.Context) (*T, error) {
	s.mu.Lock()
	if s.saveState == SaveSaving {
		s.mu.Unlock()
		return nil, ErrLoadDuringSave
	}
	s.loadState = LoadLoading
	s.mu.Unlock()

	res, err := s.transport.Fetch(ctx, s.def.Section, s.locale)
	if err != nil {
		err = &TransportError{Op: "fetch", Section: s.def.Section, Locale: s.locale, Err: err}
		s.finishLoad(LoadErrored, nil, err)
		logging.WithError(s.logger, err).Error("sections.load.failed")
		return nil, err
	}
	if !res.Found {
		s.finishLoad(LoadNotFound, nil, nil)
		s.logger.Info("sections.load.not_found")
		return nil, nil
	}

	payload, err := decode[T](res.Data)
	if err == nil && payload == nil {
		err = errors.New("empty payload")
	}
	if err != nil {
		err = &TransportError{Op: "decode", Section: s.def.Section, Locale: s.locale, Err: err}
		s.finishLoad(LoadErrored, nil, err)
		logging.WithError(s.logger, err).Error("sections.load.failed")
		return nil, err
	}
	s.finishLoad(LoadLoaded, res.Data, nil)
	s.logger.Debug("sections.load.loaded")
	return payload, nil
}

func (s *Synchronizer[T]) finishLoad(state LoadState, raw json.RawMessage, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadState = state
	s.lastErr = err
	switch state {
	case LoadLoaded:
		s.baseline = append(json.RawMessage(nil), raw...)
		s.known = true
	case LoadNotFound:
		s.baseline = nil
		s.known = true
	}
}

// Preview reconciles next against the baseline without touching the store.
func (s *Synchronizer[T]) Preview(next T) (reconcile.Stats, error) {
	s.mu.Lock()
	raw, known := s.baseline, s.known
	s.mu.Unlock()
	if !known {
		return reconcile.Stats{}, ErrNotLoaded
	}
	prev, err := decode[T](raw)
	if err != nil {
		return reconcile.Stats{}, err
	}
	plans, err := s.plan(prev, next)
	if err != nil {
		return reconcile.Stats{}, err
	}
	return reconcile.Summarize(plans...), nil
}

// Save reconciles next against the baseline, uploads new assets in
// collection order, persists the resolved payload, adopts the response as the
// new baseline and finally deletes the assets no longer referenced.
//
// A failure before the patch leaves the baseline untouched; uploads that
// already completed are reported through Orphans(err). A delete failure after
// the patch returns the saved result together with ErrCleanupIncomplete.
//
// ctx is honoured until the first store call. From then on the pipeline runs
// to completion or failure.
func (s *Synchronizer[T]) Save(ctx context.Context, next T) (*Result[T], error) {
	s.mu.Lock()
	if s.saveState == SaveSaving {
		s.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	if !s.known || s.loadState == LoadLoading {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	raw := s.baseline
	s.saveState = SaveSaving
	s.mu.Unlock()

	result, err := s.save(ctx, raw, next)
	if err != nil && !errors.Is(err, ErrCleanupIncomplete) {
		s.finishSave(SaveErrored, err)
		logging.WithFields(logging.WithError(s.logger, err), map[string]any{
			"orphans": Orphans(err),
		}).Error("sections.save.failed")
		return nil, err
	}
	s.finishSave(SaveSaved, err)
	if err != nil {
		logging.WithFields(logging.WithError(s.logger, err), map[string]any{
			"orphans": Orphans(err),
		}).Warn("sections.save.cleanup_incomplete")
	}
	s.logger.Info("sections.save.completed",
		"uploads", len(result.Uploaded),
		"deletes", len(result.Deleted),
	)
	return result, err
}

func (s *Synchronizer[T]) finishSave(state SaveState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveState = state
	s.lastErr = err
}

func (s *Synchronizer[T]) save(ctx context.Context, raw json.RawMessage, next T) (*Result[T], error) {
	prev, err := decode[T](raw)
	if err != nil {
		return nil, err
	}
	plans, err := s.plan(prev, next)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	work := context.WithoutCancel(ctx)

	report, err := reconcile.Execute(work, s.store, s.now, plans...)
	for _, obj := range report.Uploaded {
		s.logger.Debug("sections.save.upload", "path", obj.Path)
	}
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolve(next, plans)
	if err != nil {
		return nil, withOrphans(err, report.Uploaded)
	}

	data, err := s.transport.Patch(work, s.def.Section, s.locale, resolved)
	if err != nil {
		return nil, &TransportError{
			Op:      "patch",
			Section: s.def.Section,
			Locale:  s.locale,
			Orphans: uploadedPaths(report.Uploaded),
			Err:     err,
		}
	}

	baseline := data
	if isNull(baseline) {
		if baseline, err = json.Marshal(resolved); err != nil {
			return nil, withOrphans(err, report.Uploaded)
		}
	}
	payload, err := decode[T](baseline)
	if err != nil || payload == nil {
		if err == nil {
			err = errors.New("empty payload")
		}
		return nil, &TransportError{
			Op:      "decode",
			Section: s.def.Section,
			Locale:  s.locale,
			Orphans: uploadedPaths(report.Uploaded),
			Err:     err,
		}
	}

	s.mu.Lock()
	s.baseline = append(json.RawMessage(nil), baseline...)
	s.known = true
	s.loadState = LoadLoaded
	s.mu.Unlock()

	result := &Result[T]{Payload: *payload, Uploaded: report.Uploaded}
	deleted, err := reconcile.ExecuteDeletes(work, s.store, plans...)
	result.Deleted = deleted
	for _, path := range deleted {
		s.logger.Debug("sections.save.delete", "path", path)
	}
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrCleanupIncomplete, err)
	}
	return result, nil
}

func (s *Synchronizer[T]) plan(prev *T, next T) ([]*reconcile.Plan, error) {
	plans := make([]*reconcile.Plan, 0, len(s.def.Collections))
	for _, c := range s.def.Collections {
		var before []reconcile.Entry
		if prev != nil {
			before = c.Entries(*prev)
		}
		plan, err := reconcile.Reconcile(c.Name, c.Strategy, before, c.Entries(next), c.Folder)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// resolve builds the payload to persist: a copy of next whose asset slots
// carry the resolved refs.
func (s *Synchronizer[T]) resolve(next T, plans []*reconcile.Plan) (T, error) {
	var zero T
	raw, err := json.Marshal(next)
	if err != nil {
		return zero, fmt.Errorf("sections: encode payload: %w", err)
	}
	copied, err := decode[T](raw)
	if err != nil {
		return zero, err
	}
	if copied == nil {
		copied = new(T)
	}
	for i, c := range s.def.Collections {
		if err := c.Assign(copied, plans[i].Refs()); err != nil {
			return zero, err
		}
	}
	return *copied, nil
}

func decode[T any](raw json.RawMessage) (*T, error) {
	if isNull(raw) {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("sections: decode payload: %w", err)
	}
	return &out, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func withOrphans(err error, uploaded []interfaces.StoredObject) error {
	if len(uploaded) == 0 {
		return err
	}
	return &AssetStoreError{Op: "resolve", Orphans: uploadedPaths(uploaded), Err: err}
}

func uploadedPaths(objs []interfaces.StoredObject) []string {
	out := make([]string, 0, len(objs))
	for _, obj := range objs {
		out = append(out, obj.Path)
	}
	return out
}
