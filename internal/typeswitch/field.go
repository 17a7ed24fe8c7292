package typeswitch

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const (
	FieldURL  = "url"
	FieldFile = "file"
)

// ErrUnknownKind reports a representation the field does not support.
var ErrUnknownKind = errors.New("typeswitch: unknown representation")

// Field binds one compound media field group: the selected representation,
// its url/file values, and the validation errors currently shown.
type Field struct {
	kind      assets.Kind
	draft     Draft
	existing  *assets.Ref
	errs      map[string]error
	cache     *Cache
	scheduler Scheduler
	queue     *Queue
	queued    bool
}

// FieldOption customises a Field.
type FieldOption func(*Field)

// WithScheduler sets where deferred validation runs.
func WithScheduler(s Scheduler) FieldOption {
	return func(f *Field) {
		if s != nil {
			f.scheduler = s
		}
	}
}

// WithCache shares a draft cache with the field.
func WithCache(c *Cache) FieldOption {
	return func(f *Field) {
		if c != nil {
			f.cache = c
		}
	}
}

// NewField seeds a field from the persisted ref of an entry. A nil ref starts
// an empty image field. Without WithScheduler, deferred validation waits on
// the field's own queue until Tick.
func NewField(existing *assets.Ref, opts ...FieldOption) *Field {
	f := &Field{
		kind:     assets.KindImage,
		existing: existing.Clone(),
		errs:     map[string]error{},
		cache:    NewCache(),
	}
	if !existing.IsZero() {
		f.kind = existing.Kind()
		f.draft = Draft{URL: existing.URL}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.scheduler == nil {
		f.queue = NewQueue()
		f.scheduler = f.queue
	}
	return f
}

// Tick runs the validation deferred on the field's own queue and reports how
// many calls ran. Fields built with WithScheduler are drained by that
// scheduler instead, so Tick returns 0 for them.
func (f *Field) Tick() int {
	if f.queue == nil {
		return 0
	}
	return f.queue.Flush()
}

// Kind returns the selected representation.
func (f *Field) Kind() assets.Kind { return f.kind }

// Draft returns the values held for the selected representation.
func (f *Field) Draft() Draft { return f.draft.clone() }

// Existing returns the ref the field was seeded with.
func (f *Field) Existing() *assets.Ref { return f.existing.Clone() }

// SetURL replaces the url value.
func (f *Field) SetURL(url string) {
	f.draft.URL = strings.TrimSpace(url)
}

// SetFile replaces the file value. A nil file clears it.
func (f *Field) SetFile(file *interfaces.File) {
	if file == nil {
		f.draft.File = nil
		return
	}
	copied := *file
	f.draft.File = &copied
}

// Switch changes the representation. The current values are cached under the
// old kind, the cached values for the new kind (or empty ones) are restored,
// url/file errors are cleared, and revalidation is deferred to the scheduler.
func (f *Field) Switch(to assets.Kind) error {
	kind, ok := assets.ParseKind(string(to))
	if !ok {
		return ErrUnknownKind
	}
	if kind == f.kind {
		return nil
	}
	f.draft = f.cache.Switch(f.kind, kind, f.draft)
	f.kind = kind
	delete(f.errs, FieldURL)
	delete(f.errs, FieldFile)
	f.deferValidate()
	return nil
}

func (f *Field) deferValidate() {
	if f.queued {
		return
	}
	f.queued = true
	f.scheduler.Defer(func() {
		f.queued = false
		f.Validate()
	})
}

// Errors returns the validation errors currently shown, keyed by field name.
func (f *Field) Errors() map[string]error {
	out := make(map[string]error, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Validate checks the current values against the rules of the selected
// representation and records the result.
func (f *Field) Validate() error {
	errs := validation.Errors{
		FieldURL:  validation.Validate(f.draft.URL, f.urlRules()...),
		FieldFile: validation.Validate(f.draft.File, f.fileRules()...),
	}
	f.errs = map[string]error{}
	for key, err := range errs {
		if err != nil {
			f.errs[key] = err
		}
	}
	return errs.Filter()
}

func (f *Field) urlRules() []validation.Rule {
	switch f.kind {
	case assets.KindLink:
		return []validation.Rule{
			validation.Required.ErrorObject(validation.NewError("typeswitch.url_required", "a link url is required")),
			is.URL,
		}
	default:
		return []validation.Rule{
			validation.When(f.draft.File == nil,
				validation.Required.ErrorObject(validation.NewError("typeswitch."+string(f.kind)+"_required", "select a "+string(f.kind)+" file")),
			),
		}
	}
}

func (f *Field) fileRules() []validation.Rule {
	if f.kind == assets.KindLink {
		return nil
	}
	prefix := string(f.kind) + "/"
	return []validation.Rule{
		validation.By(func(value any) error {
			file, _ := value.(*interfaces.File)
			if file == nil {
				return nil
			}
			if !strings.HasPrefix(strings.ToLower(file.ContentType), prefix) {
				return validation.NewError("typeswitch.file_type", "file must be of type "+prefix+"*")
			}
			return nil
		}),
	}
}

// Input converts the field state into the edit intent the reconciler consumes.
func (f *Field) Input() assets.Input {
	if f.kind == assets.KindLink {
		if f.draft.URL == "" {
			return f.clearOrKeep()
		}
		return assets.Link(f.draft.URL)
	}
	if f.draft.File != nil {
		return assets.Upload(*f.draft.File).WithType(f.kind)
	}
	if f.existing.IsZero() {
		return assets.Keep()
	}
	if f.existing.Kind() != f.kind {
		return assets.Retype(f.kind)
	}
	if f.draft.URL == "" {
		return assets.Clear()
	}
	return assets.Keep()
}

func (f *Field) clearOrKeep() assets.Input {
	if f.existing.IsZero() {
		return assets.Keep()
	}
	return assets.Clear()
}

// Reset restores the seeded state and drops cached drafts.
func (f *Field) Reset() {
	f.cache.Reset()
	f.errs = map[string]error{}
	f.draft = Draft{}
	f.kind = assets.KindImage
	if !f.existing.IsZero() {
		f.kind = f.existing.Kind()
		f.draft = Draft{URL: f.existing.URL}
	}
}
