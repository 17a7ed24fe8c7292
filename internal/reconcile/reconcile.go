package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/google/uuid"
)

// ErrDuplicateEntryID reports two entries sharing an identity in a set-based collection.
var ErrDuplicateEntryID = errors.New("reconcile: duplicate entry id")

// Strategy selects how previous and next entries are paired.
type Strategy uint8

const (
	// Positional pairs entries by index. Each index has a fixed meaning: an
	// untouched entry at index i keeps the stored asset of index i, whatever
	// ref the payload carries. Lists the editor can reorder must use SetBased,
	// or their assets snap back to the old indices.
	Positional Strategy = iota
	// SetBased pairs entries by ID so reordering never misattributes assets.
	SetBased
)

func (s Strategy) String() string {
	switch s {
	case Positional:
		return "positional"
	case SetBased:
		return "set"
	default:
		return "unknown"
	}
}

// Entry is the reconciler's view of one collection element.
type Entry struct {
	// ID is the opaque client-assigned identity. Only SetBased reads it.
	ID string
	// Asset is the ref the entry currently carries (the passthrough value).
	Asset *assets.Ref
	// Input is the edit applied to the slot. The zero value keeps it.
	Input assets.Input
}

// NewEntryID returns a fresh client identity for a new entry.
func NewEntryID() string {
	return uuid.NewString()
}

// Slot is the lifecycle plan for the entry at Index in the next collection.
type Slot struct {
	Index   int
	EntryID string
	Plan    assets.Plan
}

// Plan is the reconciliation of one collection.
type Plan struct {
	Name     string
	Strategy Strategy
	Folder   string
	Slots    []Slot

	previous []*assets.Ref
	tail     []assets.DeleteOp
}

// Reconcile pairs prev and next with the given strategy and resolves every
// slot. It performs no I/O; run Execute and ExecuteDeletes to apply the plan.
func Reconcile(name string, strategy Strategy, prev, next []Entry, folder string) (*Plan, error) {
	plan := &Plan{
		Name:     name,
		Strategy: strategy,
		Folder:   folder,
		Slots:    make([]Slot, 0, len(next)),
		previous: make([]*assets.Ref, 0, len(prev)),
	}
	for _, entry := range prev {
		plan.previous = append(plan.previous, entry.Asset.Clone())
	}

	var err error
	switch strategy {
	case Positional:
		err = plan.positional(prev, next)
	case SetBased:
		err = plan.setBased(prev, next)
	default:
		err = fmt.Errorf("reconcile: unknown strategy %d", strategy)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Plan) positional(prev, next []Entry) error {
	for i, entry := range next {
		var (
			slot assets.Plan
			err  error
		)
		switch {
		case i < len(prev):
			slot, err = assets.Resolve(prev[i].Asset, entry.Input, p.Folder)
		case entry.Input.Action == assets.ActionKeep && entry.Input.Type == "":
			slot = assets.Plan{Ref: entry.Asset.Clone()}
		default:
			slot, err = assets.Resolve(nil, entry.Input, p.Folder)
		}
		if err != nil {
			return fmt.Errorf("reconcile %s[%d]: %w", p.Name, i, err)
		}
		p.Slots = append(p.Slots, Slot{Index: i, EntryID: entry.ID, Plan: slot})
	}
	for i := len(next); i < len(prev); i++ {
		if prev[i].Asset.IsStored() {
			p.tail = append(p.tail, assets.DeleteOp{Path: strings.TrimSpace(prev[i].Asset.Path)})
		}
	}
	return nil
}

func (p *Plan) setBased(prev, next []Entry) error {
	byID := make(map[string]*assets.Ref, len(prev))
	for _, entry := range prev {
		if id := strings.TrimSpace(entry.ID); id != "" {
			byID[id] = entry.Asset
		}
	}

	seen := make(map[string]struct{}, len(next))
	for i, entry := range next {
		id := strings.TrimSpace(entry.ID)
		if id != "" {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateEntryID, id)
			}
			seen[id] = struct{}{}
		}

		existing := entry.Asset
		if existing == nil && id != "" {
			existing = byID[id]
		}

		var (
			slot assets.Plan
			err  error
		)
		if entry.Input.Action == assets.ActionKeep && entry.Input.Type == "" {
			slot = assets.Plan{Previous: existing.Clone(), Ref: existing.Clone()}
		} else {
			slot, err = assets.Resolve(existing, entry.Input, p.Folder)
			if err != nil {
				return fmt.Errorf("reconcile %s[%s]: %w", p.Name, id, err)
			}
		}
		// The orphan sweep owns every delete in a set-based collection.
		slot.Delete = nil
		p.Slots = append(p.Slots, Slot{Index: i, EntryID: id, Plan: slot})
	}
	return nil
}

// Uploads lists the uploads still pending, in collection order.
func (p *Plan) Uploads() []*assets.UploadOp {
	var out []*assets.UploadOp
	for i := range p.Slots {
		if up := p.Slots[i].Plan.Upload; up != nil {
			out = append(out, up)
		}
	}
	return out
}

// Settled reports whether every upload has been committed.
func (p *Plan) Settled() bool {
	for i := range p.Slots {
		if p.Slots[i].Plan.Pending() {
			return false
		}
	}
	return true
}

// Refs returns the resolved ref for every next entry, in order. Slots that
// were cleared, or that still wait on an upload, yield nil.
func (p *Plan) Refs() []*assets.Ref {
	out := make([]*assets.Ref, len(p.Slots))
	for i := range p.Slots {
		out[i] = p.Slots[i].Plan.Ref.Clone()
	}
	return out
}

// Deletes lists the stored objects this plan retires, given its current state.
func (p *Plan) Deletes() []assets.DeleteOp {
	return Deletes(p)
}

func (p *Plan) live(into map[string]struct{}) {
	for i := range p.Slots {
		if ref := p.Slots[i].Plan.Ref; ref.IsStored() {
			into[strings.TrimSpace(ref.Path)] = struct{}{}
		}
	}
}

func (p *Plan) candidates() []assets.DeleteOp {
	if p.Strategy == SetBased {
		out := make([]assets.DeleteOp, 0, len(p.previous))
		for _, ref := range p.previous {
			if ref.IsStored() {
				out = append(out, assets.DeleteOp{Path: strings.TrimSpace(ref.Path)})
			}
		}
		return out
	}
	out := make([]assets.DeleteOp, 0, len(p.tail)+len(p.Slots))
	for i := range p.Slots {
		if del := p.Slots[i].Plan.Delete; del != nil {
			out = append(out, *del)
		}
	}
	return append(out, p.tail...)
}

// Deletes computes the deletes for several plans at once. A path that is
// still live in any plan is never deleted, and each path is listed once.
func Deletes(plans ...*Plan) []assets.DeleteOp {
	live := make(map[string]struct{})
	for _, plan := range plans {
		if plan != nil {
			plan.live(live)
		}
	}
	seen := make(map[string]struct{})
	var out []assets.DeleteOp
	for _, plan := range plans {
		if plan == nil {
			continue
		}
		for _, del := range plan.candidates() {
			if _, ok := live[del.Path]; ok {
				continue
			}
			if _, ok := seen[del.Path]; ok {
				continue
			}
			seen[del.Path] = struct{}{}
			out = append(out, del)
		}
	}
	return out
}
