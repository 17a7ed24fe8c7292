package sections

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/internal/reconcile"
)

// Collection declares one asset-bearing collection of a payload type.
type Collection[T any] struct {
	Name     string
	Strategy reconcile.Strategy
	// Folder is the AssetStore folder new uploads land in.
	Folder string
	// Entries lists the collection's slots in order.
	Entries func(payload T) []reconcile.Entry
	// Assign writes the resolved refs back, one per entry, and resets inputs.
	Assign func(payload *T, refs []*assets.Ref) error
}

// Definition describes one section: its name and the asset collections the
// synchronizer reconciles on save.
type Definition[T any] struct {
	Section     string
	Collections []Collection[T]
}

func (d Definition[T]) validate() error {
	if strings.TrimSpace(d.Section) == "" {
		return ErrSectionRequired
	}
	seen := make(map[string]struct{}, len(d.Collections))
	for _, c := range d.Collections {
		if c.Entries == nil || c.Assign == nil {
			return fmt.Errorf("sections: collection %q needs Entries and Assign", c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("sections: duplicate collection %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// List builds a Collection over a slice of E inside T. slot addresses the
// asset slot of one element; id returns the element's identity and may be nil
// for positional collections. Drag-sortable lists need SetBased with an id:
// under Positional an unchanged element keeps whatever asset was stored at its
// index before the move.
func List[T, E any](name string, strategy reconcile.Strategy, folder string, items func(*T) *[]E, slot func(*E) *Slot, id func(*E) string) Collection[T] {
	return Collection[T]{
		Name:     name,
		Strategy: strategy,
		Folder:   folder,
		Entries: func(payload T) []reconcile.Entry {
			list := items(&payload)
			if list == nil {
				return nil
			}
			out := make([]reconcile.Entry, len(*list))
			for i := range *list {
				el := &(*list)[i]
				s := slot(el)
				out[i] = reconcile.Entry{Asset: s.Ref, Input: s.Input}
				if id != nil {
					out[i].ID = id(el)
				}
			}
			return out
		},
		Assign: func(payload *T, refs []*assets.Ref) error {
			list := items(payload)
			if list == nil {
				if len(refs) == 0 {
					return nil
				}
				return fmt.Errorf("%w: %s has no elements for %d refs", ErrSlotCountMismatch, name, len(refs))
			}
			if len(*list) != len(refs) {
				return fmt.Errorf("%w: %s has %d elements, got %d refs", ErrSlotCountMismatch, name, len(*list), len(refs))
			}
			for i := range *list {
				s := slot(&(*list)[i])
				s.Ref = refs[i]
				s.Input = assets.Keep()
			}
			return nil
		},
	}
}

// Single builds a one-slot positional Collection for a field such as a hero image.
func Single[T any](name, folder string, slot func(*T) *Slot) Collection[T] {
	return Collection[T]{
		Name:     name,
		Strategy: reconcile.Positional,
		Folder:   folder,
		Entries: func(payload T) []reconcile.Entry {
			s := slot(&payload)
			return []reconcile.Entry{{Asset: s.Ref, Input: s.Input}}
		},
		Assign: func(payload *T, refs []*assets.Ref) error {
			if len(refs) != 1 {
				return fmt.Errorf("%w: %s expects one ref, got %d", ErrSlotCountMismatch, name, len(refs))
			}
			s := slot(payload)
			s.Ref = refs[0]
			s.Input = assets.Keep()
			return nil
		},
	}
}
