package sections

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/internal/reconcile"
)

// Document is an untyped section payload: scalar fields plus named
// collections of items that each carry one asset slot.
type Document struct {
	Fields      map[string]json.RawMessage `json:"fields,omitempty"`
	Collections map[string][]Item          `json:"collections,omitempty"`
}

// Item is one element of a Document collection.
type Item struct {
	ID     string                     `json:"id,omitempty"`
	Fields map[string]json.RawMessage `json:"fields,omitempty"`
	Asset  Slot                       `json:"asset"`
}

// SetField stores value under key.
func (d *Document) SetField(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sections: encode field %q: %w", key, err)
	}
	if d.Fields == nil {
		d.Fields = make(map[string]json.RawMessage)
	}
	d.Fields[key] = raw
	return nil
}

// Field decodes the value stored under key into dst. It reports false when the
// key is absent.
func (d Document) Field(key string, dst any) (bool, error) {
	raw, ok := d.Fields[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("sections: decode field %q: %w", key, err)
	}
	return true, nil
}

// Append adds an item to the named collection, assigning an ID when empty.
func (d *Document) Append(collection string, item Item) Item {
	if item.ID == "" {
		item.ID = reconcile.NewEntryID()
	}
	if d.Collections == nil {
		d.Collections = make(map[string][]Item)
	}
	d.Collections[collection] = append(d.Collections[collection], item)
	return item
}

// DocumentCollection declares a Document collection for a Definition.
func DocumentCollection(name string, strategy reconcile.Strategy, folder string) Collection[Document] {
	return Collection[Document]{
		Name:     name,
		Strategy: strategy,
		Folder:   folder,
		Entries: func(doc Document) []reconcile.Entry {
			items := doc.Collections[name]
			out := make([]reconcile.Entry, len(items))
			for i, item := range items {
				out[i] = reconcile.Entry{ID: item.ID, Asset: item.Asset.Ref, Input: item.Asset.Input}
			}
			return out
		},
		Assign: func(doc *Document, refs []*assets.Ref) error {
			items := doc.Collections[name]
			if len(items) != len(refs) {
				return fmt.Errorf("%w: %s has %d items, got %d refs", ErrSlotCountMismatch, name, len(items), len(refs))
			}
			for i := range items {
				items[i].Asset = Stored(refs[i])
			}
			return nil
		},
	}
}
