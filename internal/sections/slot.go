package sections

import (
	"bytes"
	"encoding/json"

	"github.com/goliatone/go-cms-sections/internal/assets"
)

// Slot is an asset-bearing field of a payload. It serialises as the persisted
// ref; Input is the transient edit intent and never leaves the process.
type Slot struct {
	Ref   *assets.Ref
	Input assets.Input
}

// Stored wraps a persisted ref in a Slot that keeps it.
func Stored(ref *assets.Ref) Slot {
	return Slot{Ref: ref}
}

// Edit wraps the passthrough ref and an input.
func Edit(ref *assets.Ref, in assets.Input) Slot {
	return Slot{Ref: ref, Input: in}
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if s.Ref == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Ref)
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	s.Input = assets.Keep()
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		s.Ref = nil
		return nil
	}
	var ref assets.Ref
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	if ref.IsZero() {
		s.Ref = nil
		return nil
	}
	s.Ref = &ref
	return nil
}
