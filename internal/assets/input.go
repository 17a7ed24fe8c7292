package assets

import "github.com/goliatone/go-cms-sections/pkg/interfaces"

// Action is what the editor asked to happen to a slot.
type Action uint8

const (
	// ActionKeep leaves the slot as it is unless Type requests another representation.
	ActionKeep Action = iota
	// ActionFile replaces the slot with a freshly selected binary.
	ActionFile
	// ActionLink points the slot at an external URL.
	ActionLink
	// ActionClear empties the slot.
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionFile:
		return "file"
	case ActionLink:
		return "link"
	case ActionClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Input is the edit intent for one asset slot.
type Input struct {
	Action Action
	File   *interfaces.File
	URL    string
	// Type is the representation selected in the editor. Empty means unchanged.
	Type Kind
}

// Keep leaves the slot untouched.
func Keep() Input { return Input{Action: ActionKeep} }

// Upload replaces the slot with file.
func Upload(file interfaces.File) Input {
	return Input{Action: ActionFile, File: &file}
}

// Link points the slot at url.
func Link(url string) Input {
	return Input{Action: ActionLink, URL: url, Type: KindLink}
}

// Clear empties the slot.
func Clear() Input { return Input{Action: ActionClear} }

// Retype records a representation change without new input.
func Retype(kind Kind) Input { return Input{Action: ActionKeep, Type: kind} }

// WithType returns a copy of the input tagged with kind.
func (in Input) WithType(kind Kind) Input {
	in.Type = kind
	return in
}
