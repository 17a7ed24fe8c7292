// Package assets exposes the asset reference and edit-intent types used in
// section payloads.
package assets

import (
	internal "github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

type (
	Ref    = internal.Ref
	Kind   = internal.Kind
	Input  = internal.Input
	Action = internal.Action
	Plan   = internal.Plan
)

const (
	KindImage = internal.KindImage
	KindVideo = internal.KindVideo
	KindLink  = internal.KindLink

	ActionKeep  = internal.ActionKeep
	ActionFile  = internal.ActionFile
	ActionLink  = internal.ActionLink
	ActionClear = internal.ActionClear

	LinkContentType = internal.LinkContentType
)

var (
	ErrFileRequired  = internal.ErrFileRequired
	ErrLinkRequired  = internal.ErrLinkRequired
	ErrUnknownAction = internal.ErrUnknownAction
)

func Keep() Input                       { return internal.Keep() }
func Upload(file interfaces.File) Input { return internal.Upload(file) }
func Link(url string) Input             { return internal.Link(url) }
func Clear() Input                      { return internal.Clear() }
func Retype(kind Kind) Input            { return internal.Retype(kind) }

// LinkRef builds the Ref adopted when a slot points at an external URL.
func LinkRef(url string) *Ref { return internal.LinkRef(url) }

// ParseKind normalises a representation name.
func ParseKind(value string) (Kind, bool) { return internal.ParseKind(value) }

// Resolve plans what happens to prev given the edit intent in.
func Resolve(prev *Ref, in Input, folder string) (Plan, error) {
	return internal.Resolve(prev, in, folder)
}
