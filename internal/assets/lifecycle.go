package assets

import (
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

var (
	// ErrFileRequired reports an ActionFile input without a binary.
	ErrFileRequired = errors.New("assets: file input requires a binary")
	// ErrLinkRequired reports an ActionLink input without a URL.
	ErrLinkRequired = errors.New("assets: link input requires a url")
	// ErrUnknownAction reports an input the lifecycle does not understand.
	ErrUnknownAction = errors.New("assets: unknown input action")
)

// UploadOp stores one new binary.
type UploadOp struct {
	File        interfaces.File
	Folder      string
	ContentType string
}

// DeleteOp retires one stored object.
type DeleteOp struct {
	Path string
}

// Plan is the lifecycle decision for a single slot.
//
// While Upload is set, Ref is nil and the slot still holds Previous. Commit
// swaps in the stored object; only then may Delete run.
type Plan struct {
	Previous *Ref
	Ref      *Ref
	Upload   *UploadOp
	Delete   *DeleteOp
}

// Pending reports whether the slot waits on an upload.
func (p Plan) Pending() bool {
	return p.Upload != nil
}

// Noop reports whether the plan leaves the store untouched.
func (p Plan) Noop() bool {
	return p.Upload == nil && p.Delete == nil
}

// Resolve decides what happens to a slot given its previous ref and the
// editor's input. It performs no I/O.
func Resolve(prev *Ref, in Input, folder string) (Plan, error) {
	plan := Plan{Previous: prev.Clone()}

	switch in.Action {
	case ActionKeep:
		if in.Type != "" && prev != nil && !prev.IsZero() && prev.Kind() != in.Type {
			plan.Delete = retire(prev)
			return plan, nil
		}
		plan.Ref = prev.Clone()
		return plan, nil

	case ActionFile:
		if in.File == nil || len(in.File.Data) == 0 {
			return Plan{}, ErrFileRequired
		}
		contentType := strings.TrimSpace(in.File.ContentType)
		if contentType == "" && in.Type != "" && in.Type != KindLink {
			contentType = string(in.Type)
		}
		plan.Upload = &UploadOp{
			File:        *in.File,
			Folder:      folder,
			ContentType: contentType,
		}
		plan.Delete = retire(prev)
		return plan, nil

	case ActionLink:
		url := strings.TrimSpace(in.URL)
		if url == "" {
			return Plan{}, ErrLinkRequired
		}
		if prev.IsLink() && strings.TrimSpace(prev.URL) == url {
			plan.Ref = prev.Clone()
			return plan, nil
		}
		plan.Ref = LinkRef(url)
		plan.Delete = retire(prev)
		return plan, nil

	case ActionClear:
		plan.Delete = retire(prev)
		return plan, nil
	}

	return Plan{}, ErrUnknownAction
}

// Commit adopts the stored object produced by the plan's upload and returns
// the delete that is now safe to run, if any.
func (p *Plan) Commit(obj interfaces.StoredObject, now time.Time) *DeleteOp {
	if p.Upload == nil {
		return p.Delete
	}
	uploadedAt := obj.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = now
	}
	uploadedAt = uploadedAt.UTC()
	p.Ref = &Ref{
		URL:         obj.URL,
		Path:        obj.Path,
		ContentType: p.Upload.ContentType,
		UploadedAt:  &uploadedAt,
	}
	p.Upload = nil
	if p.Delete != nil && strings.TrimSpace(p.Delete.Path) == strings.TrimSpace(obj.Path) {
		p.Delete = nil
	}
	return p.Delete
}

func retire(prev *Ref) *DeleteOp {
	if !prev.IsStored() {
		return nil
	}
	return &DeleteOp{Path: strings.TrimSpace(prev.Path)}
}
