package assets

import (
	"strings"
	"time"
)

// LinkContentType marks a Ref that points at an external URL instead of a stored object.
const LinkContentType = "link"

// Kind is the representation a media slot is edited as.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindLink  Kind = "link"
)

// ParseKind normalises a representation name.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindImage:
		return KindImage, true
	case KindVideo:
		return KindVideo, true
	case KindLink:
		return KindLink, true
	default:
		return "", false
	}
}

// Ref references one stored binary or one external link.
type Ref struct {
	URL         string     `json:"url,omitempty"`
	Path        string     `json:"path,omitempty"`
	ContentType string     `json:"contentType,omitempty"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
}

// LinkRef builds the Ref adopted when a slot points at an external URL.
func LinkRef(url string) *Ref {
	url = strings.TrimSpace(url)
	return &Ref{URL: url, Path: url, ContentType: LinkContentType}
}

// IsLink reports whether the ref is an external link.
func (r *Ref) IsLink() bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.ContentType), LinkContentType)
}

// IsStored reports whether the ref owns an object in the asset store.
// Only stored refs are ever passed to AssetStore.Delete.
func (r *Ref) IsStored() bool {
	return r != nil && !r.IsLink() && strings.TrimSpace(r.Path) != ""
}

// IsZero reports whether the ref carries no location at all.
func (r *Ref) IsZero() bool {
	return r == nil || (strings.TrimSpace(r.URL) == "" && strings.TrimSpace(r.Path) == "")
}

// Kind derives the representation from the content type.
func (r *Ref) Kind() Kind {
	if r == nil {
		return ""
	}
	if r.IsLink() {
		return KindLink
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.ContentType)), string(KindVideo)) {
		return KindVideo
	}
	return KindImage
}

// Clone returns a copy that shares no pointers with r.
func (r *Ref) Clone() *Ref {
	if r == nil {
		return nil
	}
	cloned := *r
	if r.UploadedAt != nil {
		ts := *r.UploadedAt
		cloned.UploadedAt = &ts
	}
	return &cloned
}

// SameObject reports whether both refs address the same location.
func SameObject(a, b *Ref) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return strings.TrimSpace(a.Path) == strings.TrimSpace(b.Path) &&
		strings.TrimSpace(a.URL) == strings.TrimSpace(b.URL) &&
		a.IsLink() == b.IsLink()
}
