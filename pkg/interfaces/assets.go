package interfaces

import (
	"context"
	"time"
)

// AssetStore persists binary assets in a remote object store. Implementations
// own their own timeouts; callers never retry on their behalf.
type AssetStore interface {
	// Upload stores the file under the supplied folder and returns the public
	// URL together with the storage key that later deletes must use.
	Upload(ctx context.Context, file File, folder string) (StoredObject, error)
	// Delete removes the object addressed by path.
	Delete(ctx context.Context, path string) error
}

// File is a binary selected in the editor and not yet stored.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size reports the payload length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// StoredObject describes an object accepted by an AssetStore.
type StoredObject struct {
	URL        string    `json:"url"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}
