package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

var (
	// ErrBlobNotFound indicates that no blob is stored under a path.
	ErrBlobNotFound = errors.New("blobstore: blob not found")
	ErrEmptyFile    = errors.New("blobstore: file is empty")
	ErrTooLarge     = errors.New("blobstore: file exceeds the upload limit")
	ErrInvalidPath  = errors.New("blobstore: invalid path")
)

// Blob is a stored binary.
type Blob struct {
	Path        string
	ContentType string
	Size        int64
	Data        []byte
	UploadedAt  time.Time
}

// Store is a server-side AssetStore that can also serve what it holds.
type Store interface {
	interfaces.AssetStore
	Get(ctx context.Context, path string) (*Blob, error)
}

// KeyFunc builds the storage path for a file uploaded into folder.
type KeyFunc func(folder, filename string) string

type settings struct {
	publicBase string
	maxBytes   int64
	now        func() time.Time
	key        KeyFunc
}

// Option customises a store.
type Option func(*settings)

// WithPublicBaseURL sets the prefix of returned URLs, e.g. "https://cdn.example.com/media".
func WithPublicBaseURL(base string) Option {
	return func(s *settings) {
		s.publicBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithMaxBytes rejects uploads larger than limit. Zero disables the check.
func WithMaxBytes(limit int64) Option {
	return func(s *settings) {
		if limit >= 0 {
			s.maxBytes = limit
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func WithKeyFunc(fn KeyFunc) Option {
	return func(s *settings) {
		if fn != nil {
			s.key = fn
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		publicBase: "/media",
		now:        time.Now,
		key:        NewKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// URL returns the public URL for path.
func (s settings) URL(p string) string {
	return s.publicBase + "/" + p
}

func (s settings) prepare(file interfaces.File, folder string) (Blob, error) {
	if len(file.Data) == 0 {
		return Blob{}, ErrEmptyFile
	}
	if s.maxBytes > 0 && file.Size() > s.maxBytes {
		return Blob{}, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, file.Size(), s.maxBytes)
	}
	contentType := strings.TrimSpace(file.ContentType)
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}
	return Blob{
		Path:        s.key(folder, file.Name),
		ContentType: contentType,
		Size:        file.Size(),
		Data:        append([]byte(nil), file.Data...),
		UploadedAt:  s.now().UTC(),
	}, nil
}

func (s settings) stored(blob Blob) interfaces.StoredObject {
	return interfaces.StoredObject{
		URL:        s.URL(blob.Path),
		Path:       blob.Path,
		UploadedAt: blob.UploadedAt,
	}
}

// NewKey places filename under folder with a random prefix so repeated
// uploads of the same name never collide. Folder segments and the file stem
// are slug-normalised; the extension is kept lower-cased.
func NewKey(folder, filename string) string {
	segments := make([]string, 0, 4)
	for _, segment := range strings.Split(folder, "/") {
		if normalized := normalizeSegment(segment); normalized != "" {
			segments = append(segments, normalized)
		}
	}
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := normalizeSegment(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	segments = append(segments, uuid.NewString()+"-"+stem+ext)
	return strings.Join(segments, "/")
}

func normalizeSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "." || value == ".." {
		return ""
	}
	normalized, err := slug.Normalize(value)
	if err != nil {
		return ""
	}
	return normalized
}

// CleanPath validates a path received from a client.
func CleanPath(p string) (string, error) {
	p = strings.TrimSpace(strings.TrimPrefix(p, "/"))
	if p == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned != p || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}
