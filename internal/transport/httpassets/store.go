package httpassets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/transport"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const defaultTimeout = 2 * time.Minute

// ErrEmptyFile rejects uploads without data.
var ErrEmptyFile = errors.New("httpassets: file is empty")

// Store implements interfaces.AssetStore against the asset endpoints:
// multipart POST {base}/api/v1/assets?folder= and DELETE {base}/api/v1/assets?path=.
type Store struct {
	base   *url.URL
	http   *http.Client
	token  transport.TokenSource
	logger interfaces.Logger
}

var _ interfaces.AssetStore = (*Store)(nil)

// Option customises the store.
type Option func(*Store)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		if client != nil {
			s.http = client
		}
	}
}

// WithToken authenticates every call with a fixed bearer token.
func WithToken(token string) Option {
	return func(s *Store) {
		s.token = transport.StaticToken(token)
	}
}

// WithTokenSource authenticates every call with a token resolved per request.
func WithTokenSource(source transport.TokenSource) Option {
	return func(s *Store) {
		s.token = source
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a store rooted at baseURL.
func New(baseURL string, opts ...Option) (*Store, error) {
	base, err := transport.ParseBase(baseURL)
	if err != nil {
		return nil, err
	}
	s := &Store{
		base:   base,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Upload stores file under folder.
func (s *Store) Upload(ctx context.Context, file interfaces.File, folder string) (interfaces.StoredObject, error) {
	if len(file.Data) == 0 {
		return interfaces.StoredObject{}, ErrEmptyFile
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName(file)))
	if ct := strings.TrimSpace(file.ContentType); ct != "" {
		header.Set("Content-Type", ct)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return interfaces.StoredObject{}, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return interfaces.StoredObject{}, err
	}
	if err := writer.Close(); err != nil {
		return interfaces.StoredObject{}, err
	}

	query := url.Values{}
	if folder = strings.Trim(strings.TrimSpace(folder), "/"); folder != "" {
		query.Set("folder", folder)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, transport.Endpoint(s.base, query, "api", "v1", "assets"), &body)
	if err != nil {
		return interfaces.StoredObject{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if err := transport.Authorize(req, s.token); err != nil {
		return interfaces.StoredObject{}, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return interfaces.StoredObject{}, err
	}
	env, err := transport.DecodeEnvelope(resp)
	if err != nil {
		return interfaces.StoredObject{}, err
	}
	var obj interfaces.StoredObject
	if err := json.Unmarshal(env.Data, &obj); err != nil {
		return interfaces.StoredObject{}, fmt.Errorf("httpassets: decode stored object: %w", err)
	}
	if strings.TrimSpace(obj.Path) == "" {
		return interfaces.StoredObject{}, errors.New("httpassets: response missing path")
	}
	s.logger.Debug("sections.assets.uploaded", "path", obj.Path, "bytes", file.Size())
	return obj, nil
}

// Delete removes the object at path. Deleting a missing object succeeds.
func (s *Store) Delete(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("httpassets: path is required")
	}
	query := url.Values{"path": []string{path}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, transport.Endpoint(s.base, query, "api", "v1", "assets"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if err := transport.Authorize(req, s.token); err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	if _, err := transport.DecodeEnvelope(resp); err != nil && !errors.Is(err, transport.ErrNotFound) {
		return err
	}
	s.logger.Debug("sections.assets.deleted", "path", path)
	return nil
}

func fileName(file interfaces.File) string {
	if name := strings.TrimSpace(file.Name); name != "" {
		return name
	}
	return "upload"
}
