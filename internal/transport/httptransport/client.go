package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/transport"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const defaultTimeout = 30 * time.Second

// ErrNotFound is matched by errors returned for HTTP 404 responses.
var ErrNotFound = transport.ErrNotFound

// Client implements interfaces.SectionTransport over the sections REST API:
// GET and PATCH {base}/api/v1/{domain}/{section}?lang={locale}.
type Client struct {
	base   *url.URL
	domain string
	http   *http.Client
	token  transport.TokenSource
	logger interfaces.Logger
}

var _ interfaces.SectionTransport = (*Client)(nil)

// Option customises the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout, Transport: c.http.Transport}
		}
	}
}

// WithToken authenticates patches with a fixed bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = transport.StaticToken(token)
	}
}

// WithTokenSource authenticates patches with a token resolved per request.
func WithTokenSource(source transport.TokenSource) Option {
	return func(c *Client) {
		c.token = source
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for domain (for example "home" or "about") at baseURL.
func New(baseURL, domain string, opts ...Option) (*Client, error) {
	base, err := transport.ParseBase(baseURL)
	if err != nil {
		return nil, err
	}
	domain = strings.Trim(strings.TrimSpace(domain), "/")
	if domain == "" {
		return nil, errors.New("httptransport: domain is required")
	}
	c := &Client{
		base:   base,
		domain: domain,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) endpoint(section, locale string) string {
	query := url.Values{}
	if locale = strings.TrimSpace(locale); locale != "" {
		query.Set("lang", locale)
	}
	return transport.Endpoint(c.base, query, "api", "v1", c.domain, section)
}

// Fetch loads a section. A 404 yields FetchResult{Found: false} and no error.
func (c *Client) Fetch(ctx context.Context, section, locale string) (interfaces.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(section, locale), nil)
	if err != nil {
		return interfaces.FetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if err := transport.Authorize(req, c.token); err != nil {
		return interfaces.FetchResult{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return interfaces.FetchResult{}, err
	}
	env, err := transport.DecodeEnvelope(resp)
	if errors.Is(err, transport.ErrNotFound) {
		c.logFor(ctx, section, locale).Debug("sections.transport.fetch.not_found")
		return interfaces.FetchResult{Found: false}, nil
	}
	if err != nil {
		return interfaces.FetchResult{}, err
	}
	return interfaces.FetchResult{Found: true, Data: env.Data}, nil
}

// Patch persists payload and returns the envelope's data.
func (c *Client) Patch(ctx context.Context, section, locale string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("httptransport: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint(section, locale), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := transport.Authorize(req, c.token); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	env, err := transport.DecodeEnvelope(resp)
	if err != nil {
		return nil, err
	}
	c.logFor(ctx, section, locale).Debug("sections.transport.patch", "status", env.Status)
	return env.Data, nil
}

func (c *Client) logFor(ctx context.Context, section, locale string) interfaces.Logger {
	return c.logger.WithContext(logging.ContextWithSection(ctx, c.domain, section, locale))
}
