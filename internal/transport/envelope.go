// Package transport holds the HTTP plumbing shared by the section and asset
// clients: envelope decoding, status errors and bearer authentication.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// ErrNotFound reports an HTTP 404.
var ErrNotFound = errors.New("transport: not found")

// maxErrorBody caps how much of a failed response is read into an error.
const maxErrorBody = 4 << 10

// StatusError is a non-success HTTP response.
type StatusError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Message)
}

// Is maps 404 responses onto ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// TokenSource yields the bearer token for a request. An empty token sends no
// Authorization header.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	token = strings.TrimSpace(token)
	return func(context.Context) (string, error) { return token, nil }
}

// Authorize sets the bearer header from source.
func Authorize(req *http.Request, source TokenSource) error {
	if source == nil {
		return nil
	}
	token, err := source(req.Context())
	if err != nil {
		return fmt.Errorf("transport: resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// ParseBase validates a base URL and strips its trailing slash.
func ParseBase(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("transport: base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("transport: unsupported scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed, nil
}

// Endpoint joins segments onto base and attaches query.
func Endpoint(base *url.URL, query url.Values, segments ...string) string {
	u := *base
	parts := []string{u.Path}
	for _, segment := range segments {
		parts = append(parts, strings.Trim(segment, "/"))
	}
	u.Path = strings.Join(parts, "/")
	u.RawPath = ""
	u.Fragment = ""
	u.RawQuery = query.Encode()
	return u.String()
}

// DecodeEnvelope reads a response into the standard envelope. Non-2xx
// statuses and envelopes with ok=false become a *StatusError.
func DecodeEnvelope(resp *http.Response) (interfaces.Envelope, error) {
	defer resp.Body.Close()

	method, target := "", ""
	if resp.Request != nil {
		method = resp.Request.Method
		if resp.Request.URL != nil {
			target = resp.Request.URL.Redacted()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{Method: method, URL: target, Status: resp.StatusCode}
		var env interfaces.Envelope
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			statusErr.Message = env.Message
		} else {
			statusErr.Message = strings.TrimSpace(string(body))
		}
		return interfaces.Envelope{}, statusErr
	}

	var env interfaces.Envelope
	if resp.StatusCode == http.StatusNoContent {
		env.OK = true
		env.Status = resp.StatusCode
		return env, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return interfaces.Envelope{OK: true, Status: resp.StatusCode}, nil
		}
		return interfaces.Envelope{}, fmt.Errorf("transport: decode envelope: %w", err)
	}
	if !env.OK {
		status := env.Status
		if status == 0 {
			status = resp.StatusCode
		}
		return interfaces.Envelope{}, &StatusError{Method: method, URL: target, Status: status, Message: env.Message}
	}
	return env, nil
}
