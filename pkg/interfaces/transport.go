package interfaces

import (
	"context"
	"encoding/json"
)

// SectionTransport persists section payloads for one content domain.
type SectionTransport interface {
	// Fetch returns the persisted payload. A section that has never been saved
	// is reported as FetchResult{Found: false} with a nil error; transport
	// failures are always returned as errors.
	Fetch(ctx context.Context, section, locale string) (FetchResult, error)
	// Patch persists the payload and returns the server's stored copy.
	Patch(ctx context.Context, section, locale string, payload any) (json.RawMessage, error)
}

// FetchResult is the outcome of a successful Fetch round trip.
type FetchResult struct {
	Found bool
	Data  json.RawMessage
}

// Envelope is the response body used by the section and asset APIs.
type Envelope struct {
	OK      bool            `json:"ok"`
	Status  int             `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
