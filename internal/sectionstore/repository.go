package sectionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-sections/internal/identity"
)

// ErrSectionNotFound indicates that no document exists for a key.
var ErrSectionNotFound = errors.New("sectionstore: section not found")

// ErrKeyRequired indicates that domain, section and locale must all be set.
var ErrKeyRequired = errors.New("sectionstore: domain, section and locale are required")

// Repository persists one JSON document per (domain, section, locale).
type Repository interface {
	Get(ctx context.Context, key Key) (*Record, error)
	Upsert(ctx context.Context, key Key, data json.RawMessage) (*Record, error)
	Delete(ctx context.Context, key Key) error
	List(ctx context.Context, domain string) ([]Record, error)
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// Key addresses a section document.
type Key struct {
	Domain  string
	Section string
	Locale  string
}

func (k Key) normalize() (Key, error) {
	out := Key{
		Domain:  strings.ToLower(strings.TrimSpace(k.Domain)),
		Section: strings.TrimSpace(k.Section),
		Locale:  strings.ToLower(strings.TrimSpace(k.Locale)),
	}
	if out.Domain == "" || out.Section == "" || out.Locale == "" {
		return Key{}, ErrKeyRequired
	}
	return out, nil
}

// String renders the key as domain:section:locale.
func (k Key) String() string {
	return identity.SectionKey(k.Domain, k.Section, k.Locale)
}

// ID returns the deterministic document id for the key.
func (k Key) ID() uuid.UUID {
	return identity.SectionUUID(k.Domain, k.Section, k.Locale)
}

// Record is a stored section document.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	Key       Key             `json:"-"`
	Data      json.RawMessage `json:"data"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NotFoundError reports a missing document. It matches ErrSectionNotFound.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}

// ChangeType enumerates document change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports document mutations to subscribers.
type ChangeEvent struct {
	Type    ChangeType
	Key     Key
	Version int
}

func cloneRecord(record Record) Record {
	cloned := record
	if record.Data != nil {
		cloned.Data = append(json.RawMessage(nil), record.Data...)
	}
	return cloned
}

func validData(data json.RawMessage) error {
	if len(data) == 0 || !json.Valid(data) {
		return fmt.Errorf("sectionstore: document data must be valid JSON")
	}
	return nil
}

var (
	_ Repository = (*BunRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
