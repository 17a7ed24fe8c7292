package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SectionKey is the canonical storage key for a section document.
func SectionKey(domain, section, locale string) string {
	return strings.ToLower(strings.TrimSpace(domain)) + ":" +
		strings.TrimSpace(section) + ":" +
		strings.ToLower(strings.TrimSpace(locale))
}

func SectionUUID(domain, section, locale string) uuid.UUID {
	return UUID("sections:document:" + SectionKey(domain, section, locale))
}

func BlobUUID(path string) uuid.UUID {
	return UUID("sections:blob:" + strings.TrimSpace(path))
}
