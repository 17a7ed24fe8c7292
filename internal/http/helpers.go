package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-sections/internal/auth"
	"github.com/goliatone/go-cms-sections/internal/blobstore"
	"github.com/goliatone/go-cms-sections/internal/locale"
	"github.com/goliatone/go-cms-sections/internal/sectionstore"
	"github.com/goliatone/go-cms-sections/internal/validation"
)

var (
	errDomainUnknown = errors.New("http: unknown domain")
	errBodyRequired  = errors.New("http: request body must be valid JSON")
	errFileRequired  = errors.New("http: multipart field \"file\" is required")
	errPathRequired  = errors.New("http: path query parameter is required")
)

type envelope struct {
	OK      bool                         `json:"ok"`
	Status  int                          `json:"status"`
	Message string                       `json:"message,omitempty"`
	Error   string                       `json:"error,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
	Data    any                          `json:"data,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{OK: true, Status: status, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, envelope) {
	if err == nil {
		return http.StatusInternalServerError, envelope{Status: http.StatusInternalServerError, Error: "unknown_error"}
	}

	fail := func(status int, code string) (int, envelope) {
		return status, envelope{Status: status, Error: code, Message: err.Error()}
	}

	if errors.Is(err, sectionstore.ErrSectionNotFound) ||
		errors.Is(err, blobstore.ErrBlobNotFound) ||
		errors.Is(err, errDomainUnknown) {
		return fail(http.StatusNotFound, "not_found")
	}

	if errors.Is(err, auth.ErrUnauthorized) {
		return fail(http.StatusUnauthorized, "unauthorized")
	}
	if errors.Is(err, auth.ErrForbidden) {
		return fail(http.StatusForbidden, "forbidden")
	}

	if errors.Is(err, validation.ErrSchemaValidation) {
		status, payload := fail(http.StatusUnprocessableEntity, "validation_failed")
		payload.Issues = validation.Issues(err)
		return status, payload
	}

	if errors.Is(err, blobstore.ErrTooLarge) {
		return fail(http.StatusRequestEntityTooLarge, "too_large")
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return fail(http.StatusRequestEntityTooLarge, "too_large")
	}

	if errors.Is(err, locale.ErrUnsupported) ||
		errors.Is(err, sectionstore.ErrKeyRequired) ||
		errors.Is(err, validation.ErrPayloadMalformed) ||
		errors.Is(err, blobstore.ErrEmptyFile) ||
		errors.Is(err, blobstore.ErrInvalidPath) ||
		errors.Is(err, errBodyRequired) ||
		errors.Is(err, errFileRequired) ||
		errors.Is(err, errPathRequired) {
		return fail(http.StatusBadRequest, "bad_request")
	}

	return fail(http.StatusInternalServerError, "internal_error")
}
