package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-cms-sections/internal/auth"
	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/internal/sectionstore"
)

type sectionSummary struct {
	Section   string `json:"section"`
	Locale    string `json:"locale"`
	Version   int    `json:"version"`
	UpdatedAt string `json:"updatedAt"`
}

func (api *API) sectionKey(r *http.Request) (sectionstore.Key, error) {
	domain, err := api.resolveDomain(r.PathValue("domain"))
	if err != nil {
		return sectionstore.Key{}, err
	}
	loc, err := api.locales.Parse(r.URL.Query().Get("lang"))
	if err != nil {
		return sectionstore.Key{}, err
	}
	return sectionstore.Key{
		Domain:  domain,
		Section: r.PathValue("section"),
		Locale:  loc.String(),
	}, nil
}

func (api *API) handleSectionList(w http.ResponseWriter, r *http.Request) {
	domain, err := api.resolveDomain(r.PathValue("domain"))
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := api.documents.List(r.Context(), domain)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]sectionSummary, len(records))
	for i, record := range records {
		out[i] = sectionSummary{
			Section:   record.Key.Section,
			Locale:    record.Key.Locale,
			Version:   record.Version,
			UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	writeData(w, http.StatusOK, out)
}

func (api *API) handleSectionGet(w http.ResponseWriter, r *http.Request) {
	key, err := api.sectionKey(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := api.documents.Get(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record.Data)
}

func (api *API) handleSectionPatch(w http.ResponseWriter, r *http.Request) {
	key, err := api.sectionKey(r)
	if err != nil {
		writeError(w, err)
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, api.maxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	if !json.Valid(raw) {
		writeError(w, errBodyRequired)
		return
	}
	if err := api.schemas.Validate(key.Section, raw); err != nil {
		writeError(w, err)
		return
	}

	record, err := api.documents.Upsert(r.Context(), key, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	logger := api.logger.WithContext(logging.ContextWithSection(r.Context(), key.Domain, key.Section, key.Locale))
	fields := map[string]any{"version": record.Version}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		fields["actor"] = claims.Subject
	}
	logging.WithFields(logger, fields).Info("sections.http.patched")

	writeData(w, http.StatusOK, record.Data)
}
