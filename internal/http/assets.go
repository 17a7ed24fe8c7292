package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-sections/internal/blobstore"
	"github.com/goliatone/go-cms-sections/internal/logging"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

func (api *API) handleAssetUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, api.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, err)
			return
		}
		writeError(w, errFileRequired)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errFileRequired)
		return
	}
	defer part.Close()

	if header.Size > api.maxUploadBytes {
		writeError(w, blobstore.ErrTooLarge)
		return
	}
	data, err := io.ReadAll(part)
	if err != nil {
		writeError(w, err)
		return
	}

	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	stored, err := api.blobs.Upload(r.Context(), interfaces.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, folder)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.WithFields(api.logger, map[string]any{
		"path":   stored.Path,
		"folder": folder,
		"bytes":  len(data),
	}).Info("sections.http.asset_uploaded")

	writeData(w, http.StatusCreated, stored)
}

func (api *API) handleAssetDelete(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		writeError(w, errPathRequired)
		return
	}
	if err := api.blobs.Delete(r.Context(), path); err != nil {
		writeError(w, err)
		return
	}
	logging.WithFields(api.logger, map[string]any{"path": path}).Info("sections.http.asset_deleted")
	writeData(w, http.StatusOK, map[string]string{"path": path})
}

func (api *API) handleBlobGet(w http.ResponseWriter, r *http.Request) {
	blob, err := api.blobs.Get(r.Context(), r.PathValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(int64(len(blob.Data)), 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(blob.Data)
	}
}
