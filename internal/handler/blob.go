package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/repository/sqlite"
)

// BlobHandler serves image bytes from the SQLite blob store. It is only
// registered when the sqlite blob backend is active; with the S3 backend
// clients fetch objects from the bucket URL directly.
type BlobHandler struct {
	blobs *sqlite.BlobStore
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(blobs *sqlite.BlobStore) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

// HandleServe serves stored bytes with their content type.
// GET /blobs/{key...}
func (h *BlobHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Missing blob key.")
		return
	}

	data, contentType, err := h.blobs.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		slog.Error("serve blob", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
