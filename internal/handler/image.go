package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pawtrail/rescue/internal/service"
)

// ImageHandler handles image upload, listing, primary selection, and deletion.
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger parts spill to temp files.
const maxMultipartMemory = 32 << 20 // 32MB

// HandleUpload ingests one or more photos for an animal from a multipart
// form (field name "images"). Files are processed in order; a failure stops
// the batch but images committed before it are kept and returned alongside
// the error.
// POST /api/animals/{id}/images
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	animalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	fileHeaders := r.MultipartForm.File["images"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "No image files provided.")
		return
	}

	var files []service.Upload
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			slog.Error("open multipart file", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			slog.Error("read upload", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}

		files = append(files, service.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	created, err := h.images.UploadBatch(r.Context(), animalID, files, user.ID)
	if err != nil {
		if len(created) == 0 {
			writeServiceError(w, "upload images", err)
			return
		}
		// Partial success: report what was committed and what failed.
		writeJSON(w, errorStatus(err), map[string]any{
			"images": toAnimalImageDTOs(created),
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"images": toAnimalImageDTOs(created),
	})
}

// HandleList returns an animal's images in display order.
// GET /api/animals/{id}/images
func (h *ImageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	animalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	images, err := h.images.ListForAnimal(r.Context(), animalID)
	if err != nil {
		writeServiceError(w, "list images", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalImageDTOs(images))
}

// HandleGetPrimary returns an animal's primary image, 404 when it has none.
// GET /api/animals/{id}/images/primary
func (h *ImageHandler) HandleGetPrimary(w http.ResponseWriter, r *http.Request) {
	animalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	image, err := h.images.GetPrimary(r.Context(), animalID)
	if err != nil {
		writeServiceError(w, "get primary image", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalImageDTO(image))
}

// HandleSetPrimary makes an image the animal's primary photo.
// PUT /api/animals/{id}/images/{imageID}/primary
func (h *ImageHandler) HandleSetPrimary(w http.ResponseWriter, r *http.Request) {
	animalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}
	imageID, err := strconv.ParseInt(r.PathValue("imageID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image id.")
		return
	}

	image, err := h.images.SetPrimary(r.Context(), animalID, imageID)
	if err != nil {
		writeServiceError(w, "set primary image", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalImageDTO(image))
}

// HandleDelete removes an image.
// DELETE /api/images/{imageID}
func (h *ImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	imageID, err := strconv.ParseInt(r.PathValue("imageID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image id.")
		return
	}

	if err := h.images.DeleteImage(r.Context(), imageID); err != nil {
		writeServiceError(w, "delete image", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
