package handler

import (
	"net/http"
	"strconv"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/service"
)

// AnimalHandler handles animal reporting, querying, and lifecycle updates.
type AnimalHandler struct {
	animals *service.AnimalService
	geo     *service.GeoService
}

// NewAnimalHandler creates a new AnimalHandler.
func NewAnimalHandler(animals *service.AnimalService, geo *service.GeoService) *AnimalHandler {
	return &AnimalHandler{animals: animals, geo: geo}
}

type animalRequest struct {
	Name                string   `json:"name"`
	Species             string   `json:"species"`
	Breed               string   `json:"breed"`
	Description         string   `json:"description"`
	EstimatedAge        string   `json:"estimatedAge"`
	Gender              string   `json:"gender"`
	Size                string   `json:"size"`
	LocationDescription string   `json:"locationDescription"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	Status              string   `json:"status"`
}

// HandleReport creates an animal record from a volunteer's report.
// POST /api/animals
func (h *AnimalHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req animalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	animal, err := h.animals.Report(r.Context(), service.ReportAnimalInput{
		Name:                req.Name,
		Species:             req.Species,
		Breed:               req.Breed,
		Description:         req.Description,
		EstimatedAge:        req.EstimatedAge,
		Gender:              req.Gender,
		Size:                req.Size,
		LocationDescription: req.LocationDescription,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Status:              domain.AnimalStatus(req.Status),
	}, user.ID)
	if err != nil {
		writeServiceError(w, "report animal", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAnimalDTO(animal))
}

// HandleList lists animals, optionally filtered by status, species
// substring, or a free-text search term.
// GET /api/animals?status=...&species=...&q=...
func (h *AnimalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		animals []domain.Animal
		err     error
	)
	q := r.URL.Query()
	switch {
	case q.Get("status") != "":
		animals, err = h.animals.ListByStatus(r.Context(), domain.AnimalStatus(q.Get("status")))
	case q.Get("species") != "":
		animals, err = h.animals.SearchBySpecies(r.Context(), q.Get("species"))
	case q.Get("q") != "":
		animals, err = h.animals.Search(r.Context(), q.Get("q"))
	default:
		animals, err = h.animals.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, "list animals", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalDTOs(animals))
}

// HandleNear returns animals within a radius of a coordinate, nearest first.
// GET /api/animals/near?lat=...&lon=...&radiusKm=...
func (h *AnimalHandler) HandleNear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lat parameter.")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lon parameter.")
		return
	}
	radiusKm, err := strconv.ParseFloat(q.Get("radiusKm"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid radiusKm parameter.")
		return
	}

	animals, err := h.geo.FindNear(r.Context(), lat, lon, radiusKm)
	if err != nil {
		writeServiceError(w, "find animals near", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalDTOs(animals))
}

// HandleRecent lists animals reported in the last 24 hours.
// GET /api/animals/recent
func (h *AnimalHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	animals, err := h.animals.ListRecent(r.Context())
	if err != nil {
		writeServiceError(w, "list recent animals", err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimalDTOs(animals))
}

// HandleMine lists the animals the authenticated user has reported.
// GET /api/animals/mine
func (h *AnimalHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	animals, err := h.animals.ListReportedBy(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list reported animals", err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimalDTOs(animals))
}

// HandleGet returns one animal.
// GET /api/animals/{id}
func (h *AnimalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	animal, err := h.animals.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get animal", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalDTO(animal))
}

// HandleUpdate replaces an animal's descriptive fields.
// PUT /api/animals/{id}
func (h *AnimalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	var req animalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	animal, err := h.animals.UpdateDetails(r.Context(), id, service.UpdateDetailsInput{
		Name:                req.Name,
		Species:             req.Species,
		Breed:               req.Breed,
		Description:         req.Description,
		EstimatedAge:        req.EstimatedAge,
		Gender:              req.Gender,
		Size:                req.Size,
		LocationDescription: req.LocationDescription,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
	})
	if err != nil {
		writeServiceError(w, "update animal", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalDTO(animal))
}

// HandleUpdateStatus moves an animal to a new rescue status.
// PATCH /api/animals/{id}/status
func (h *AnimalHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	animal, err := h.animals.UpdateStatus(r.Context(), id, domain.AnimalStatus(req.Status))
	if err != nil {
		writeServiceError(w, "update animal status", err)
		return
	}

	writeJSON(w, http.StatusOK, toAnimalDTO(animal))
}

// HandleDelete removes an animal and its images.
// DELETE /api/animals/{id}
func (h *AnimalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid animal id.")
		return
	}

	if err := h.animals.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete animal", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats returns the number of animals in a given status.
// GET /api/animals/stats?status=...
func (h *AnimalHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	status := domain.AnimalStatus(r.URL.Query().Get("status"))
	count, err := h.animals.CountByStatus(r.Context(), status)
	if err != nil {
		writeServiceError(w, "count animals", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": string(status),
		"count":  count,
	})
}
