package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pawtrail/rescue/internal/domain"
)

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// errorStatus maps domain error kinds onto HTTP status codes: bad input is
// the caller's fault, missing records are 404, everything else (processing
// and storage failures) is a server error. The mapping relies on errors.Is,
// never on message text.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders a service error using errorStatus. Client
// errors echo the error message; server errors are logged and masked.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	status := errorStatus(err)
	switch status {
	case http.StatusInternalServerError:
		slog.Error(op, "error", err)
		writeError(w, status, "An unexpected error occurred. Please try again.")
	case http.StatusNotFound:
		writeError(w, status, "Not found.")
	case http.StatusUnauthorized:
		writeError(w, status, "Unauthorized.")
	default:
		writeError(w, status, err.Error())
	}
}
