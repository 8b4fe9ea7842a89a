package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"peerpulse-backend/internal/feedback"

	"github.com/go-playground/validator/v10"
)

// validate checks request payloads declaratively; the nested responses and
// weights bodies make field-by-field checks noisy.
var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps the feedback error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 with the detail kept in the server log.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feedback.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, feedback.ErrValidation), errors.Is(err, feedback.ErrReviewerRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, feedback.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, feedback.ErrConfigMissing):
		log.Printf("Feedback creation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	case errors.Is(err, feedback.ErrStorageUnavailable):
		log.Printf("Storage error: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
	default:
		log.Printf("Unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
