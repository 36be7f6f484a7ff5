// Package respond holds the JSON response helpers shared by the API
// handlers.
package respond

import (
	"encoding/json"
	"net/http"

	"pepuhub/pkg/errors"
)

// JSON writes a JSON response with the given status
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error maps a domain error to an HTTP status with a short reason
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errors.ErrAlreadyVoted), errors.Is(err, errors.ErrAlreadyExists):
		status = http.StatusConflict
	}

	var validation *errors.ValidationError
	if errors.As(err, &validation) {
		status = http.StatusBadRequest
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}
