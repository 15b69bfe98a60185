package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

// mutationResult mirrors the acknowledgement documents the web client reads
// after inserts, updates and deletes.
type mutationResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	InsertedID    string `json:"insertedId,omitempty"`
	ModifiedCount int    `json:"modifiedCount,omitempty"`
	DeletedCount  int    `json:"deletedCount,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrRejected), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes {"message": ...}. Internal errors are logged and their
// detail is not exposed.
func writeError(w http.ResponseWriter, log logger.Logger, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		message = "internal server error"
	}
	writeJSON(w, status, messageResponse{Message: message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", entity.ErrInvalidInput)
	}
	return nil
}
