package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wealthtracker/internal/core"
	"wealthtracker/internal/log"
)

// errorResponse is the JSON error envelope. Field is set for validation
// failures so clients can attach the message to a form field.
type errorResponse struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// okResponse acknowledges a successful delete.
type okResponse struct {
	OK bool `json:"ok"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes:
// not found is 404, validation is 422, integrity is 500, an unreachable
// store is 503, anything else is 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var ve *core.ValidationError
	var ie *core.DataIntegrityError

	switch {
	case errors.Is(err, core.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})
	case errors.As(err, &ve):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: ve.Reason, Field: ve.Field})
	case errors.As(err, &ie):
		log.FromContext(ctx).ErrorContext(ctx, "Data integrity violation",
			log.FieldEntity, ie.Entity,
			log.FieldEntityID, ie.ID,
			"reason", ie.Reason)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Detail: ie.Error()})
	case errors.Is(err, core.ErrStoreUnavailable):
		log.FromContext(ctx).ErrorContext(ctx, "Store unavailable", log.FieldError, err)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "store unavailable"})
	default:
		log.FromContext(ctx).ErrorContext(ctx, "Request failed", log.FieldError, err, log.FieldPath, r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}
