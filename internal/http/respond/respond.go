// Package respond writes JSON responses and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
	Field string      `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeReferenced, apperr.CodeDuplicate, apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

// Error writes err as {"error", "code"}. Internal errors are logged and their
// message is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	body := errorResponse{Error: err.Error(), Code: apperr.CodeOf(err)}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body.Error = ve.Error()
		body.Field = ve.Field
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
		)

		body.Error = "internal error"
	}

	JSON(w, status, body)
}

// ID parses the chi URL parameter name as a UUID.
func ID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Invalid(name, "must be a UUID")
	}

	return id, nil
}
