package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stanleypangg/dear-applicant/internal/models"
)

// okBody is the payload-less success response.
type okBody struct {
	OK bool `json:"ok"`
}

// errorBody is the structured error envelope clients render inline.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

// writeError maps the service error taxonomy onto HTTP: validation is
// 400, not-found (including not-owned) is 404, anything else is a 500
// with the detail kept out of the response.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Message})
		return
	}
	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundErr.Message})
		return
	}
	slog.Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
