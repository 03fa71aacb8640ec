// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"studyhub/internal/admission"
	"studyhub/internal/model"
	"studyhub/internal/repository"
	"studyhub/internal/service"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps service and admission errors onto HTTP statuses.
// Unknown errors in mutation paths are treated as bad input.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, admission.ErrNotEnrollable),
		errors.Is(err, admission.ErrNotDisenrollable),
		errors.Is(err, admission.ErrCapacityExceeded),
		errors.Is(err, admission.ErrAlreadyAccepted),
		errors.Is(err, admission.ErrNotConfirmative),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrNotJoinable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, admission.ErrEnrollmentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotManager),
		errors.Is(err, service.ErrNotOrganizer),
		errors.Is(err, service.ErrNotMember):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrStudyNotPublished),
		errors.Is(err, service.ErrStudyClosed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
