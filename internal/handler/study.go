package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/model"
	"studyhub/internal/service"
)

// StudyHandler holds all HTTP handlers for studies.
type StudyHandler struct {
	svc *service.StudyService
}

// NewStudyHandler constructs a StudyHandler.
func NewStudyHandler(svc *service.StudyService) *StudyHandler {
	return &StudyHandler{svc: svc}
}

// Create handles POST /studies
func (h *StudyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStudyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	study, err := h.svc.Create(r.Context(), AccountID(r.Context()), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, study)
}

// Get handles GET /studies/{path}
func (h *StudyHandler) Get(w http.ResponseWriter, r *http.Request) {
	study, err := h.svc.Get(r.Context(), chi.URLParam(r, "path"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, study)
}

// Join handles POST /studies/{path}/join
func (h *StudyHandler) Join(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Join(r.Context(), chi.URLParam(r, "path"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /studies/{path}/publish
func (h *StudyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.manage(w, r, h.svc.Publish)
}

// Close handles POST /studies/{path}/close
func (h *StudyHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.manage(w, r, h.svc.CloseStudy)
}

// StartRecruiting handles POST /studies/{path}/recruit/start
func (h *StudyHandler) StartRecruiting(w http.ResponseWriter, r *http.Request) {
	h.setRecruiting(w, r, true)
}

// StopRecruiting handles POST /studies/{path}/recruit/stop
func (h *StudyHandler) StopRecruiting(w http.ResponseWriter, r *http.Request) {
	h.setRecruiting(w, r, false)
}

func (h *StudyHandler) manage(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, path, accountID string) error) {
	err := op(r.Context(), chi.URLParam(r, "path"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudyHandler) setRecruiting(w http.ResponseWriter, r *http.Request, recruiting bool) {
	err := h.svc.SetRecruiting(r.Context(), chi.URLParam(r, "path"), AccountID(r.Context()), recruiting)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
