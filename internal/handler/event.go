package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/model"
	"studyhub/internal/service"
)

// EventHandler holds all HTTP handlers for events and enrollments.
type EventHandler struct {
	events      *service.EventService
	enrollments *service.EnrollmentService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *service.EventService, enrollments *service.EnrollmentService) *EventHandler {
	return &EventHandler{events: events, enrollments: enrollments}
}

// Create handles POST /studies/{path}/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.Create(r.Context(), chi.URLParam(r, "path"), AccountID(r.Context()), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// Get handles GET /events/{id}
// With a valid bearer token the response includes the caller's status.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.events.Get(r.Context(), chi.URLParam(r, "id"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListByStudy handles GET /studies/{path}/events
func (h *EventHandler) ListByStudy(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListByStudy(r.Context(), chi.URLParam(r, "path"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Enroll handles POST /events/{id}/enroll
func (h *EventHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	enr, err := h.enrollments.Enroll(r.Context(), chi.URLParam(r, "id"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, enr)
}

// Disenroll handles DELETE /events/{id}/enroll
func (h *EventHandler) Disenroll(w http.ResponseWriter, r *http.Request) {
	err := h.enrollments.Disenroll(r.Context(), chi.URLParam(r, "id"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Accept handles POST /events/{id}/enrollments/{enrollmentID}/accept
func (h *EventHandler) Accept(w http.ResponseWriter, r *http.Request) {
	err := h.enrollments.Accept(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "enrollmentID"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reject handles POST /events/{id}/enrollments/{enrollmentID}/reject
func (h *EventHandler) Reject(w http.ResponseWriter, r *http.Request) {
	err := h.enrollments.Reject(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "enrollmentID"), AccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
