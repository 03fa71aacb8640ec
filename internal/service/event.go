package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyhub/internal/model"
)

// EventStore is the persistence surface the event service needs.
type EventStore interface {
	Create(ctx context.Context, studyID, createdBy string, req model.CreateEventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListByStudy(ctx context.Context, studyID string) ([]model.Event, error)
}

// EventService handles event creation and read queries. Enrollment mutation
// belongs to the admission engine, not here.
type EventService struct {
	events  EventStore
	studies StudyStore
	now     func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore, studies StudyStore) *EventService {
	return &EventService{events: events, studies: studies, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates the form and the study gate, then creates the event.
func (s *EventService) Create(ctx context.Context, studyPath, accountID string, req model.CreateEventRequest) (*model.Event, error) {
	study, err := s.studies.GetByPath(ctx, studyPath)
	if err != nil {
		return nil, err
	}
	if err := gateEventCreation(study, accountID); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid event form: %w", err)
	}
	if err := checkEventDates(req, s.now()); err != nil {
		return nil, err
	}

	return s.events.Create(ctx, study.ID, accountID, req)
}

// checkEventDates enforces endEnrollment <= start <= end, all in the future.
func checkEventDates(req model.CreateEventRequest, now time.Time) error {
	if !req.EndEnrollmentDateTime.After(now) {
		return fmt.Errorf("end of enrollment must be in the future")
	}
	if req.StartDateTime.Before(req.EndEnrollmentDateTime) {
		return fmt.Errorf("event must start after enrollment closes")
	}
	if req.EndDateTime.Before(req.StartDateTime) {
		return fmt.Errorf("event must end after it starts")
	}
	return nil
}

// Get returns an event with its derived seat count. When accountID is
// non-empty the caller's enrollment status is included.
func (s *EventService) Get(ctx context.Context, id, accountID string) (*model.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &model.EventResponse{
		Event:          event,
		RemainingSpots: event.RemainingSpots(),
	}
	if accountID != "" {
		resp.MyStatus = event.StatusFor(accountID)
	}
	return resp, nil
}

// ListByStudy returns a study's events.
func (s *EventService) ListByStudy(ctx context.Context, studyPath string) ([]model.Event, error) {
	study, err := s.studies.GetByPath(ctx, studyPath)
	if err != nil {
		return nil, err
	}
	return s.events.ListByStudy(ctx, study.ID)
}
