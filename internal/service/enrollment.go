package service

import (
	"context"
	"time"

	"studyhub/internal/model"
)

// AdmissionEngine is the admission surface the enrollment service needs.
type AdmissionEngine interface {
	Enroll(ctx context.Context, eventID, accountID string, now time.Time) (*model.Enrollment, error)
	Disenroll(ctx context.Context, eventID, accountID string, now time.Time) error
	Accept(ctx context.Context, eventID, enrollmentID string) error
	Reject(ctx context.Context, eventID, enrollmentID string) error
}

// StudyReader resolves an event's study for the membership check.
type StudyReader interface {
	GetByID(ctx context.Context, id string) (*model.Study, error)
}

// EnrollmentService fronts the admission engine, adding the authorization
// the engine itself does not know about: enroll/disenroll require study
// membership, accept/reject require the event's organizer.
type EnrollmentService struct {
	events  EventStore
	studies StudyReader
	engine  AdmissionEngine
	now     func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(events EventStore, studies StudyReader, engine AdmissionEngine) *EnrollmentService {
	return &EnrollmentService{
		events:  events,
		studies: studies,
		engine:  engine,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enroll enrolls the calling account in the event.
func (s *EnrollmentService) Enroll(ctx context.Context, eventID, accountID string) (*model.Enrollment, error) {
	if err := s.requireMember(ctx, eventID, accountID); err != nil {
		return nil, err
	}
	return s.engine.Enroll(ctx, eventID, accountID, s.now())
}

// Disenroll removes the calling account's enrollment.
func (s *EnrollmentService) Disenroll(ctx context.Context, eventID, accountID string) error {
	if err := s.requireMember(ctx, eventID, accountID); err != nil {
		return err
	}
	return s.engine.Disenroll(ctx, eventID, accountID, s.now())
}

// Accept confirms a waiting enrollment on the organizer's behalf.
func (s *EnrollmentService) Accept(ctx context.Context, eventID, enrollmentID, requesterID string) error {
	if err := s.requireOrganizer(ctx, eventID, requesterID); err != nil {
		return err
	}
	return s.engine.Accept(ctx, eventID, enrollmentID)
}

// Reject removes an enrollment on the organizer's behalf.
func (s *EnrollmentService) Reject(ctx context.Context, eventID, enrollmentID, requesterID string) error {
	if err := s.requireOrganizer(ctx, eventID, requesterID); err != nil {
		return err
	}
	return s.engine.Reject(ctx, eventID, enrollmentID)
}

func (s *EnrollmentService) requireMember(ctx context.Context, eventID, accountID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	study, err := s.studies.GetByID(ctx, event.StudyID)
	if err != nil {
		return err
	}
	if !study.IsMember(accountID) && !study.IsManager(accountID) {
		return ErrNotMember
	}
	return nil
}

func (s *EnrollmentService) requireOrganizer(ctx context.Context, eventID, requesterID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatedBy != requesterID {
		return ErrNotOrganizer
	}
	return nil
}
