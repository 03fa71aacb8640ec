package service

import (
	"context"
	"fmt"
	"strings"

	"studyhub/internal/model"
)

// StudyStore is the persistence surface the study service needs.
type StudyStore interface {
	Create(ctx context.Context, req model.CreateStudyRequest, creatorID string) (*model.Study, error)
	GetByPath(ctx context.Context, path string) (*model.Study, error)
	AddMember(ctx context.Context, studyID, accountID string) error
	Publish(ctx context.Context, studyID string) error
	Close(ctx context.Context, studyID string) error
	SetRecruiting(ctx context.Context, studyID string, recruiting bool) error
}

// StudyService handles study lifecycle and membership.
type StudyService struct {
	studies StudyStore
}

// NewStudyService constructs a StudyService.
func NewStudyService(studies StudyStore) *StudyService {
	return &StudyService{studies: studies}
}

// Create validates the request and creates the study with the caller as its
// first manager.
func (s *StudyService) Create(ctx context.Context, accountID string, req model.CreateStudyRequest) (*model.Study, error) {
	req.Path = strings.TrimSpace(strings.ToLower(req.Path))
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid study form: %w", err)
	}
	return s.studies.Create(ctx, req, accountID)
}

// Get returns a study by its path.
func (s *StudyService) Get(ctx context.Context, path string) (*model.Study, error) {
	return s.studies.GetByPath(ctx, path)
}

// Join adds the account as a member of a recruiting, published study.
func (s *StudyService) Join(ctx context.Context, path, accountID string) error {
	study, err := s.studies.GetByPath(ctx, path)
	if err != nil {
		return err
	}
	if !study.IsJoinable(accountID) {
		return ErrNotJoinable
	}
	return s.studies.AddMember(ctx, study.ID, accountID)
}

// Publish makes the study visible; only managers may do so.
func (s *StudyService) Publish(ctx context.Context, path, accountID string) error {
	study, err := s.managedStudy(ctx, path, accountID)
	if err != nil {
		return err
	}
	return s.studies.Publish(ctx, study.ID)
}

// CloseStudy ends the study; only managers may do so.
func (s *StudyService) CloseStudy(ctx context.Context, path, accountID string) error {
	study, err := s.managedStudy(ctx, path, accountID)
	if err != nil {
		return err
	}
	return s.studies.Close(ctx, study.ID)
}

// SetRecruiting toggles member recruiting; only managers may do so.
func (s *StudyService) SetRecruiting(ctx context.Context, path, accountID string, recruiting bool) error {
	study, err := s.managedStudy(ctx, path, accountID)
	if err != nil {
		return err
	}
	return s.studies.SetRecruiting(ctx, study.ID, recruiting)
}

func (s *StudyService) managedStudy(ctx context.Context, path, accountID string) (*model.Study, error) {
	study, err := s.studies.GetByPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if !study.IsManager(accountID) {
		return nil, ErrNotManager
	}
	return study, nil
}

// gateEventCreation decides whether the account may create an event under
// the study: the study must be published and not closed, and the account
// must be a manager.
func gateEventCreation(study *model.Study, accountID string) error {
	switch {
	case study.Closed:
		return ErrStudyClosed
	case !study.Published:
		return ErrStudyNotPublished
	case !study.IsManager(accountID):
		return ErrNotManager
	}
	return nil
}
