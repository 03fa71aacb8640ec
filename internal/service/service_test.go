package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/auth"
	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// ─── Stubs ────────────────────────────────────────────────────────────────────

type stubStudyStore struct {
	study      *model.Study
	members    []string
	published  bool
	closed     bool
	recruiting *bool
}

func (s *stubStudyStore) Create(_ context.Context, req model.CreateStudyRequest, creatorID string) (*model.Study, error) {
	return &model.Study{ID: "study-1", Path: req.Path, Title: req.Title, Managers: []string{creatorID}}, nil
}

func (s *stubStudyStore) GetByPath(_ context.Context, path string) (*model.Study, error) {
	if s.study == nil || s.study.Path != path {
		return nil, repository.ErrNotFound
	}
	return s.study, nil
}

func (s *stubStudyStore) GetByID(_ context.Context, id string) (*model.Study, error) {
	if s.study == nil || s.study.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.study, nil
}

func (s *stubStudyStore) AddMember(_ context.Context, _, accountID string) error {
	s.members = append(s.members, accountID)
	return nil
}

func (s *stubStudyStore) Publish(_ context.Context, _ string) error { s.published = true; return nil }
func (s *stubStudyStore) Close(_ context.Context, _ string) error   { s.closed = true; return nil }
func (s *stubStudyStore) SetRecruiting(_ context.Context, _ string, recruiting bool) error {
	s.recruiting = &recruiting
	return nil
}

type stubEventStore struct {
	event   *model.Event
	created *model.CreateEventRequest
}

func (s *stubEventStore) Create(_ context.Context, studyID, createdBy string, req model.CreateEventRequest) (*model.Event, error) {
	s.created = &req
	return &model.Event{ID: "evt-1", StudyID: studyID, CreatedBy: createdBy, Title: req.Title}, nil
}

func (s *stubEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	if s.event == nil || s.event.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.event, nil
}

func (s *stubEventStore) ListByStudy(_ context.Context, _ string) ([]model.Event, error) {
	if s.event == nil {
		return nil, nil
	}
	return []model.Event{*s.event}, nil
}

type stubEngine struct {
	accepted []string
	rejected []string
}

func (e *stubEngine) Enroll(_ context.Context, eventID, accountID string, _ time.Time) (*model.Enrollment, error) {
	return &model.Enrollment{ID: "enr-1", EventID: eventID, AccountID: accountID}, nil
}
func (e *stubEngine) Disenroll(_ context.Context, _, _ string, _ time.Time) error { return nil }
func (e *stubEngine) Accept(_ context.Context, _, enrollmentID string) error {
	e.accepted = append(e.accepted, enrollmentID)
	return nil
}
func (e *stubEngine) Reject(_ context.Context, _, enrollmentID string) error {
	e.rejected = append(e.rejected, enrollmentID)
	return nil
}

// ─── Fixtures ─────────────────────────────────────────────────────────────────

var svcNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func publishedStudy() *model.Study {
	return &model.Study{
		ID:         "study-1",
		Path:       "golang",
		Published:  true,
		Recruiting: true,
		Managers:   []string{"mgr"},
		Members:    []string{"member"},
	}
}

func validEventRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:                 "weekly session",
		EventType:             model.FCFS,
		LimitOfEnrollments:    5,
		EndEnrollmentDateTime: svcNow.Add(24 * time.Hour),
		StartDateTime:         svcNow.Add(48 * time.Hour),
		EndDateTime:           svcNow.Add(50 * time.Hour),
	}
}

func newEventService(studies *stubStudyStore, events *stubEventStore) *EventService {
	svc := NewEventService(events, studies)
	svc.now = func() time.Time { return svcNow }
	return svc
}

// ─── Event creation gate ──────────────────────────────────────────────────────

func TestCreateEvent(t *testing.T) {
	studies := &stubStudyStore{study: publishedStudy()}
	events := &stubEventStore{}
	svc := newEventService(studies, events)

	event, err := svc.Create(context.Background(), "golang", "mgr", validEventRequest())
	require.NoError(t, err)
	assert.Equal(t, "study-1", event.StudyID)
	assert.Equal(t, "mgr", event.CreatedBy)
	require.NotNil(t, events.created)
}

func TestCreateEventGate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.Study)
		accountID string
		wantErr   error
	}{
		{"unpublished study", func(s *model.Study) { s.Published = false }, "mgr", ErrStudyNotPublished},
		{"closed study", func(s *model.Study) { s.Closed = true }, "mgr", ErrStudyClosed},
		{"not a manager", func(s *model.Study) {}, "member", ErrNotManager},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			study := publishedStudy()
			tt.mutate(study)
			svc := newEventService(&stubStudyStore{study: study}, &stubEventStore{})

			_, err := svc.Create(context.Background(), "golang", tt.accountID, validEventRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateEventDateChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateEventRequest)
	}{
		{"enrollment deadline in the past", func(r *model.CreateEventRequest) {
			r.EndEnrollmentDateTime = svcNow.Add(-time.Hour)
		}},
		{"start before enrollment closes", func(r *model.CreateEventRequest) {
			r.StartDateTime = r.EndEnrollmentDateTime.Add(-time.Hour)
		}},
		{"end before start", func(r *model.CreateEventRequest) {
			r.EndDateTime = r.StartDateTime.Add(-time.Hour)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newEventService(&stubStudyStore{study: publishedStudy()}, &stubEventStore{})
			req := validEventRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), "golang", "mgr", req)
			assert.Error(t, err)
		})
	}
}

func TestCreateEventRejectsSmallLimit(t *testing.T) {
	svc := newEventService(&stubStudyStore{study: publishedStudy()}, &stubEventStore{})
	req := validEventRequest()
	req.LimitOfEnrollments = 1

	_, err := svc.Create(context.Background(), "golang", "mgr", req)
	assert.Error(t, err)
}

// ─── Study service ────────────────────────────────────────────────────────────

func TestJoinStudy(t *testing.T) {
	studies := &stubStudyStore{study: publishedStudy()}
	svc := NewStudyService(studies)

	require.NoError(t, svc.Join(context.Background(), "golang", "newcomer"))
	assert.Equal(t, []string{"newcomer"}, studies.members)

	assert.ErrorIs(t, svc.Join(context.Background(), "golang", "member"), ErrNotJoinable)
}

func TestStudyManagementRequiresManager(t *testing.T) {
	studies := &stubStudyStore{study: publishedStudy()}
	svc := NewStudyService(studies)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Publish(ctx, "golang", "member"), ErrNotManager)
	assert.ErrorIs(t, svc.CloseStudy(ctx, "golang", "member"), ErrNotManager)
	assert.ErrorIs(t, svc.SetRecruiting(ctx, "golang", "member", true), ErrNotManager)

	require.NoError(t, svc.Publish(ctx, "golang", "mgr"))
	assert.True(t, studies.published)
}

// ─── Enrollment service ───────────────────────────────────────────────────────

func TestEnrollRequiresMembership(t *testing.T) {
	studies := &stubStudyStore{study: publishedStudy()}
	events := &stubEventStore{event: &model.Event{ID: "evt-1", StudyID: "study-1", CreatedBy: "mgr"}}
	engine := &stubEngine{}
	svc := NewEnrollmentService(events, studies, engine)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "evt-1", "stranger")
	assert.ErrorIs(t, err, ErrNotMember)
	assert.ErrorIs(t, svc.Disenroll(ctx, "evt-1", "stranger"), ErrNotMember)

	// Members and managers both pass the gate.
	_, err = svc.Enroll(ctx, "evt-1", "member")
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "evt-1", "mgr")
	require.NoError(t, err)
	require.NoError(t, svc.Disenroll(ctx, "evt-1", "member"))
}

func TestAcceptRequiresOrganizer(t *testing.T) {
	studies := &stubStudyStore{study: publishedStudy()}
	events := &stubEventStore{event: &model.Event{ID: "evt-1", StudyID: "study-1", CreatedBy: "organizer"}}
	engine := &stubEngine{}
	svc := NewEnrollmentService(events, studies, engine)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Accept(ctx, "evt-1", "enr-1", "impostor"), ErrNotOrganizer)
	assert.ErrorIs(t, svc.Reject(ctx, "evt-1", "enr-1", "impostor"), ErrNotOrganizer)
	assert.Empty(t, engine.accepted)
	assert.Empty(t, engine.rejected)

	require.NoError(t, svc.Accept(ctx, "evt-1", "enr-1", "organizer"))
	require.NoError(t, svc.Reject(ctx, "evt-1", "enr-2", "organizer"))
	assert.Equal(t, []string{"enr-1"}, engine.accepted)
	assert.Equal(t, []string{"enr-2"}, engine.rejected)
}

// ─── Account service ──────────────────────────────────────────────────────────

type stubAccountStore struct {
	account *model.Account
}

func (s *stubAccountStore) Create(_ context.Context, email, nickname, passwordHash string) (*model.Account, error) {
	if s.account != nil {
		return nil, repository.ErrDuplicate
	}
	s.account = &model.Account{ID: "acct-1", Email: email, Nickname: nickname, PasswordHash: passwordHash}
	return s.account, nil
}

func (s *stubAccountStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if s.account == nil || s.account.Email != email {
		return nil, repository.ErrNotFound
	}
	return s.account, nil
}

func (s *stubAccountStore) GetByID(_ context.Context, _ string) (*model.Account, error) {
	return s.account, nil
}

func TestSignUpAndLogin(t *testing.T) {
	store := &stubAccountStore{}
	tokens := auth.NewTokenManager("secret", time.Hour)
	svc := NewAccountService(store, tokens)
	ctx := context.Background()

	acc, err := svc.SignUp(ctx, model.SignUpRequest{
		Email: "Alice@Example.com", Nickname: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", acc.Email, "email is normalized")
	assert.NotEqual(t, "hunter2hunter2", acc.PasswordHash)

	token, err := svc.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	accountID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", accountID)
}

func TestLoginFailures(t *testing.T) {
	store := &stubAccountStore{}
	svc := NewAccountService(store, auth.NewTokenManager("secret", time.Hour))
	ctx := context.Background()

	_, err := svc.SignUp(ctx, model.SignUpRequest{
		Email: "alice@example.com", Nickname: "alice", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	svc := NewAccountService(&stubAccountStore{}, auth.NewTokenManager("secret", time.Hour))

	_, err := svc.SignUp(context.Background(), model.SignUpRequest{
		Email: "not-an-email", Nickname: "alice", Password: "hunter2hunter2",
	})
	assert.Error(t, err)

	_, err = svc.SignUp(context.Background(), model.SignUpRequest{
		Email: "alice@example.com", Nickname: "alice", Password: "short",
	})
	assert.Error(t, err)
}
