package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub/internal/model"
)

// EventRepository handles persistence for events and their read queries.
// All enrollment mutation goes through the AdmissionStore instead.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, studyID, createdBy string, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		ID:                    uuid.New().String(),
		StudyID:               studyID,
		CreatedBy:             createdBy,
		Title:                 req.Title,
		Description:           req.Description,
		EventType:             req.EventType,
		LimitOfEnrollments:    req.LimitOfEnrollments,
		CreateDateTime:        time.Now().UTC(),
		EndEnrollmentDateTime: req.EndEnrollmentDateTime,
		StartDateTime:         req.StartDateTime,
		EndDateTime:           req.EndDateTime,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, study_id, created_by, title, description, event_type,
		                     limit_of_enrollments, create_date_time, end_enrollment_date_time,
		                     start_date_time, end_date_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.StudyID, event.CreatedBy, event.Title, event.Description,
		event.EventType, event.LimitOfEnrollments, event.CreateDateTime,
		event.EndEnrollmentDateTime, event.StartDateTime, event.EndDateTime,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// GetByID returns an event with its enrollments loaded in enrollment order,
// or ErrNotFound. This is the unlocked read path; the admission store does
// its own locked load.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	event, err := scanEvent(ctx, r.db, id, false)
	if err != nil {
		return nil, err
	}
	if event.Enrollments, err = scanEnrollments(ctx, r.db, id); err != nil {
		return nil, err
	}
	return event, nil
}

// ListByStudy returns a study's events ordered by start time ascending,
// without enrollments loaded.
func (r *EventRepository) ListByStudy(ctx context.Context, studyID string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		eventColumns+` FROM events WHERE study_id = $1 ORDER BY start_date_time ASC`,
		studyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.StudyID, &e.CreatedBy, &e.Title, &e.Description,
			&e.EventType, &e.LimitOfEnrollments, &e.CreateDateTime,
			&e.EndEnrollmentDateTime, &e.StartDateTime, &e.EndDateTime); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const eventColumns = `SELECT id, study_id, created_by, title, description, event_type,
       limit_of_enrollments, create_date_time, end_enrollment_date_time,
       start_date_time, end_date_time`

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanEvent loads one event row, optionally taking the row lock that
// serializes admission operations on the event.
func scanEvent(ctx context.Context, q querier, id string, forUpdate bool) (*model.Event, error) {
	query := eventColumns + ` FROM events WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var e model.Event
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.StudyID, &e.CreatedBy, &e.Title, &e.Description,
		&e.EventType, &e.LimitOfEnrollments, &e.CreateDateTime,
		&e.EndEnrollmentDateTime, &e.StartDateTime, &e.EndDateTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// scanEnrollments loads an event's enrollments in enrollment order. The id
// tie-break keeps the order deterministic for equal timestamps.
func scanEnrollments(ctx context.Context, q querier, eventID string) ([]model.Enrollment, error) {
	rows, err := q.Query(ctx,
		`SELECT id, event_id, account_id, enrolled_at, accepted, attended
		 FROM enrollments
		 WHERE event_id = $1
		 ORDER BY enrolled_at ASC, id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var enr model.Enrollment
		if err := rows.Scan(&enr.ID, &enr.EventID, &enr.AccountID,
			&enr.EnrolledAt, &enr.Accepted, &enr.Attended); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enr)
	}
	return enrollments, rows.Err()
}
