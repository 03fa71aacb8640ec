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

// StudyRepository handles persistence for studies and their memberships.
type StudyRepository struct {
	db *pgxpool.Pool
}

// NewStudyRepository constructs a StudyRepository.
func NewStudyRepository(db *pgxpool.Pool) *StudyRepository {
	return &StudyRepository{db: db}
}

// Create inserts a new study with the creator as its first manager. Both
// rows go in one transaction so a study never exists without a manager.
func (r *StudyRepository) Create(ctx context.Context, req model.CreateStudyRequest, creatorID string) (*model.Study, error) {
	study := &model.Study{
		ID:               uuid.New().String(),
		Path:             req.Path,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		CreatedAt:        time.Now().UTC(),
		Managers:         []string{creatorID},
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO studies (id, path, title, short_description, full_description,
		                      recruiting, published, closed, created_at)
		 VALUES ($1, $2, $3, $4, $5, false, false, false, $6)`,
		study.ID, study.Path, study.Title, study.ShortDescription, study.FullDescription, study.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			err = ErrDuplicate
			return nil, err
		}
		return nil, fmt.Errorf("insert study: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO study_managers (study_id, account_id) VALUES ($1, $2)`,
		study.ID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert study manager: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return study, nil
}

// GetByPath returns a study with its manager and member ids loaded.
func (r *StudyRepository) GetByPath(ctx context.Context, path string) (*model.Study, error) {
	return r.getBy(ctx, "path", path)
}

// GetByID returns a study with its manager and member ids loaded.
func (r *StudyRepository) GetByID(ctx context.Context, id string) (*model.Study, error) {
	return r.getBy(ctx, "id", id)
}

func (r *StudyRepository) getBy(ctx context.Context, column, value string) (*model.Study, error) {
	var s model.Study
	err := r.db.QueryRow(ctx,
		`SELECT id, path, title, short_description, full_description,
		        recruiting, published, closed, published_at, closed_at, created_at
		 FROM studies WHERE `+column+` = $1`,
		value,
	).Scan(&s.ID, &s.Path, &s.Title, &s.ShortDescription, &s.FullDescription,
		&s.Recruiting, &s.Published, &s.Closed, &s.PublishedAt, &s.ClosedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get study: %w", err)
	}

	if s.Managers, err = r.memberIDs(ctx, "study_managers", s.ID); err != nil {
		return nil, err
	}
	if s.Members, err = r.memberIDs(ctx, "study_members", s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudyRepository) memberIDs(ctx context.Context, table, studyID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT account_id FROM `+table+` WHERE study_id = $1`, studyID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddMember records a study membership.
func (r *StudyRepository) AddMember(ctx context.Context, studyID, accountID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO study_members (study_id, account_id) VALUES ($1, $2)`,
		studyID, accountID,
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert study member: %w", err)
	}
	return nil
}

// Publish marks the study published.
func (r *StudyRepository) Publish(ctx context.Context, studyID string) error {
	return r.setFlags(ctx,
		`UPDATE studies SET published = true, published_at = $2 WHERE id = $1`,
		studyID, time.Now().UTC())
}

// Close marks the study closed; closed studies accept no new events.
func (r *StudyRepository) Close(ctx context.Context, studyID string) error {
	return r.setFlags(ctx,
		`UPDATE studies SET closed = true, recruiting = false, closed_at = $2 WHERE id = $1`,
		studyID, time.Now().UTC())
}

// SetRecruiting toggles member recruiting.
func (r *StudyRepository) SetRecruiting(ctx context.Context, studyID string, recruiting bool) error {
	return r.setFlags(ctx,
		`UPDATE studies SET recruiting = $2 WHERE id = $1`,
		studyID, recruiting)
}

func (r *StudyRepository) setFlags(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update study: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
