package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyhub/internal/admission"
	"studyhub/internal/model"
)

// AdmissionStore implements admission.Store on Postgres.
//
// Concurrency contract: two concurrent admission operations on the same
// event must never both read a stale accepted count and both commit an
// accept past the limit. A naive read-then-write lets exactly that happen —
// both transactions see the same snapshot before either writes back.
//
// UpdateEvent therefore locks the event row with SELECT ... FOR UPDATE
// before loading the enrollment set. Any concurrent UpdateEvent on the same
// event blocks on that lock until this transaction commits or rolls back,
// so reads, the decision, and the writes form one serialized unit per
// event. Operations on different events do not contend.
type AdmissionStore struct {
	db *pgxpool.Pool
}

// NewAdmissionStore constructs an AdmissionStore.
func NewAdmissionStore(db *pgxpool.Pool) *AdmissionStore {
	return &AdmissionStore{db: db}
}

// UpdateEvent implements admission.Store.
func (s *AdmissionStore) UpdateEvent(ctx context.Context, eventID string, fn func(*model.Event) (*admission.Changeset, error)) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the event row first; every other admission operation on this
	// event queues up behind it.
	event, err := scanEvent(ctx, tx, eventID, true)
	if err != nil {
		return err
	}
	if event.Enrollments, err = scanEnrollments(ctx, tx, eventID); err != nil {
		return err
	}

	cs, err := fn(event)
	if err != nil {
		return err
	}
	if cs != nil {
		if err = s.apply(ctx, tx, cs); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// apply persists the changeset inside the open transaction. Removals run
// before accepts so a freed seat exists before its promotion commits.
func (s *AdmissionStore) apply(ctx context.Context, tx pgx.Tx, cs *admission.Changeset) error {
	for _, enr := range cs.Insert {
		_, err := tx.Exec(ctx,
			`INSERT INTO enrollments (id, event_id, account_id, enrolled_at, accepted, attended)
			 VALUES ($1, $2, $3, $4, $5, false)`,
			enr.ID, enr.EventID, enr.AccountID, enr.EnrolledAt, enr.Accepted,
		)
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert enrollment: %w", err)
		}
	}
	for _, id := range cs.Remove {
		if _, err := tx.Exec(ctx,
			`DELETE FROM enrollments WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete enrollment: %w", err)
		}
	}
	for _, id := range cs.Accept {
		if _, err := tx.Exec(ctx,
			`UPDATE enrollments SET accepted = true WHERE id = $1`, id); err != nil {
			return fmt.Errorf("accept enrollment: %w", err)
		}
	}
	return nil
}
