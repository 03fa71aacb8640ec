package admission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"studyhub/internal/model"
	"studyhub/internal/notification"
)

// ErrNotEnrollable is returned when the enrollment window has closed or the
// account already holds an enrollment on the event.
var ErrNotEnrollable = errors.New("not enrollable: window closed or already enrolled")

// ErrNotDisenrollable is returned when the enrollment window has closed or
// the account holds no enrollment on the event.
var ErrNotDisenrollable = errors.New("not disenrollable: window closed or not enrolled")

// ErrCapacityExceeded is returned when the organizer tries to accept into a
// full event.
var ErrCapacityExceeded = errors.New("event has no free spot")

// ErrNotConfirmative is returned when manual acceptance is attempted on an
// FCFS event; FCFS seats are assigned by the engine alone.
var ErrNotConfirmative = errors.New("manual acceptance applies only to confirmative events")

// ErrAlreadyAccepted is returned when accepting an enrollment that already
// holds a confirmed seat.
var ErrAlreadyAccepted = errors.New("enrollment is already accepted")

// ErrEnrollmentNotFound is returned when the enrollment does not belong to
// the event.
var ErrEnrollmentNotFound = errors.New("enrollment not found on this event")

// ErrCapacityInvariant signals that applying a changeset would push the
// accepted count past the event limit. It indicates a broken isolation
// contract, not a user error, and aborts the transaction.
var ErrCapacityInvariant = errors.New("accepted enrollments would exceed event limit")

// Changeset is the set of enrollment mutations one engine operation wants
// persisted. The store applies it inside the same transaction that loaded
// the event, so the whole operation commits or nothing does.
type Changeset struct {
	Insert []*model.Enrollment
	Accept []string // enrollment ids to mark accepted
	Remove []string // enrollment ids to delete
}

// Store provides transactional access to one event's enrollment set.
type Store interface {
	// UpdateEvent runs fn inside a transaction holding an exclusive lock on
	// the event row. fn sees the event with its enrollments loaded in
	// enrollment order and returns a changeset applied before commit.
	// Returning an error from fn rolls the transaction back.
	UpdateEvent(ctx context.Context, eventID string, fn func(*model.Event) (*Changeset, error)) error
}

// Engine orchestrates enroll, disenroll, accept and reject against the
// store, applying the capacity policy and promoting waitlisted enrollments
// when a confirmed seat frees up. Notifications are handed to the sink only
// after the transaction commits; delivery failures never undo an admission
// decision.
type Engine struct {
	store Store
	sink  notification.Sink
	log   *logrus.Logger
}

// NewEngine constructs an Engine.
func NewEngine(store Store, sink notification.Sink, log *logrus.Logger) *Engine {
	return &Engine{store: store, sink: sink, log: log}
}

// Enroll creates an enrollment for the account, auto-accepting it when the
// capacity policy allows.
func (e *Engine) Enroll(ctx context.Context, eventID, accountID string, now time.Time) (*model.Enrollment, error) {
	var (
		enr   *model.Enrollment
		notes []notification.Notification
	)
	err := e.store.UpdateEvent(ctx, eventID, func(ev *model.Event) (*Changeset, error) {
		if !ev.IsEnrollableFor(accountID, now) {
			return nil, ErrNotEnrollable
		}
		accepted := ShouldAutoAccept(ev.EventType, ev.AcceptedCount(), ev.LimitOfEnrollments)
		enr = &model.Enrollment{
			ID:         uuid.New().String(),
			EventID:    ev.ID,
			AccountID:  accountID,
			EnrolledAt: now,
			Accepted:   accepted,
		}
		cs := &Changeset{Insert: []*model.Enrollment{enr}}
		kind := notification.EnrollmentPending
		if accepted {
			kind = notification.EnrollmentAccepted
		}
		notes = append(notes, notification.New(kind, accountID, ev))
		return cs, checkCapacity(ev, cs)
	})
	if err != nil {
		return nil, err
	}
	e.emit(ctx, notes)
	return enr, nil
}

// Disenroll removes the account's enrollment. If it held a confirmed seat,
// the longest-waiting enrollment is promoted into the freed spot.
func (e *Engine) Disenroll(ctx context.Context, eventID, accountID string, now time.Time) error {
	var notes []notification.Notification
	err := e.store.UpdateEvent(ctx, eventID, func(ev *model.Event) (*Changeset, error) {
		if !ev.IsDisenrollableFor(accountID, now) {
			return nil, ErrNotDisenrollable
		}
		enr := ev.EnrollmentFor(accountID)
		cs := &Changeset{Remove: []string{enr.ID}}
		notes = append(notes, notification.New(notification.Disenrolled, accountID, ev))
		if enr.Accepted {
			promote(ev, cs, &notes)
		}
		return cs, checkCapacity(ev, cs)
	})
	if err != nil {
		return err
	}
	e.emit(ctx, notes)
	return nil
}

// Accept confirms a waiting enrollment. Organizer action; only valid for
// confirmative events and only while a seat is free.
func (e *Engine) Accept(ctx context.Context, eventID, enrollmentID string) error {
	var notes []notification.Notification
	err := e.store.UpdateEvent(ctx, eventID, func(ev *model.Event) (*Changeset, error) {
		if ev.EventType != model.Confirmative {
			return nil, ErrNotConfirmative
		}
		enr := ev.EnrollmentByID(enrollmentID)
		if enr == nil {
			return nil, ErrEnrollmentNotFound
		}
		if enr.Accepted {
			return nil, ErrAlreadyAccepted
		}
		if !HasFreeSpot(ev.AcceptedCount(), ev.LimitOfEnrollments) {
			return nil, ErrCapacityExceeded
		}
		cs := &Changeset{Accept: []string{enr.ID}}
		notes = append(notes, notification.New(notification.EnrollmentAccepted, enr.AccountID, ev))
		return cs, checkCapacity(ev, cs)
	})
	if err != nil {
		return err
	}
	e.emit(ctx, notes)
	return nil
}

// Reject removes an enrollment on the organizer's behalf, accepted or not.
// Rejecting a confirmed enrollment frees its seat and triggers promotion.
func (e *Engine) Reject(ctx context.Context, eventID, enrollmentID string) error {
	var notes []notification.Notification
	err := e.store.UpdateEvent(ctx, eventID, func(ev *model.Event) (*Changeset, error) {
		enr := ev.EnrollmentByID(enrollmentID)
		if enr == nil {
			return nil, ErrEnrollmentNotFound
		}
		cs := &Changeset{Remove: []string{enr.ID}}
		notes = append(notes, notification.New(notification.EnrollmentRejected, enr.AccountID, ev))
		if enr.Accepted {
			promote(ev, cs, &notes)
		}
		return cs, checkCapacity(ev, cs)
	})
	if err != nil {
		return err
	}
	e.emit(ctx, notes)
	return nil
}

// promote moves the oldest waiting enrollment into a freed seat: at most one
// per vacancy, strictly by enrollment order, for FCFS and confirmative
// events alike.
func promote(ev *model.Event, cs *Changeset, notes *[]notification.Notification) {
	next := ev.OldestWaiting()
	if next == nil {
		return
	}
	cs.Accept = append(cs.Accept, next.ID)
	*notes = append(*notes, notification.New(notification.EnrollmentAccepted, next.AccountID, ev))
}

// checkCapacity recomputes the accepted count as it will stand after the
// changeset and refuses to commit past the limit. Reaching this error means
// the store's locking contract was not honored.
func checkCapacity(ev *model.Event, cs *Changeset) error {
	accepted := make(map[string]bool, len(ev.Enrollments))
	for i := range ev.Enrollments {
		if ev.Enrollments[i].Accepted {
			accepted[ev.Enrollments[i].ID] = true
		}
	}
	for _, id := range cs.Remove {
		delete(accepted, id)
	}
	for _, id := range cs.Accept {
		accepted[id] = true
	}
	n := len(accepted)
	for _, enr := range cs.Insert {
		if enr.Accepted {
			n++
		}
	}
	if n > ev.LimitOfEnrollments {
		return ErrCapacityInvariant
	}
	return nil
}

// emit hands notifications to the sink after commit. Failures are logged
// and dropped; the admission decision already stands.
func (e *Engine) emit(ctx context.Context, notes []notification.Notification) {
	for _, n := range notes {
		if err := e.sink.Notify(ctx, n); err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"kind":    n.Kind,
				"event":   n.EventID,
				"account": n.AccountID,
			}).Warn("notification handoff failed")
		}
	}
}
