// Package notification carries admission-engine state transitions to their
// recipients. The engine hands notifications to a Sink after commit; a
// worker drains the queue and delivers each one through a Mailer. Delivery
// is at-least-once and never affects an admission decision already made.
package notification

import (
	"context"
	"time"

	"studyhub/internal/model"
)

// Kind identifies the admission transition being announced.
type Kind string

const (
	EnrollmentAccepted Kind = "enrollment_accepted"
	EnrollmentPending  Kind = "enrollment_pending"
	EnrollmentRejected Kind = "enrollment_rejected"
	Disenrolled        Kind = "disenrolled"
)

// Notification is one message to one account about one event.
type Notification struct {
	Kind       Kind      `json:"kind"`
	AccountID  string    `json:"account_id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// New builds a notification for the given transition.
func New(kind Kind, accountID string, ev *model.Event) Notification {
	return Notification{
		Kind:       kind,
		AccountID:  accountID,
		EventID:    ev.ID,
		EventTitle: ev.Title,
		CreatedAt:  time.Now().UTC(),
	}
}

// Subject renders the human-readable headline for the notification.
func (n Notification) Subject() string {
	switch n.Kind {
	case EnrollmentAccepted:
		return "Your enrollment for " + n.EventTitle + " has been accepted"
	case EnrollmentPending:
		return "Your enrollment for " + n.EventTitle + " is waiting for a spot"
	case EnrollmentRejected:
		return "Your enrollment for " + n.EventTitle + " has been rejected"
	case Disenrolled:
		return "You have left " + n.EventTitle
	default:
		return "Update on " + n.EventTitle
	}
}

// Sink receives notifications for downstream delivery. Implementations must
// be fast and safe for concurrent use; callers do not await delivery.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Mailer performs the final delivery of one notification.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}
