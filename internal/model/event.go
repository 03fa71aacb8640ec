package model

import "time"

// EventType decides how new enrollments are admitted.
type EventType string

const (
	// FCFS auto-accepts enrollments in arrival order until the limit.
	FCFS EventType = "FCFS"
	// Confirmative requires the organizer to accept each enrollment.
	Confirmative EventType = "CONFIRMATIVE"
)

// EnrollmentStatus is an account's standing on one event.
type EnrollmentStatus string

const (
	StatusNotEnrolled EnrollmentStatus = "NOT_ENROLLED"
	StatusWaiting     EnrollmentStatus = "WAITING"
	StatusAccepted    EnrollmentStatus = "ACCEPTED"
	StatusAttended    EnrollmentStatus = "ATTENDED"
)

// Event is a scheduled activity under a study with a capacity-limited
// enrollment set. Enrollments are always loaded in enrollment order
// (enrolled_at ascending, id as tie-break); that order drives FCFS
// admission and waitlist promotion.
type Event struct {
	ID                    string    `json:"id"`
	StudyID               string    `json:"study_id"`
	CreatedBy             string    `json:"created_by"`
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	EventType             EventType `json:"event_type"`
	LimitOfEnrollments    int       `json:"limit_of_enrollments"`
	CreateDateTime        time.Time `json:"create_date_time"`
	EndEnrollmentDateTime time.Time `json:"end_enrollment_date_time"`
	StartDateTime         time.Time `json:"start_date_time"`
	EndDateTime           time.Time `json:"end_date_time"`

	Enrollments []Enrollment `json:"enrollments"`
}

// Enrollment is one account's claim on a seat in an event, either waiting
// (accepted == false) or holding a confirmed seat.
type Enrollment struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	AccountID  string    `json:"account_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Accepted   bool      `json:"accepted"`
	Attended   bool      `json:"attended"`
}

// AcceptedCount returns the number of confirmed seats currently taken.
func (e *Event) AcceptedCount() int {
	n := 0
	for i := range e.Enrollments {
		if e.Enrollments[i].Accepted {
			n++
		}
	}
	return n
}

// RemainingSpots returns the number of free confirmed seats.
func (e *Event) RemainingSpots() int {
	return e.LimitOfEnrollments - e.AcceptedCount()
}

// IsOpenForEnrollment reports whether join/leave actions are still allowed.
func (e *Event) IsOpenForEnrollment(now time.Time) bool {
	return now.Before(e.EndEnrollmentDateTime)
}

// IsEnrollableFor reports whether the account may enroll now: the window is
// open and the account holds no enrollment on this event yet.
func (e *Event) IsEnrollableFor(accountID string, now time.Time) bool {
	return e.IsOpenForEnrollment(now) && e.EnrollmentFor(accountID) == nil
}

// IsDisenrollableFor reports whether the account may leave now: the window
// is open and the account holds an enrollment on this event.
func (e *Event) IsDisenrollableFor(accountID string, now time.Time) bool {
	return e.IsOpenForEnrollment(now) && e.EnrollmentFor(accountID) != nil
}

// EnrollmentFor returns the account's enrollment on this event, or nil.
func (e *Event) EnrollmentFor(accountID string) *Enrollment {
	for i := range e.Enrollments {
		if e.Enrollments[i].AccountID == accountID {
			return &e.Enrollments[i]
		}
	}
	return nil
}

// EnrollmentByID returns the enrollment with the given id, or nil if it does
// not belong to this event.
func (e *Event) EnrollmentByID(id string) *Enrollment {
	for i := range e.Enrollments {
		if e.Enrollments[i].ID == id {
			return &e.Enrollments[i]
		}
	}
	return nil
}

// OldestWaiting returns the longest-waiting unaccepted enrollment, or nil.
// Enrollments are kept in enrollment order, so the first unaccepted one wins.
func (e *Event) OldestWaiting() *Enrollment {
	for i := range e.Enrollments {
		if !e.Enrollments[i].Accepted {
			return &e.Enrollments[i]
		}
	}
	return nil
}

// StatusFor projects the account's standing from the enrollment collection.
func (e *Event) StatusFor(accountID string) EnrollmentStatus {
	enr := e.EnrollmentFor(accountID)
	switch {
	case enr == nil:
		return StatusNotEnrolled
	case enr.Attended:
		return StatusAttended
	case enr.Accepted:
		return StatusAccepted
	default:
		return StatusWaiting
	}
}
