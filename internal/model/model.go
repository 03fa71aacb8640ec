// Package model defines the core domain types for the study-group service.
package model

import "time"

// Account is a registered user. The password hash never leaves the server.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Study is a study group. It owns events and carries the lifecycle flags
// that gate event creation and member joining.
type Study struct {
	ID               string     `json:"id"`
	Path             string     `json:"path"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	FullDescription  string     `json:"full_description"`
	Recruiting       bool       `json:"recruiting"`
	Published        bool       `json:"published"`
	Closed           bool       `json:"closed"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Account ids, loaded with the study.
	Managers []string `json:"managers"`
	Members  []string `json:"members"`
}

// IsManager reports whether the account manages this study.
func (s *Study) IsManager(accountID string) bool {
	return contains(s.Managers, accountID)
}

// IsMember reports whether the account is a plain member of this study.
func (s *Study) IsMember(accountID string) bool {
	return contains(s.Members, accountID)
}

// IsJoinable reports whether the account may join the study as a member.
func (s *Study) IsJoinable(accountID string) bool {
	return s.Published && s.Recruiting && !s.Closed &&
		!s.IsMember(accountID) && !s.IsManager(accountID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ─── Request / response payloads ─────────────────────────────────────────────

// SignUpRequest is the payload for creating an account.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

// LoginRequest is the payload for obtaining a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateStudyRequest is the payload for creating a study.
type CreateStudyRequest struct {
	Path             string `json:"path" validate:"required,min=2,max=20"`
	Title            string `json:"title" validate:"required,max=50"`
	ShortDescription string `json:"short_description" validate:"max=100"`
	FullDescription  string `json:"full_description"`
}

// CreateEventRequest is the payload for creating an event under a study.
// Date ordering is checked separately by the service.
type CreateEventRequest struct {
	Title                 string    `json:"title" validate:"required,max=50"`
	Description           string    `json:"description"`
	EventType             EventType `json:"event_type" validate:"required,oneof=FCFS CONFIRMATIVE"`
	LimitOfEnrollments    int       `json:"limit_of_enrollments" validate:"required,min=2"`
	EndEnrollmentDateTime time.Time `json:"end_enrollment_date_time" validate:"required"`
	StartDateTime         time.Time `json:"start_date_time" validate:"required"`
	EndDateTime           time.Time `json:"end_date_time" validate:"required"`
}

// EventResponse is the read projection of an event: the event itself plus
// the derived seat count and, when the caller is known, their status.
type EventResponse struct {
	Event          *Event           `json:"event"`
	RemainingSpots int              `json:"remaining_spots"`
	MyStatus       EnrollmentStatus `json:"my_status,omitempty"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
