// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password; the two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotManager is returned when a study-management action comes from an
// account that does not manage the study.
var ErrNotManager = errors.New("account does not manage this study")

// ErrNotOrganizer is returned when accept/reject comes from an account that
// did not create the event.
var ErrNotOrganizer = errors.New("account did not create this event")

// ErrNotMember is returned when enroll/disenroll comes from an account that
// does not belong to the event's study.
var ErrNotMember = errors.New("account does not belong to this study")

// ErrNotJoinable is returned when the study is not open for new members or
// the account already belongs to it.
var ErrNotJoinable = errors.New("study is not joinable for this account")

// ErrStudyNotPublished is returned when creating an event under an
// unpublished study.
var ErrStudyNotPublished = errors.New("study is not published")

// ErrStudyClosed is returned when creating an event under a closed study.
var ErrStudyClosed = errors.New("study is closed")
