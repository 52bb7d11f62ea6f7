package domain

import (
	"errors"
	"fmt"
)

// Entity kinds used in not-found errors.
const (
	KindUser    = "user"
	KindItem    = "item"
	KindBooking = "booking"
	KindRequest = "request"
)

var (
	// ErrUnauthorized means the actor exists but may not perform the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrItemNotAvailable means the item's availability flag is off.
	ErrItemNotAvailable = errors.New("item not available")

	// ErrDuplicateEmail means the email is already taken by another user.
	ErrDuplicateEmail = errors.New("email already exists")
)

// NotFoundError identifies a missing entity by kind and id. Some authorization
// failures deliberately reuse it so that callers cannot probe ownership.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func NewNotFound(kind string, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is a NotFoundError of any kind.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError reports caller input that fails a precondition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidation(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
