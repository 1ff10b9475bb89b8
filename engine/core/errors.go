package core

import (
	"errors"
	"fmt"
	"time"
)

// Domain error taxonomy. Routers translate these into HTTP statuses;
// use-case and repository code only ever wraps them.
var (
	// ErrUnauthenticated means no valid credential accompanied the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the credential is valid but lacks rights to the resource.
	ErrForbidden = errors.New("not authorized")
	// ErrNotFound means the referenced resource id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken means a booking overlaps an existing one for the same room.
	ErrSlotTaken = errors.New("already booked")
	// ErrInvalidInput means a request parameter failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidFilter means a list filter parameter failed validation.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnavailable means the store or another dependency failed; the
	// request may be retried by the caller.
	ErrUnavailable = errors.New("service unavailable")
)

// SlotTakenError reports the room and window that collided. It unwraps to
// ErrSlotTaken so callers can match with errors.Is.
type SlotTakenError struct {
	RoomID ID
	Start  time.Time
	End    time.Time
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("room %s is already booked between %s and %s",
		e.RoomID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *SlotTakenError) Unwrap() error {
	return ErrSlotTaken
}

// InvalidFieldError names the request field that failed validation. It
// unwraps to the provided sentinel (ErrInvalidInput or ErrInvalidFilter).
type InvalidFieldError struct {
	Field  string
	Reason string
	Kind   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Kind
}

// NewInvalidInput reports a malformed request parameter.
func NewInvalidInput(field, reason string) error {
	return &InvalidFieldError{Field: field, Reason: reason, Kind: ErrInvalidInput}
}

// NewInvalidFilter reports a malformed list filter parameter.
func NewInvalidFilter(field, reason string) error {
	return &InvalidFieldError{Field: field, Reason: reason, Kind: ErrInvalidFilter}
}
