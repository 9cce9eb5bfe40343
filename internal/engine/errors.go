package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engines. All of them are recoverable
// business outcomes for the caller to handle; none are retried internally.
var (
	ErrInvalidWindow      = errors.New("invalid time window")
	ErrRoomClosed         = errors.New("room is closed")
	ErrSlotConflict       = errors.New("time slot conflict")
	ErrBookingConflict    = errors.New("booking conflict")
	ErrEmptyTitle         = errors.New("title must not be blank")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyRegistered  = errors.New("guest already registered")
	ErrOutsideWindow      = errors.New("outside access window")
	ErrNotRegistered      = errors.New("guest not registered")
	ErrBookingNotActive   = errors.New("booking is not active")
	ErrInvalidAutoRelease = errors.New("auto-release time must be before hold start")
)

// ConflictError reports which occupant already holds the requested slot.
// It matches ErrSlotConflict under errors.Is.
type ConflictError struct {
	RoomID   string
	Occupant Occupant
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot conflict: room %s occupied by %s %s", e.RoomID, e.Occupant.Kind, e.Occupant.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}
