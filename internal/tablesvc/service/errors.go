package service

import (
	"errors"
	"fmt"
)

// Error taxonomy. Validation and authorization failures are checked before
// any write; the rest surface from storage. None are retried automatically.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrDeckNotFound  = errors.New("deck not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrCardNotFound  = errors.New("card not found")

	ErrRoomNotOpen      = errors.New("room is not open")
	ErrRoomFull         = errors.New("room is full")
	ErrSeatNotAvailable = errors.New("that seat was just taken, try again")
	ErrPinExhausted     = errors.New("could not allocate a room PIN, try again")
	ErrEmptyLibrary     = errors.New("library is empty")

	ErrNotOwner    = errors.New("only the room owner can do that")
	ErrNotYourSeat = errors.New("you can only act on your own seat")
	ErrNotYourDeck = errors.New("that deck belongs to another user")
)

// ValidationError carries a specific user-facing reason for a refused
// action, e.g. which deck rule a selection violates or which seat is not
// ready at start time.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a pre-flight validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsAuthorization reports whether err is an owner/self authorization
// failure. These are always checked server-side against stored ownership,
// never trusted from the client.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotOwner) || errors.Is(err, ErrNotYourSeat) || errors.Is(err, ErrNotYourDeck)
}

// IsNotFound reports whether err names a missing room, deck, match or card.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrDeckNotFound) ||
		errors.Is(err, ErrMatchNotFound) || errors.Is(err, ErrCardNotFound)
}

// IsConflict reports whether err is a loser of a shared-namespace race
// (PIN allocation, seat contention) or a room-state refusal.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRoomNotOpen) || errors.Is(err, ErrRoomFull) ||
		errors.Is(err, ErrSeatNotAvailable) || errors.Is(err, ErrPinExhausted)
}
