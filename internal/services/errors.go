package services

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrResidencyNotFound = errors.New("residency not found")
	// ErrResidencyExists signals a second residency at the same address for
	// the same owner.
	ErrResidencyExists = errors.New("residency already exists for this address and owner")
	// ErrDuplicateBooking signals a visit request for a residency the user
	// already holds a booking for.
	ErrDuplicateBooking = errors.New("residency is already booked by this user")
	ErrBookingNotFound  = errors.New("booking not found")
	// ErrPartialCascade is returned when reference cleanup succeeded but the
	// parent document could not be deleted. Retrying the deletion is safe:
	// every cleanup step is idempotent.
	ErrPartialCascade = errors.New("cascade deletion incomplete, retry is safe")
)
