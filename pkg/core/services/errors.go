package services

import "errors"

// Domain failures surfaced by the service layer. Store implementations
// return these sentinels so callers can map them to user-facing messages.
var (
	// ErrDuplicateUsername is returned when creating an account whose
	// username is already taken within its kind's namespace.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned on any login failure. It is
	// deliberately uniform: callers cannot tell an unknown username from
	// a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnknownVaccine is returned when a named lot does not exist.
	ErrUnknownVaccine = errors.New("unknown vaccine")

	// ErrNoDoses is returned when a reservation would drop a lot's dose
	// count below zero.
	ErrNoDoses = errors.New("not enough available doses")

	// ErrNoCaregiver is returned when no caregiver has an open slot on
	// the requested date.
	ErrNoCaregiver = errors.New("no caregiver is available")

	// ErrUnknownAppointment is returned when cancelling an id that does
	// not exist.
	ErrUnknownAppointment = errors.New("unknown appointment")

	// ErrDuplicateSlot is returned when publishing an availability slot
	// that already exists for the (caregiver, date) pair.
	ErrDuplicateSlot = errors.New("availability already uploaded for that date")
)
