package model

import "time"

// DateLayout is the calendar date format accepted on the command line
// and used for all display output.
const DateLayout = "2006-01-02"

// ActorKind discriminates the two account namespaces. A patient and a
// caregiver may share a username without conflict.
type ActorKind string

const (
	KindPatient   ActorKind = "patient"
	KindCaregiver ActorKind = "caregiver"
)

// Actor represents a stored account record for either kind.
// Credentials are immutable after creation.
type Actor struct {
	Username     string
	Kind         ActorKind
	Salt         []byte
	PasswordHash []byte
}

// Vaccine represents a named dose lot. Doses never goes negative.
type Vaccine struct {
	Name  string
	Doses int
}

// Availability represents one open (caregiver, date) slot,
// consumable by exactly one reservation.
type Availability struct {
	Caregiver string
	Date      time.Time
}

// Appointment represents a booked dose. IDs are sequential and never reused.
type Appointment struct {
	ID        int
	Vaccine   string
	Patient   string
	Caregiver string
	Date      time.Time
}

// ParseDate parses a calendar date token in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
