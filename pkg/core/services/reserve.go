package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// ReservationTx is the unit of work for the reserve and cancel transactions.
// Every read and write between Begin and Commit happens against the same
// store transaction, so a failure at any step unwinds all previous steps.
type ReservationTx interface {
	// VaccineDoses returns the current dose count for a lot.
	// Returns ErrUnknownVaccine if the lot does not exist.
	VaccineDoses(ctx context.Context, name string) (int, error)

	// FirstFreeCaregiver returns the lexicographically smallest caregiver
	// username with an open slot on the date. Returns ErrNoCaregiver if
	// nobody is free.
	FirstFreeCaregiver(ctx context.Context, date time.Time) (string, error)

	// NextAppointmentID allocates max(id)+1, or 1 when no appointments
	// exist. Valid only until the transaction ends.
	NextAppointmentID(ctx context.Context) (int, error)

	InsertAppointment(ctx context.Context, appt model.Appointment) error

	// AppointmentByID returns ErrUnknownAppointment if the id is absent.
	AppointmentByID(ctx context.Context, id int) (*model.Appointment, error)

	DeleteAppointment(ctx context.Context, id int) error

	// ConsumeSlot removes the (caregiver, date) availability row.
	ConsumeSlot(ctx context.Context, caregiver string, date time.Time) error

	// RestoreSlot re-publishes the (caregiver, date) availability row.
	RestoreSlot(ctx context.Context, caregiver string, date time.Time) error

	// AdjustDoses applies doses += delta. Returns ErrNoDoses if the
	// result would be negative.
	AdjustDoses(ctx context.Context, name string, delta int) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ReservationStore opens reservation units of work.
type ReservationStore interface {
	BeginReservation(ctx context.Context) (ReservationTx, error)
}

// ReserveResult reports a successful booking.
type ReserveResult struct {
	AppointmentID int
	Caregiver     string
}

// Reserve books the authenticated patient with the first free caregiver on
// the date, consuming one dose and the caregiver's slot. All mutations
// commit or roll back together.
func Reserve(ctx context.Context, store ReservationStore, sess *session.Session, logger *zap.Logger, dateToken, vaccine string) (*ReserveResult, error) {
	patient, err := sess.Require(model.KindPatient)
	if err != nil {
		return nil, err
	}

	date, err := model.ParseDate(dateToken)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateToken, err)
	}

	tx, err := store.BeginReservation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	doses, err := tx.VaccineDoses(ctx, vaccine)
	if err != nil {
		return nil, err
	}
	if doses == 0 {
		return nil, ErrNoDoses
	}

	caregiver, err := tx.FirstFreeCaregiver(ctx, date)
	if err != nil {
		return nil, err
	}

	id, err := tx.NextAppointmentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate appointment id: %w", err)
	}

	appt := model.Appointment{
		ID:        id,
		Vaccine:   vaccine,
		Patient:   patient,
		Caregiver: caregiver,
		Date:      date,
	}
	if err := tx.InsertAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	if err := tx.ConsumeSlot(ctx, caregiver, date); err != nil {
		return nil, fmt.Errorf("failed to consume availability: %w", err)
	}

	if err := tx.AdjustDoses(ctx, vaccine, -1); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	logger.Info("Reservation booked",
		zap.Int("appointment_id", id),
		zap.String("patient", patient),
		zap.String("caregiver", caregiver),
		zap.String("vaccine", vaccine),
		zap.String("date", date.Format(model.DateLayout)))

	return &ReserveResult{AppointmentID: id, Caregiver: caregiver}, nil
}
