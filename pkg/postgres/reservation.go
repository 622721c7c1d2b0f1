package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/services"
)

// BeginReservation opens the unit of work for a reserve or cancel
// transaction. Every read and write up to Commit runs on one database
// transaction, so the id allocation, the appointment row, the slot, and
// the dose count move together or not at all.
func (db *DB) BeginReservation(ctx context.Context) (services.ReservationTx, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &reservationTx{tx: tx}, nil
}

type reservationTx struct {
	tx pgx.Tx
}

func (r *reservationTx) VaccineDoses(ctx context.Context, name string) (int, error) {
	var doses int
	err := r.tx.QueryRow(ctx,
		`SELECT doses FROM vaccines WHERE name = $1`, name,
	).Scan(&doses)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, services.ErrUnknownVaccine
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch vaccine: %w", err)
	}
	return doses, nil
}

func (r *reservationTx) FirstFreeCaregiver(ctx context.Context, date time.Time) (string, error) {
	var username string
	err := r.tx.QueryRow(ctx, `
		SELECT caregiver_username FROM availabilities
		WHERE slot_date = $1
		ORDER BY caregiver_username
		LIMIT 1
	`, date).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", services.ErrNoCaregiver
	}
	if err != nil {
		return "", fmt.Errorf("failed to query availabilities: %w", err)
	}
	return username, nil
}

func (r *reservationTx) NextAppointmentID(ctx context.Context) (int, error) {
	var id int
	err := r.tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM appointments`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate appointment id: %w", err)
	}
	return id, nil
}

func (r *reservationTx) InsertAppointment(ctx context.Context, appt model.Appointment) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO appointments (id, vaccine_name, patient_username, caregiver_username, appointment_date)
		VALUES ($1, $2, $3, $4, $5)
	`, appt.ID, appt.Vaccine, appt.Patient, appt.Caregiver, appt.Date)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *reservationTx) AppointmentByID(ctx context.Context, id int) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.tx.QueryRow(ctx, `
		SELECT id, vaccine_name, patient_username, caregiver_username, appointment_date
		FROM appointments
		WHERE id = $1
	`, id).Scan(&appt.ID, &appt.Vaccine, &appt.Patient, &appt.Caregiver, &appt.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrUnknownAppointment
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return &appt, nil
}

func (r *reservationTx) DeleteAppointment(ctx context.Context, id int) error {
	tag, err := r.tx.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrUnknownAppointment
	}
	return nil
}

func (r *reservationTx) ConsumeSlot(ctx context.Context, caregiver string, date time.Time) error {
	tag, err := r.tx.Exec(ctx, `
		DELETE FROM availabilities
		WHERE caregiver_username = $1 AND slot_date = $2
	`, caregiver, date)
	if err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrNoCaregiver
	}
	return nil
}

func (r *reservationTx) RestoreSlot(ctx context.Context, caregiver string, date time.Time) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO availabilities (caregiver_username, slot_date)
		VALUES ($1, $2)
	`, caregiver, date)
	if err != nil {
		return fmt.Errorf("failed to restore availability: %w", err)
	}
	return nil
}

// AdjustDoses applies doses += delta. The WHERE guard refuses an update
// that would take the count negative; the CHECK constraint backstops it.
func (r *reservationTx) AdjustDoses(ctx context.Context, name string, delta int) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE vaccines SET doses = doses + $2
		WHERE name = $1 AND doses + $2 >= 0
	`, name, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust doses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrNoDoses
	}
	return nil
}

func (r *reservationTx) Commit(ctx context.Context) error {
	return r.tx.Commit(ctx)
}

func (r *reservationTx) Rollback(ctx context.Context) error {
	return r.tx.Rollback(ctx)
}
