package postgres

import (
	"context"
	"fmt"

	"github.com/openclinic/vaxsched/pkg/core/model"
)

// AppointmentsByPatient returns a patient's appointments, id ascending.
func (db *DB) AppointmentsByPatient(ctx context.Context, username string) ([]model.Appointment, error) {
	return db.listAppointments(ctx, `
		SELECT id, vaccine_name, patient_username, caregiver_username, appointment_date
		FROM appointments
		WHERE patient_username = $1
		ORDER BY id
	`, username)
}

// AppointmentsByCaregiver returns a caregiver's appointments, id ascending.
func (db *DB) AppointmentsByCaregiver(ctx context.Context, username string) ([]model.Appointment, error) {
	return db.listAppointments(ctx, `
		SELECT id, vaccine_name, patient_username, caregiver_username, appointment_date
		FROM appointments
		WHERE caregiver_username = $1
		ORDER BY id
	`, username)
}

func (db *DB) listAppointments(ctx context.Context, query, username string) ([]model.Appointment, error) {
	rows, err := db.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		var appt model.Appointment
		if err := rows.Scan(&appt.ID, &appt.Vaccine, &appt.Patient, &appt.Caregiver, &appt.Date); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}
