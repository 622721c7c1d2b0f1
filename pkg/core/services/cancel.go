package services

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// CancelResult reports a successful cancellation.
type CancelResult struct {
	Appointment model.Appointment
}

// Cancel removes an appointment by id, restoring the caregiver's slot and
// the consumed dose. Any authenticated actor may cancel any appointment.
// All mutations commit or roll back together.
func Cancel(ctx context.Context, store ReservationStore, sess *session.Session, logger *zap.Logger, idToken string) (*CancelResult, error) {
	kind, username, err := sess.RequireAny()
	if err != nil {
		return nil, err
	}

	id, err := strconv.Atoi(idToken)
	if err != nil || id < 1 {
		return nil, fmt.Errorf("invalid appointment id %q", idToken)
	}

	tx, err := store.BeginReservation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin cancellation: %w", err)
	}
	defer tx.Rollback(ctx)

	appt, err := tx.AppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.DeleteAppointment(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete appointment: %w", err)
	}

	if err := tx.RestoreSlot(ctx, appt.Caregiver, appt.Date); err != nil {
		return nil, fmt.Errorf("failed to restore availability: %w", err)
	}

	if err := tx.AdjustDoses(ctx, appt.Vaccine, 1); err != nil {
		return nil, fmt.Errorf("failed to restore dose: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	logger.Info("Appointment cancelled",
		zap.Int("appointment_id", id),
		zap.String("cancelled_by", username),
		zap.String("actor_kind", string(kind)),
		zap.String("caregiver", appt.Caregiver),
		zap.String("vaccine", appt.Vaccine))

	return &CancelResult{Appointment: *appt}, nil
}
