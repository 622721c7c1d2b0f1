package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// AppointmentStore defines the appointment listing queries.
type AppointmentStore interface {
	// Both return id-ascending sequences.
	AppointmentsByPatient(ctx context.Context, username string) ([]model.Appointment, error)
	AppointmentsByCaregiver(ctx context.Context, username string) ([]model.Appointment, error)
}

// ListAppointments returns the caller's own appointments, ordered by id.
// Patients see their bookings, caregivers see the bookings they administer.
func ListAppointments(ctx context.Context, store AppointmentStore, sess *session.Session, logger *zap.Logger) (model.ActorKind, []model.Appointment, error) {
	kind, username, err := sess.RequireAny()
	if err != nil {
		return "", nil, err
	}

	var appointments []model.Appointment
	switch kind {
	case model.KindPatient:
		appointments, err = store.AppointmentsByPatient(ctx, username)
	case model.KindCaregiver:
		appointments, err = store.AppointmentsByCaregiver(ctx, username)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	logger.Debug("Appointments listed",
		zap.String("username", username),
		zap.String("kind", string(kind)),
		zap.Int("count", len(appointments)))

	return kind, appointments, nil
}
