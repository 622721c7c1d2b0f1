package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// InventoryStore defines the vaccine lot operations used by dose
// administration.
type InventoryStore interface {
	// GetVaccine returns ErrUnknownVaccine if the lot does not exist.
	GetVaccine(ctx context.Context, name string) (*model.Vaccine, error)

	CreateVaccine(ctx context.Context, vaccine model.Vaccine) error

	// AddDoses applies doses += count to an existing lot.
	AddDoses(ctx context.Context, name string, count int) error
}

// AddDoses creates the named lot with the given count if it does not
// exist, otherwise tops up the existing count. Caregiver only.
func AddDoses(ctx context.Context, store InventoryStore, sess *session.Session, logger *zap.Logger, name string, count int) (*model.Vaccine, error) {
	caregiver, err := sess.Require(model.KindCaregiver)
	if err != nil {
		return nil, err
	}

	if count < 0 {
		return nil, fmt.Errorf("dose count must not be negative")
	}

	vaccine, err := store.GetVaccine(ctx, name)
	switch {
	case errors.Is(err, ErrUnknownVaccine):
		vaccine = &model.Vaccine{Name: name, Doses: count}
		if err := store.CreateVaccine(ctx, *vaccine); err != nil {
			return nil, fmt.Errorf("failed to create vaccine: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up vaccine: %w", err)
	default:
		if err := store.AddDoses(ctx, name, count); err != nil {
			return nil, fmt.Errorf("failed to add doses: %w", err)
		}
		vaccine.Doses += count
	}

	logger.Info("Doses updated",
		zap.String("caregiver", caregiver),
		zap.String("vaccine", name),
		zap.Int("added", count),
		zap.Int("total", vaccine.Doses))

	return vaccine, nil
}
