package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// ScheduleStore defines the read-only queries behind schedule search.
type ScheduleStore interface {
	// FreeCaregivers returns usernames with an open slot on the date,
	// ascending lexicographic.
	FreeCaregivers(ctx context.Context, date time.Time) ([]string, error)

	// ListVaccines returns every lot with its dose count, ordered by name.
	ListVaccines(ctx context.Context) ([]model.Vaccine, error)
}

// SearchResult holds one day's free caregivers plus the full vaccine stock.
type SearchResult struct {
	Date       time.Time
	Caregivers []string
	Vaccines   []model.Vaccine
}

// SearchSchedule lists the caregivers free on a date and the current dose
// counts of every vaccine lot. Available to either actor kind; no mutation.
func SearchSchedule(ctx context.Context, store ScheduleStore, sess *session.Session, logger *zap.Logger, dateToken string) (*SearchResult, error) {
	if _, _, err := sess.RequireAny(); err != nil {
		return nil, err
	}

	date, err := model.ParseDate(dateToken)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateToken, err)
	}

	caregivers, err := store.FreeCaregivers(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}

	vaccines, err := store.ListVaccines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vaccines: %w", err)
	}

	logger.Debug("Schedule searched",
		zap.String("date", date.Format(model.DateLayout)),
		zap.Int("free_caregivers", len(caregivers)))

	return &SearchResult{Date: date, Caregivers: caregivers, Vaccines: vaccines}, nil
}
