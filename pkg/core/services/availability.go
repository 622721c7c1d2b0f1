package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// MaxRecurringSlots caps how many occurrences a single recurring upload
// may expand to.
const MaxRecurringSlots = 52

// AvailabilityStore defines the slot publication operations.
type AvailabilityStore interface {
	// PublishSlots inserts one availability row per date for the
	// caregiver, all in one transaction. Returns ErrDuplicateSlot (and
	// inserts nothing) if any (caregiver, date) pair already exists.
	PublishSlots(ctx context.Context, caregiver string, dates []time.Time) error
}

// PublishAvailability uploads open slots for the authenticated caregiver.
// With an empty repeat rule it publishes the single date. With a repeat
// rule (RFC 5545 RRULE, e.g. "FREQ=WEEKLY") it publishes count occurrences
// starting from the date, all-or-nothing.
func PublishAvailability(ctx context.Context, store AvailabilityStore, sess *session.Session, logger *zap.Logger, dateToken, repeatRule string, count int) ([]time.Time, error) {
	caregiver, err := sess.Require(model.KindCaregiver)
	if err != nil {
		return nil, err
	}

	date, err := model.ParseDate(dateToken)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateToken, err)
	}

	dates := []time.Time{date}
	if repeatRule != "" {
		dates, err = expandRecurrence(date, repeatRule, count)
		if err != nil {
			return nil, err
		}
	}

	if err := store.PublishSlots(ctx, caregiver, dates); err != nil {
		return nil, err
	}

	logger.Info("Availability uploaded",
		zap.String("caregiver", caregiver),
		zap.String("start_date", date.Format(model.DateLayout)),
		zap.Int("slots", len(dates)))

	return dates, nil
}

// expandRecurrence evaluates an RRULE from the start date and returns the
// first count occurrence dates, the start date included.
func expandRecurrence(start time.Time, repeatRule string, count int) ([]time.Time, error) {
	if count < 1 || count > MaxRecurringSlots {
		return nil, fmt.Errorf("occurrence count must be between 1 and %d", MaxRecurringSlots)
	}

	rule, err := rrule.StrToRRule(repeatRule)
	if err != nil {
		return nil, fmt.Errorf("invalid repeat rule %q: %w", repeatRule, err)
	}
	rule.DTStart(start)

	var dates []time.Time
	iter := rule.Iterator()
	for len(dates) < count {
		next, ok := iter()
		if !ok {
			break
		}
		// Keep calendar dates only; the rule may carry a time component
		dates = append(dates, next.Truncate(24*time.Hour))
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("repeat rule %q yields no occurrences", repeatRule)
	}

	return dates, nil
}
