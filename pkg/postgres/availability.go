package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openclinic/vaxsched/pkg/core/services"
)

// FreeCaregivers returns the usernames with an open slot on the date,
// ascending lexicographic.
func (db *DB) FreeCaregivers(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT caregiver_username FROM availabilities
		WHERE slot_date = $1
		ORDER BY caregiver_username
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer rows.Close()

	var caregivers []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		caregivers = append(caregivers, username)
	}
	return caregivers, rows.Err()
}

// PublishSlots inserts one availability row per date for the caregiver,
// all in one transaction. The composite primary key rejects duplicate
// (caregiver, date) pairs; one duplicate fails the whole batch.
func (db *DB) PublishSlots(ctx context.Context, caregiver string, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, date := range dates {
		_, err := tx.Exec(ctx, `
			INSERT INTO availabilities (caregiver_username, slot_date)
			VALUES ($1, $2)
		`, caregiver, date)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return services.ErrDuplicateSlot
			}
			return fmt.Errorf("failed to insert availability: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
