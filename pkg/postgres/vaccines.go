package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/services"
)

// GetVaccine returns one lot by name.
func (db *DB) GetVaccine(ctx context.Context, name string) (*model.Vaccine, error) {
	vaccine := model.Vaccine{Name: name}
	err := db.pool.QueryRow(ctx,
		`SELECT doses FROM vaccines WHERE name = $1`, name,
	).Scan(&vaccine.Doses)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrUnknownVaccine
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vaccine: %w", err)
	}
	return &vaccine, nil
}

// CreateVaccine inserts a new lot.
func (db *DB) CreateVaccine(ctx context.Context, vaccine model.Vaccine) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO vaccines (name, doses) VALUES ($1, $2)`,
		vaccine.Name, vaccine.Doses,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vaccine: %w", err)
	}
	return nil
}

// AddDoses tops up an existing lot.
func (db *DB) AddDoses(ctx context.Context, name string, count int) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE vaccines SET doses = doses + $2 WHERE name = $1`,
		name, count,
	)
	if err != nil {
		return fmt.Errorf("failed to add doses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrUnknownVaccine
	}
	return nil
}

// ListVaccines returns every lot ordered by name.
func (db *DB) ListVaccines(ctx context.Context) ([]model.Vaccine, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, doses FROM vaccines ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query vaccines: %w", err)
	}
	defer rows.Close()

	var vaccines []model.Vaccine
	for rows.Next() {
		var vaccine model.Vaccine
		if err := rows.Scan(&vaccine.Name, &vaccine.Doses); err != nil {
			return nil, fmt.Errorf("failed to scan vaccine: %w", err)
		}
		vaccines = append(vaccines, vaccine)
	}
	return vaccines, rows.Err()
}
