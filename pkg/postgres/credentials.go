package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/services"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// credentialTable maps an actor kind to its table. The two kinds are
// separate tables with independent username namespaces.
func credentialTable(kind model.ActorKind) (string, error) {
	switch kind {
	case model.KindPatient:
		return "patients", nil
	case model.KindCaregiver:
		return "caregivers", nil
	default:
		return "", fmt.Errorf("unknown actor kind %q", kind)
	}
}

// UsernameExists reports whether a username is taken within the kind's namespace.
func (db *DB) UsernameExists(ctx context.Context, kind model.ActorKind, username string) (bool, error) {
	table, err := credentialTable(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	err = db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE username = $1)`, table),
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// CreateActor inserts a new credential record.
func (db *DB) CreateActor(ctx context.Context, actor model.Actor) error {
	table, err := credentialTable(actor.Kind)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (username, salt, password_hash) VALUES ($1, $2, $3)`, table),
		actor.Username, actor.Salt, actor.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return services.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to insert %s: %w", actor.Kind, err)
	}
	return nil
}

// GetActor fetches a credential record with its salt and digest.
// An absent username surfaces as ErrInvalidCredentials so login failures
// stay uniform.
func (db *DB) GetActor(ctx context.Context, kind model.ActorKind, username string) (*model.Actor, error) {
	table, err := credentialTable(kind)
	if err != nil {
		return nil, err
	}

	actor := model.Actor{Kind: kind}
	err = db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT username, salt, password_hash FROM %s WHERE username = $1`, table),
		username,
	).Scan(&actor.Username, &actor.Salt, &actor.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}
	return &actor, nil
}
