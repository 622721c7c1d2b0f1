package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/auth"
	"github.com/openclinic/vaxsched/pkg/core/model"
)

// CredentialStore defines the account persistence operations.
type CredentialStore interface {
	// UsernameExists checks the namespace of the given kind only.
	UsernameExists(ctx context.Context, kind model.ActorKind, username string) (bool, error)

	// CreateActor inserts a new credential record.
	// Returns ErrDuplicateUsername if the username is taken.
	CreateActor(ctx context.Context, actor model.Actor) error

	// GetActor fetches a credential record with its salt and digest.
	// Returns ErrInvalidCredentials if the username is absent.
	GetActor(ctx context.Context, kind model.ActorKind, username string) (*model.Actor, error)
}

// CreateAccount registers a new patient or caregiver credential.
func CreateAccount(ctx context.Context, store CredentialStore, logger *zap.Logger, kind model.ActorKind, username, password string) error {
	if err := auth.CheckStrength(password); err != nil {
		return err
	}

	taken, err := store.UsernameExists(ctx, kind, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return ErrDuplicateUsername
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return err
	}

	actor := model.Actor{
		Username:     username,
		Kind:         kind,
		Salt:         salt,
		PasswordHash: auth.Hash(password, salt),
	}
	if err := store.CreateActor(ctx, actor); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("Account created",
		zap.String("username", username),
		zap.String("kind", string(kind)))

	return nil
}
