package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/auth"
	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// Login verifies a credential and opens a session of the given kind.
// It fails with session.ErrAlreadyLoggedIn while any session is active,
// and with a uniform ErrInvalidCredentials on any verification failure.
func Login(ctx context.Context, store CredentialStore, sess *session.Session, logger *zap.Logger, kind model.ActorKind, username, password string) error {
	// Refuse before touching the store so a bad login attempt cannot
	// disturb the existing session.
	if _, _, ok := sess.Current(); ok {
		return session.ErrAlreadyLoggedIn
	}

	actor, err := store.GetActor(ctx, kind, username)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrInvalidCredentials
		}
		return err
	}

	if !auth.Verify(password, actor.Salt, actor.PasswordHash) {
		return ErrInvalidCredentials
	}

	if err := sess.Login(kind, username); err != nil {
		return err
	}

	logger.Info("Logged in",
		zap.String("username", username),
		zap.String("kind", string(kind)))

	return nil
}

// Logout clears the active session.
func Logout(sess *session.Session, logger *zap.Logger) error {
	kind, username, ok := sess.Current()
	if !ok {
		return session.ErrNotLoggedIn
	}
	if err := sess.Logout(); err != nil {
		return err
	}

	logger.Info("Logged out",
		zap.String("username", username),
		zap.String("kind", string(kind)))

	return nil
}
