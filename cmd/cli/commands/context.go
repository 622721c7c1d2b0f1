package commands

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/internal/config"
	"github.com/openclinic/vaxsched/pkg/core/session"
	"github.com/openclinic/vaxsched/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Session  *session.Session
	Logger   *zap.Logger
	Ctx      context.Context
}

// commandLogger tags a logger with the command name and a fresh invocation
// id so every log line of one invocation can be correlated in the log file.
func (app *AppContext) commandLogger(command string) *zap.Logger {
	return app.Logger.With(
		zap.String("command", command),
		zap.String("invocation_id", uuid.NewString()),
	)
}
