package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/services"
)

// CreatePatientCmd creates the create_patient command
func CreatePatientCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create_patient <username> <password>",
		Short: "Create a new patient account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCreateAccount(app, model.KindPatient, args[0], args[1])
			return nil
		},
	}
}

// CreateCaregiverCmd creates the create_caregiver command
func CreateCaregiverCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create_caregiver <username> <password>",
		Short: "Create a new caregiver account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCreateAccount(app, model.KindCaregiver, args[0], args[1])
			return nil
		},
	}
}

func runCreateAccount(app *AppContext, kind model.ActorKind, username, password string) {
	logger := app.commandLogger("create_" + string(kind))

	err := services.CreateAccount(app.Ctx, app.Database, logger, kind, username, password)
	switch {
	case err == nil:
		fmt.Printf("Created user %s\n", username)
	case errors.Is(err, services.ErrDuplicateUsername):
		fmt.Println("Username taken, try again")
	default:
		logger.Error("Account creation failed", zap.Error(err))
		fmt.Printf("Failed to create user: %v\n", err)
	}
}
