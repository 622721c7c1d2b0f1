package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/services"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// LoginPatientCmd creates the login_patient command
func LoginPatientCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login_patient <username> <password>",
		Short: "Log in as a patient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runLogin(app, model.KindPatient, args[0], args[1])
			return nil
		},
	}
}

// LoginCaregiverCmd creates the login_caregiver command
func LoginCaregiverCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login_caregiver <username> <password>",
		Short: "Log in as a caregiver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runLogin(app, model.KindCaregiver, args[0], args[1])
			return nil
		},
	}
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("logout")
			if err := services.Logout(app.Session, logger); err != nil {
				fmt.Println("Please login first")
				return nil
			}
			fmt.Println("Successfully logged out")
			return nil
		},
	}
}

func runLogin(app *AppContext, kind model.ActorKind, username, password string) {
	logger := app.commandLogger("login_" + string(kind))

	err := services.Login(app.Ctx, app.Database, app.Session, logger, kind, username, password)
	switch {
	case err == nil:
		fmt.Printf("Logged in as %s\n", username)
	case errors.Is(err, session.ErrAlreadyLoggedIn):
		fmt.Println("User already logged in, try again")
	case errors.Is(err, services.ErrInvalidCredentials):
		// deliberately the same line for unknown username and wrong password
		fmt.Printf("Login %s failed\n", kind)
	default:
		logger.Error("Login failed", zap.Error(err))
		fmt.Printf("Login %s failed\n", kind)
	}
}
