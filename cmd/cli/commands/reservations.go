package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/services"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// ReserveCmd creates the reserve command
func ReserveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve <date> <vaccine>",
		Short: "Book the first free caregiver on a date for one dose",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("reserve")

			result, err := services.Reserve(app.Ctx, app.Database, app.Session, logger, args[0], args[1])
			switch {
			case err == nil:
				fmt.Printf("Appointment ID %d, Caregiver username %s\n", result.AppointmentID, result.Caregiver)
			case errors.Is(err, session.ErrNotLoggedIn):
				fmt.Println("Please login first")
			case errors.Is(err, session.ErrWrongKind):
				fmt.Println("Please login as a patient")
			case errors.Is(err, services.ErrNoDoses):
				fmt.Println("Not enough available doses")
			case errors.Is(err, services.ErrNoCaregiver):
				fmt.Println("No caregiver is available")
			default:
				// unknown vaccine and malformed dates get the same retry line
				logger.Error("Reservation failed", zap.Error(err))
				fmt.Println("Please try again")
			}
			return nil
		},
	}
}

// CancelCmd creates the cancel command
func CancelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <appointment_id>",
		Short: "Cancel an appointment by id, restoring the slot and dose",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("cancel")

			_, err := services.Cancel(app.Ctx, app.Database, app.Session, logger, args[0])
			switch {
			case err == nil:
				fmt.Println("Appointment successfully cancelled")
			case errors.Is(err, session.ErrNotLoggedIn):
				fmt.Println("Please login first")
			case errors.Is(err, services.ErrUnknownAppointment):
				fmt.Printf("There's no appointment with the ID: %s\n", args[0])
			default:
				logger.Error("Cancellation failed", zap.Error(err))
				fmt.Println("Please try again")
			}
			return nil
		},
	}
}
