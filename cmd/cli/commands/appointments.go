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

// ShowAppointmentsCmd creates the show_appointments command
func ShowAppointmentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show_appointments",
		Short: "List the caller's own appointments, ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("show_appointments")

			kind, appointments, err := services.ListAppointments(app.Ctx, app.Database, app.Session, logger)
			switch {
			case err == nil:
			case errors.Is(err, session.ErrNotLoggedIn):
				fmt.Println("Please login first")
				return nil
			default:
				logger.Error("Listing appointments failed", zap.Error(err))
				fmt.Println("Please try again")
				return nil
			}

			// patients see the caregiver column, caregivers the patient column
			for _, appt := range appointments {
				other := appt.Caregiver
				if kind == model.KindCaregiver {
					other = appt.Patient
				}
				fmt.Printf("%d %s %s %s\n", appt.ID, appt.Vaccine, appt.Date.Format(model.DateLayout), other)
			}
			return nil
		},
	}
}
