package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/services"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// SearchScheduleCmd creates the search_caregiver_schedule command
func SearchScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search_caregiver_schedule <date>",
		Short: "List caregivers free on a date and the current vaccine stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("search_caregiver_schedule")

			result, err := services.SearchSchedule(app.Ctx, app.Database, app.Session, logger, args[0])
			switch {
			case err == nil:
			case errors.Is(err, session.ErrNotLoggedIn):
				fmt.Println("Please login first")
				return nil
			default:
				logger.Error("Schedule search failed", zap.Error(err))
				fmt.Println("Please try again")
				return nil
			}

			// free caregivers first, then the full stock
			for _, caregiver := range result.Caregivers {
				fmt.Println(caregiver)
			}
			for _, vaccine := range result.Vaccines {
				fmt.Printf("%s %d\n", vaccine.Name, vaccine.Doses)
			}
			return nil
		},
	}
}

// UploadAvailabilityCmd creates the upload_availability command
func UploadAvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload_availability <date>",
		Short: "Publish an open slot for the logged-in caregiver",
		Long: `Publish an open slot for the logged-in caregiver on the given date.

With --repeat, the date is the start of a recurrence (RFC 5545 RRULE, e.g.
"FREQ=WEEKLY") and --count slots are published in one all-or-nothing batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("upload_availability")
			repeat, _ := cmd.Flags().GetString("repeat")
			count, _ := cmd.Flags().GetInt("count")

			dates, err := services.PublishAvailability(app.Ctx, app.Database, app.Session, logger, args[0], repeat, count)
			switch {
			case err == nil:
				if len(dates) > 1 {
					fmt.Printf("Availability uploaded for %d dates!\n", len(dates))
				} else {
					fmt.Println("Availability uploaded!")
				}
			case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, session.ErrWrongKind):
				fmt.Println("Please login as a caregiver first!")
			case errors.Is(err, services.ErrDuplicateSlot):
				fmt.Println("Availability already uploaded for that date")
			default:
				logger.Error("Availability upload failed", zap.Error(err))
				fmt.Println("Please enter a valid date!")
			}
			return nil
		},
	}

	cmd.Flags().String("repeat", "", "Recurrence rule for repeating slots (e.g. FREQ=WEEKLY)")
	cmd.Flags().Int("count", 1, fmt.Sprintf("Number of occurrences to publish with --repeat (max %d)", services.MaxRecurringSlots))

	return cmd
}
