package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/services"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// AddDosesCmd creates the add_doses command
func AddDosesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add_doses <vaccine> <number>",
		Short: "Create a vaccine lot or top up its dose count",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger("add_doses")

			count, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Please try again!")
				return nil
			}

			_, err = services.AddDoses(app.Ctx, app.Database, app.Session, logger, args[0], count)
			switch {
			case err == nil:
				fmt.Println("Doses updated!")
			case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, session.ErrWrongKind):
				fmt.Println("Please login as a caregiver first!")
			default:
				logger.Error("Adding doses failed", zap.Error(err))
				fmt.Println("Please try again!")
			}
			return nil
		},
	}
}
