package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclinic/vaxsched/cmd/cli/commands"
	"github.com/openclinic/vaxsched/internal/config"
	"github.com/openclinic/vaxsched/pkg/core/session"
	"github.com/openclinic/vaxsched/pkg/postgres"
	"github.com/openclinic/vaxsched/pkg/utils/logging"
)

var app *commands.AppContext

func main() {
	rootCmd := &cobra.Command{
		Use:   "vaxsched",
		Short: "Vaccine appointment scheduler - match patients to caregivers for scheduled doses",
		Long: `A CLI for booking vaccine appointments: caregivers publish availability
and manage dose inventory, patients reserve and cancel appointments.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Database != nil {
					app.Database.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.AddCommand(commands.CreatePatientCmd(appRef()))
	rootCmd.AddCommand(commands.CreateCaregiverCmd(appRef()))
	rootCmd.AddCommand(commands.LoginPatientCmd(appRef()))
	rootCmd.AddCommand(commands.LoginCaregiverCmd(appRef()))
	rootCmd.AddCommand(commands.SearchScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.ReserveCmd(appRef()))
	rootCmd.AddCommand(commands.UploadAvailabilityCmd(appRef()))
	rootCmd.AddCommand(commands.CancelCmd(appRef()))
	rootCmd.AddCommand(commands.AddDosesCmd(appRef()))
	rootCmd.AddCommand(commands.ShowAppointmentsCmd(appRef()))
	rootCmd.AddCommand(commands.LogoutCmd(appRef()))
	rootCmd.AddCommand(commands.InteractiveCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, which is populated by initApp
// before any command runs.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, database, and the session gate
func initApp() error {
	ctx := context.Background()
	a := appRef()
	a.Ctx = ctx

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Cfg = cfg

	logger, err := logging.InitLogger(cfg.LogsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.Logger = logger
	logger.Info("Starting application")

	// Unrecoverable store failure at startup is the one fatal path
	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(ctx); err != nil {
		database.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.Database = database
	logger.Info("Database initialized successfully")

	a.Session = session.New()

	return nil
}
