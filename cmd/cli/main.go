package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/cmd/cli/commands"
	"github.com/jakechorley/gateway-to-service/internal/config"
	"github.com/jakechorley/gateway-to-service/pkg/core/roster"
	"github.com/jakechorley/gateway-to-service/pkg/core/schedule"
	"github.com/jakechorley/gateway-to-service/pkg/db"
	"github.com/jakechorley/gateway-to-service/pkg/postgres"
	"github.com/jakechorley/gateway-to-service/pkg/utils/logging"
)

var app = &commands.AppContext{}

func main() {
	rootCmd := &cobra.Command{
		Use:   "gts",
		Short: "Gateway to Service - coordinate the weekly volunteer list",
		Long: `A CLI for the service list coordinator: build each meeting's invite list,
track responses, draft messages and hand the list on to the next coordinator.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.Env, "env", "e", "", "Environment (selects gts_config.<env>.yaml)")

	rootCmd.AddCommand(
		commands.ShowCmd(app),
		commands.BuildCmd(app),
		commands.AddCmd(app),
		commands.StatusCmd(app),
		commands.RemoveCmd(app),
		commands.FinalizeCmd(app),
		commands.DeleteWeekCmd(app),
		commands.SentCmd(app),
		commands.HistoryCmd(app),
		commands.DraftCmd(app),
		commands.SuggestCmd(app),
		commands.VolunteersCmd(app),
		commands.AddVolunteerCmd(app),
		commands.EditVolunteerCmd(app),
		commands.ToggleActiveCmd(app),
		commands.ToggleFirstTimeCmd(app),
		commands.SetRoleCmd(app),
		commands.SetCadenceCmd(app),
		commands.DeleteVolunteerCmd(app),
		commands.SettingsCmd(app),
		commands.SetCapacityCmd(app),
		commands.SetMessageCmd(app),
		commands.ExportCmd(app),
		commands.ImportCmd(app),
		commands.SyncRosterCmd(app),
		commands.HandoffCmd(app),
		commands.WatchCmd(app),
		commands.InteractiveCmd(app),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, storage and the roster engine
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(app.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Starting application", zap.String("environment", app.Env))

	app.Cfg, err = config.Load(app.Env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Schedule, err = schedule.New(app.Cfg.ScheduleOptions())
	if err != nil {
		return fmt.Errorf("failed to set up meeting schedule: %w", err)
	}

	app.Engine = roster.NewEngine(app.Cfg.RotationPolicy())

	app.Database, err = openDatabase(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	return nil
}

// openDatabase opens the configured state store
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Database, error) {
	switch cfg.StorageBackend() {
	case config.StoragePostgres:
		logger.Debug("Connecting to database")
		database, err := postgres.NewDB(ctx, cfg.Storage.DatabaseURL, cfg.DefaultState, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return database, nil
	default:
		path, err := cfg.StatePath()
		if err != nil {
			return nil, err
		}
		logger.Debug("Using state file", zap.String("path", path))
		return db.NewFileStore(path, cfg.DefaultState, logger), nil
	}
}
