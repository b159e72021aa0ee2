package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

// SyncRosterCmd creates the syncRoster command
func SyncRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "syncRoster",
		Short: "Update the registry from the roster Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.Roster == nil {
				return fmt.Errorf("roster sheet is not configured")
			}
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			result, err := services.SyncRoster(app.Ctx, app.Database, client, app.Logger,
				app.Cfg.Roster.SheetID, app.Cfg.Roster.Tab, defaultCadence(app), app.Engine.NewID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster synced: %d added, %d updated\n", result.Added, result.Updated)
			if len(result.Skipped) > 0 {
				fmt.Printf("⚠️  Skipped %d rows:\n", len(result.Skipped))
				for _, reason := range result.Skipped {
					fmt.Printf("  ✗ %s\n", reason)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

// HandoffCmd creates the handoff command
func HandoffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Email the list to the handoff address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}
			to, _ := cmd.Flags().GetString("to")

			client, err := app.GmailClient()
			if err != nil {
				return err
			}
			if to == "" {
				to = app.Cfg.Gmail.HandoffEmail
			}

			if err := services.SendHandoff(app.Ctx, app.Database, client, app.Logger, date, to); err != nil {
				return err
			}
			fmt.Printf("✓ List for %s sent to %s\n", date, to)
			return nil
		},
	}
	addDateFlag(cmd)
	cmd.Flags().String("to", "", "Recipient (defaults to gmail.handoffEmail)")
	return cmd
}
