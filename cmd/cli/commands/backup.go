package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write a backup of everything to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			path, err := services.ExportBackup(app.Ctx, app.Database, app.Logger, dir, model.DateOf(time.Now()))
			if err != nil {
				return err
			}
			fmt.Printf("✓ Backup written to %s\n", path)
			return nil
		},
	}
}

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace everything with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			state, err := services.ImportBackup(app.Ctx, app.Database, app.Logger, args[0], app.confirm(yes))
			if err != nil {
				return err
			}
			fmt.Printf("✓ Imported %d volunteers and %d weeks\n", len(state.Volunteers), len(state.Weeks))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
