package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

func addDateFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("date", "d", "", "Meeting date YYYY-MM-DD (defaults to the next meeting)")
}

func dateFromFlags(app *AppContext, cmd *cobra.Command) (model.Date, error) {
	value, _ := cmd.Flags().GetString("date")
	return app.meetingDate(value)
}

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the list for a meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}

			summary, err := services.GetWeekSummary(app.Ctx, app.Database, app.Logger, date)
			if err != nil {
				return err
			}

			printSummary(os.Stdout, summary)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// BuildCmd creates the build command
func BuildCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the invite list for a meeting if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}

			result, err := services.EnsureWeek(app.Ctx, app.Database, app.Engine, app.Logger, date)
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)

			summary := services.Summarize(result.State, result.State.WeekByDate(date))
			printSummary(os.Stdout, &summary)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// AddCmd creates the add command
func AddCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <volunteer>",
		Short: "Add a volunteer to the list by name or ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}

			result, err := services.AddToWeek(app.Ctx, app.Database, app.Engine, app.Logger, date, args[0])
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// StatusCmd creates the status command
func StatusCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <volunteer> <status>",
		Short: "Set an invitee's status (not-invited, invited, confirmed, declined, no-response)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}

			result, err := services.SetStatus(app.Ctx, app.Database, app.Engine, app.Logger, date, args[0], status)
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// RemoveCmd creates the remove command
func RemoveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <volunteer>",
		Short: "Take a volunteer off the list, undoing what the invite recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}

			result, err := services.RemoveFromWeek(app.Ctx, app.Database, app.Engine, app.Logger, date, args[0])
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// FinalizeCmd creates the finalize command
func FinalizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Lock the list once enough volunteers have confirmed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}

			result, err := services.FinalizeWeek(app.Ctx, app.Database, app.Engine, app.Logger, date)
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// DeleteWeekCmd creates the deleteWeek command
func DeleteWeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deleteWeek",
		Short: "Delete the list for a meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")

			result, err := services.DeleteWeek(app.Ctx, app.Database, app.Engine, app.Logger, date, app.confirm(yes))
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
	addDateFlag(cmd)
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// SentCmd creates the sent command
func SentCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sent <volunteer> <invite|followUp|reminder>",
		Short: "Record that a message was sent to an invitee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}
			kind, err := model.ParseMessageKind(args[1])
			if err != nil {
				return err
			}

			result, err := services.RecordDelivery(app.Ctx, app.Database, app.Engine, app.Logger, date, args[0], kind)
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			return nil
		},
	}
	addDateFlag(cmd)
	return cmd
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past and upcoming meeting lists, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			summaries, err := services.ListWeeks(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}
			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}
			app.Logger.Debug("history command", zap.Int("weeks", len(summaries)))

			if len(summaries) == 0 {
				fmt.Println("No lists yet.")
				return nil
			}

			fmt.Printf("\n%-12s %-11s %-10s %s\n", "Date", "Stage", "Confirmed", "Invited")
			for _, s := range summaries {
				fmt.Printf("%-12s %s%-11s%s %-10d %d\n",
					s.Date, stageColor(s.Stage), s.Stage, colorReset, s.Confirmed, len(s.Invites))
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 10, "Number of weeks to show (0 for all)")
	return cmd
}
