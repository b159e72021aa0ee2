package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

// DraftCmd creates the draft command
func DraftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft <invite|followUp|reminder> [volunteer]",
		Short: "Draft messages with tap-to-send SMS links",
		Long: `Draft messages for the list. Without a volunteer, invites are drafted for everyone
not yet invited, follow-ups for everyone who has not answered and reminders for
everyone confirmed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}
			kind, err := model.ParseMessageKind(args[0])
			if err != nil {
				return err
			}
			var query string
			if len(args) > 1 {
				query = args[1]
			}
			ios, _ := cmd.Flags().GetBool("ios")

			drafts, err := services.DraftMessages(app.Ctx, app.Database, app.Logger, date, kind, query, ios)
			if err != nil {
				return err
			}

			if len(drafts) == 0 {
				fmt.Printf("No one on the %s list needs a %s message.\n", date, kind)
				return nil
			}

			for _, d := range drafts {
				fmt.Printf("\n%s (%s)\n", d.Name, d.Phone)
				fmt.Println(strings.Repeat("-", 40))
				fmt.Println(d.Body)
				fmt.Printf("%s%s%s\n", colorDim, d.SMSLink, colorReset)
			}
			fmt.Printf("\nRecord each one with: sent <volunteer> %s\n\n", kind)
			return nil
		},
	}
	addDateFlag(cmd)
	cmd.Flags().Bool("ios", false, "Build SMS links for iOS")
	return cmd
}

// SuggestCmd creates the suggest command
func SuggestCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank who to invite next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFromFlags(app, cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			suggestions, err := services.SuggestNext(app.Ctx, app.Database, app.Engine.Policy, app.Logger, date, limit)
			if err != nil {
				return err
			}

			if len(suggestions) == 0 {
				fmt.Println("No active volunteers left to invite.")
				return nil
			}

			fmt.Printf("\nNext up for %s:\n\n", date)
			for i, s := range suggestions {
				last := "never"
				if !s.LastTouch.IsZero() {
					last = s.LastTouch.String()
				}
				fmt.Printf("%2d. %-24s %-10s last %s\n", i+1, s.Volunteer.Name, s.Cadence, last)
				for _, note := range s.Notes {
					fmt.Printf("      %s⚠ %s%s\n", colorYellow, note, colorReset)
				}
			}
			fmt.Println()
			return nil
		},
	}
	addDateFlag(cmd)
	cmd.Flags().IntP("limit", "n", 10, "Number of suggestions (0 for all)")
	return cmd
}
