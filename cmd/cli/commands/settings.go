package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

// SettingsCmd creates the settings command
func SettingsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the meeting settings and message templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := services.GetSettings(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", s.MeetingName)
			fmt.Printf("%s at %s (arrive %s)\n", s.MeetingDay, s.MeetingStartTime, s.MeetingArriveTime)
			fmt.Printf("Capacity: min %d, preferred %d, max %d\n", s.MinConfirmed, s.PreferredConfirmed, s.MaxVolunteers)
			if s.Mission != "" {
				fmt.Printf("\n%s%s%s\n", colorDim, s.Mission, colorReset)
			}

			templates := map[string]string{
				"invite":            s.Messages.Invite,
				"followUp":          s.Messages.FollowUp,
				"reminder":          s.Messages.Reminder,
				"firstTime":         s.Messages.FirstTime,
				"inviteFirstTime":   s.Messages.InviteFirstTime,
				"followUpFirstTime": s.Messages.FollowUpFirstTime,
				"reminderFirstTime": s.Messages.ReminderFirstTime,
			}
			for _, name := range services.MessageTemplateNames {
				text := templates[name]
				if text == "" {
					text = colorDim + "(not set)" + colorReset
				}
				fmt.Printf("\n[%s]\n%s\n", name, text)
			}
			fmt.Println()
			return nil
		},
	}
}

// SetCapacityCmd creates the setCapacity command
func SetCapacityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setCapacity <min_confirmed> <preferred> <max>",
		Short: "Change the staffing targets",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]int, len(args))
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("capacity values must be numbers, got: %s", arg)
				}
				values[i] = n
			}

			if err := services.SetCapacity(app.Ctx, app.Database, app.Logger, values[0], values[1], values[2]); err != nil {
				return err
			}
			fmt.Println("✓ Capacity updated")
			return nil
		},
	}
}

// SetMessageCmd creates the setMessage command
func SetMessageCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setMessage <template> <text>",
		Short: "Replace a message template ([Name] is filled in): " + strings.Join(services.MessageTemplateNames, ", "),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.ReplaceAll(strings.Join(args[1:], " "), `\n`, "\n")
			if err := services.SetMessageTemplate(app.Ctx, app.Database, app.Logger, args[0], text); err != nil {
				return err
			}
			fmt.Printf("✓ %s message updated\n", args[0])
			return nil
		},
	}
}
