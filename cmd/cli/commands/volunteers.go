package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/core/registry"
	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

func defaultCadence(app *AppContext) model.Cadence {
	return app.Engine.Policy.DefaultCadence
}

func printVolunteer(v *model.Volunteer) {
	fmt.Printf("✓ %s: %s, %s, active %s, first time %s\n",
		v.Name, v.Role(), v.InviteCadence, yesNo(v.Active), yesNo(v.FirstTime))
}

// VolunteersCmd creates the volunteers command
func VolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volunteers",
		Short: "List the volunteer registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showInactive, _ := cmd.Flags().GetBool("all")

			volunteers, err := services.ListVolunteers(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n%-24s %-22s %-10s %-14s %s\n", "Name", "Role", "Cadence", "Phone", "Last touch")
			shown := 0
			for _, v := range volunteers {
				if !v.Active && !showInactive {
					continue
				}
				shown++

				name := v.Name
				if v.FirstTime {
					name += " *"
				}
				last := model.MaxDate(v.LastInvitedAt, v.LastConfirmedDate, v.LastDeclinedDate)
				line := fmt.Sprintf("%-24s %-22s %-10s %-14s %s", name, v.Role(), v.InviteCadence, v.Phone, last)
				if !v.Active {
					line = colorDim + line + " (inactive)" + colorReset
				}
				fmt.Println(line)
			}
			fmt.Printf("\n%d of %d volunteers shown (* first time)\n\n", shown, len(volunteers))
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Include inactive volunteers")
	return cmd
}

// AddVolunteerCmd creates the addVolunteer command
func AddVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addVolunteer <name> <phone>",
		Short: "Add a volunteer to the registry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roleName, _ := cmd.Flags().GetString("role")
			cadence, _ := cmd.Flags().GetString("cadence")
			firstTime, _ := cmd.Flags().GetBool("first-time")

			role, err := model.ParseRole(roleName)
			if err != nil {
				return err
			}

			p := registry.Profile{
				Name:      args[0],
				Phone:     args[1],
				Role:      role,
				Cadence:   model.Cadence(cadence),
				FirstTime: firstTime,
				Active:    true,
			}
			v, err := services.AddVolunteer(app.Ctx, app.Database, app.Logger, p, defaultCadence(app), app.Engine.NewID)
			if err != nil {
				return err
			}
			printVolunteer(v)
			return nil
		},
	}
	cmd.Flags().String("role", "", "Core role (defaults to Volunteer)")
	cmd.Flags().String("cadence", "", "Invite cadence: weekly, biweekly, monthly, quarterly or yearly")
	cmd.Flags().Bool("first-time", false, "Mark as a first-time volunteer")
	return cmd
}

// EditVolunteerCmd creates the editVolunteer command
func EditVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editVolunteer <volunteer>",
		Short: "Change a volunteer's name or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			phone, _ := cmd.Flags().GetString("phone")
			if name == "" && phone == "" {
				return fmt.Errorf("nothing to change: pass --name or --phone")
			}

			v, err := services.EditVolunteer(app.Ctx, app.Database, app.Logger, args[0], func(p *registry.Profile) {
				if name != "" {
					p.Name = name
				}
				if phone != "" {
					p.Phone = phone
				}
			}, defaultCadence(app))
			if err != nil {
				return err
			}
			printVolunteer(v)
			return nil
		},
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("phone", "", "New phone number")
	return cmd
}

// ToggleActiveCmd creates the toggleActive command
func ToggleActiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleActive <volunteer>",
		Short: "Pause or resume invites for a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := services.ToggleActive(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}
			printVolunteer(v)
			return nil
		},
	}
}

// ToggleFirstTimeCmd creates the toggleFirstTime command
func ToggleFirstTimeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleFirstTime <volunteer>",
		Short: "Mark or unmark a volunteer as first time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := services.ToggleFirstTime(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}
			printVolunteer(v)
			return nil
		},
	}
}

// SetRoleCmd creates the setRole command
func SetRoleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setRole <volunteer> <role>",
		Short: "Change a volunteer's core role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := model.ParseRole(args[1])
			if err != nil {
				return err
			}
			v, err := services.SetRole(app.Ctx, app.Database, app.Logger, args[0], role)
			if err != nil {
				return err
			}
			printVolunteer(v)
			return nil
		},
	}
}

// SetCadenceCmd creates the setCadence command
func SetCadenceCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setCadence <volunteer> <cadence>",
		Short: "Change how often a volunteer is invited",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := services.SetCadence(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			printVolunteer(v)
			return nil
		},
	}
}

// DeleteVolunteerCmd creates the deleteVolunteer command
func DeleteVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deleteVolunteer <volunteer>",
		Short: "Remove a volunteer from the registry (past lists are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if err := services.DeleteVolunteer(app.Ctx, app.Database, app.Logger, args[0], app.confirm(yes)); err != nil {
				return err
			}
			fmt.Println("✓ Volunteer deleted")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
