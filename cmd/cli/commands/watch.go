package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/services"
)

const watchInterval = time.Minute

// WatchCmd creates the watch command
func WatchCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay running and remind you to finalize on meeting day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			nudger := &services.Nudger{Store: app.Database, Schedule: app.Schedule, Logger: app.Logger}
			fmt.Printf("Watching for the next meeting (%s). Press Ctrl+C to stop.\n", app.Schedule.NextMeetingDate(time.Now()))

			ticker := time.NewTicker(watchInterval)
			defer ticker.Stop()

			check := func(now time.Time) {
				nudge, err := nudger.Check(ctx, now)
				if err != nil {
					app.Logger.Warn("Finalize check failed", zap.Error(err))
					return
				}
				if nudge != nil {
					fmt.Printf("\a%s🔔 %s%s\n", colorYellow, nudge, colorReset)
				}
			}

			check(time.Now())
			for {
				select {
				case <-ctx.Done():
					fmt.Println("\nStopped watching.")
					return nil
				case now := <-ticker.C:
					check(now)
				}
			}
		},
	}
}
