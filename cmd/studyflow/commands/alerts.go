package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewAlertsCmd creates the alerts command tree
func NewAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Deadline alerts and motivation",
	}

	cmd.AddCommand(newAlertsCheckCmd())
	cmd.AddCommand(newAlertsMotivateCmd())

	return cmd
}

func newAlertsCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check tasks for deadline alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			tasks, err := app.Tasks.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}

			app.Dispatcher.CheckAndShowAlerts(tasks)
			return nil
		},
	}
	return cmd
}

func newAlertsMotivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motivate",
		Short: "Print the daily motivation message",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Dispatcher.DailyMotivation()
			return nil
		},
	}
	return cmd
}
