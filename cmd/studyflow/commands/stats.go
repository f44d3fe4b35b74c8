package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/internal/notify"
	"github.com/studyflow/studyflow/internal/timer"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			tm := timer.New(app.Store, notify.NewWriterNotifier(os.Stdout), app.Logger)
			stats, err := tm.StudyStats(ctx, days)
			if err != nil {
				return fmt.Errorf("failed to compute stats: %w", err)
			}

			fmt.Printf("Last %d days\n", days)
			fmt.Printf("  Focus sessions:   %d\n", stats.TotalSessions)
			fmt.Printf("  Minutes studied:  %d\n", stats.TotalMinutes)
			fmt.Printf("  Avg session:      %.1f min\n", stats.AverageSessionLength)
			fmt.Printf("  Sessions today:   %d\n", stats.FocusSessionsToday)
			fmt.Printf("  Streak:           %d day%s\n", stats.ProductivityStreak, pluralSuffix(stats.ProductivityStreak))
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "n", 7, "Window size in days")

	return cmd
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
