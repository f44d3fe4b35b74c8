package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/notify"
	"github.com/studyflow/studyflow/internal/timer"
)

// NewTimerCmd creates the timer command
func NewTimerCmd() *cobra.Command {
	var (
		taskID      string
		minutes     int
		sessionType string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the study timer",
		Long:  "Run a pomodoro-style study timer in the foreground. Ctrl+C stops it and records the partial session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			tm := timer.New(app.Store, notify.NewWriterNotifier(os.Stdout), app.Logger,
				timer.WithSessionSink(app.Tasks),
				timer.WithPresets(app.Config.FocusMinutes, app.Config.ShortBreakMinutes, app.Config.LongBreakMinutes),
			)

			if sessionType != "" {
				if err := tm.SwitchSessionType(models.SessionType(sessionType)); err != nil {
					return err
				}
			}
			if minutes > 0 {
				if err := tm.SetDuration(minutes); err != nil {
					return err
				}
			}

			unsubscribe := tm.Subscribe(func(s timer.State) {
				switch s.Status {
				case timer.StatusRunning:
					fmt.Printf("\r%s session  %s remaining   ", s.SessionType, timer.FormatTime(s.TimeLeft))
				case timer.StatusPaused:
					fmt.Printf("\rpaused at %s            \n", timer.FormatTime(s.TimeLeft))
				case timer.StatusIdle:
					fmt.Printf("\r%s session ready (%s)    \n", s.SessionType, timer.FormatTime(s.TimeLeft))
				}
			})
			defer unsubscribe()

			tm.Start(taskID)
			state := tm.GetState()
			fmt.Printf("Started %s session (%s)\n", state.SessionType, timer.FormatTime(state.InitialTime))

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			fmt.Println()
			tm.Stop()
			fmt.Println("Timer stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskID, "task", "t", "", "Task to bind the session to (default general study)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Session length in minutes (default 25)")
	cmd.Flags().StringVar(&sessionType, "type", "", "Session type (focus, break, review)")

	return cmd
}
