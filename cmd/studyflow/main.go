package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/cmd/studyflow/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "studyflow",
		Short: "Academic task manager and study timer",
		Long:  "CLI for managing tasks, courses and calendar events with smart priority scoring, a pomodoro study timer and deadline alerts",
	}

	rootCmd.AddCommand(commands.NewTaskCmd())
	rootCmd.AddCommand(commands.NewResourceCmd())
	rootCmd.AddCommand(commands.NewTimerCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewAlertsCmd())
	rootCmd.AddCommand(commands.NewRecalcCmd())
	rootCmd.AddCommand(commands.NewCourseCmd())
	rootCmd.AddCommand(commands.NewEventCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
