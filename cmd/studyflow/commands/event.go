package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/internal/calendar"
	"github.com/studyflow/studyflow/internal/models"
)

// NewEventCmd creates the event command tree
func NewEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage calendar events",
	}

	cmd.AddCommand(newEventAddCmd())
	cmd.AddCommand(newEventListCmd())
	cmd.AddCommand(newEventDeleteCmd())

	return cmd
}

func newEventAddCmd() *cobra.Command {
	var (
		description string
		eventType   string
		start       string
		end         string
		location    string
		recurring   string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			startDate, err := parseDate(start)
			if err != nil {
				return err
			}

			draft := calendar.Draft{
				Title:       args[0],
				Description: description,
				Type:        models.EventType(eventType),
				StartDate:   startDate,
				Location:    location,
				Recurring:   models.Recurrence(recurring),
			}
			if end != "" {
				endDate, err := parseDate(end)
				if err != nil {
					return err
				}
				draft.EndDate = &endDate
			}

			event, err := app.Calendar.Add(ctx, draft)
			if err != nil {
				return fmt.Errorf("failed to add event: %w", err)
			}

			fmt.Printf("Added event %s on %s\n", event.ID, event.StartDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Event description")
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Event type (class, exam, assignment, event, reminder)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().StringVar(&recurring, "recurring", "", "Recurrence (none, daily, weekly, monthly)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEventListCmd() *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			var events []models.CalendarEvent
			if on != "" {
				day, err := parseDate(on)
				if err != nil {
					return err
				}
				events, err = app.Calendar.OnDate(ctx, day)
				if err != nil {
					return fmt.Errorf("failed to list events: %w", err)
				}
			} else {
				events, err = app.Calendar.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list events: %w", err)
				}
			}

			if len(events) == 0 {
				fmt.Println("No events")
				return nil
			}

			for _, event := range events {
				line := fmt.Sprintf("%-36s  %s  %-10s %s",
					event.ID, event.StartDate.Format(time.RFC3339), event.Type, event.Title)
				if event.Location != "" {
					line += fmt.Sprintf(" @ %s", event.Location)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "Only events on this date (YYYY-MM-DD)")

	return cmd
}

func newEventDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Calendar.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete event: %w", err)
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}
