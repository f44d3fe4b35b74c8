package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/tasks"
	"github.com/studyflow/studyflow/internal/timer"
)

// NewTaskCmd creates the task command tree
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  "Create, list, update and delete tasks",
	}

	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskDeleteCmd())

	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var (
		description string
		priority    string
		category    string
		due         string
		courseID    string
		taskType    string
		difficulty  string
		estimated   int
		weight      float64
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			draft := tasks.Draft{
				Title:       args[0],
				Description: description,
				Priority:    models.TaskPriority(priority),
				Category:    category,
				CourseID:    courseID,
				TaskType:    models.TaskType(taskType),
				Difficulty:  models.Difficulty(difficulty),
			}
			if due != "" {
				dueDate, err := parseDate(due)
				if err != nil {
					return err
				}
				draft.DueDate = &dueDate
			}
			if cmd.Flags().Changed("estimated") {
				draft.EstimatedTime = &estimated
			}
			if cmd.Flags().Changed("weight") {
				draft.Weight = &weight
			}

			task, err := app.Tasks.Create(ctx, draft)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}

			fmt.Printf("Created task %s\n", task.ID)
			printTask(task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&category, "category", "", "Free-form category")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&courseID, "course", "", "Course ID")
	cmd.Flags().StringVar(&taskType, "type", "", "Task type (assignment, exam, project, reading, study, other)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty (easy, medium, hard)")
	cmd.Flags().IntVar(&estimated, "estimated", 0, "Estimated time in minutes")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Grade weight percentage")

	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		status     string
		courseID   string
		byPriority bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			all, err := app.Tasks.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}

			filtered := all[:0:0]
			for _, task := range all {
				if status != "" && string(task.Status) != status {
					continue
				}
				if courseID != "" && task.CourseID != courseID {
					continue
				}
				filtered = append(filtered, task)
			}

			if byPriority {
				sort.SliceStable(filtered, func(i, j int) bool {
					return scoreOf(filtered[i]) > scoreOf(filtered[j])
				})
			}

			if len(filtered) == 0 {
				fmt.Println("No tasks")
				return nil
			}

			for _, task := range filtered {
				fmt.Println(taskLine(task))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (to-do, in-progress, completed)")
	cmd.Flags().StringVar(&courseID, "course", "", "Filter by course ID")
	cmd.Flags().BoolVar(&byPriority, "by-priority", false, "Sort by smart priority, highest first")

	return cmd
}

func newTaskShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			all, err := app.Tasks.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
			for _, task := range all {
				if task.ID == args[0] {
					printTask(task)
					return nil
				}
			}
			return fmt.Errorf("task %s not found", args[0])
		},
	}
	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			task, err := app.Tasks.UpdateStatus(ctx, args[0], models.TaskStatusCompleted)
			if err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}
			fmt.Printf("Completed %q\n", task.Title)
			return nil
		},
	}
	return cmd
}

func newTaskUpdateCmd() *cobra.Command {
	var (
		title       string
		description string
		status      string
		priority    string
		due         string
		clearDue    bool
		difficulty  string
		grade       float64
		weight      float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			upd := tasks.Update{ClearDueDate: clearDue}
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("status") {
				s := models.TaskStatus(status)
				upd.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				p := models.TaskPriority(priority)
				upd.Priority = &p
			}
			if cmd.Flags().Changed("difficulty") {
				d := models.Difficulty(difficulty)
				upd.Difficulty = &d
			}
			if cmd.Flags().Changed("grade") {
				upd.Grade = &grade
			}
			if cmd.Flags().Changed("weight") {
				upd.Weight = &weight
			}
			if due != "" {
				dueDate, err := parseDate(due)
				if err != nil {
					return err
				}
				upd.DueDate = &dueDate
			}

			task, err := app.Tasks.Update(ctx, args[0], upd)
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			printTask(task)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status (to-do, in-progress, completed)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority (low, medium, high)")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "New difficulty (easy, medium, hard)")
	cmd.Flags().Float64Var(&grade, "grade", 0, "Received grade (0-100)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Grade weight percentage")

	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Tasks.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD or RFC 3339)", value)
	}
	// Date-only deadlines mean end of that day.
	return t.Add(23*time.Hour + 59*time.Minute), nil
}

func scoreOf(task models.Task) float64 {
	if task.SmartPriority == nil {
		return 0
	}
	return *task.SmartPriority
}

func taskLine(task models.Task) string {
	var b strings.Builder
	marker := " "
	if task.Completed {
		marker = "x"
	}
	fmt.Fprintf(&b, "[%s] %-36s  %s  %-11s", marker, task.ID, task.Priority, task.Status)
	if task.SmartPriority != nil {
		fmt.Fprintf(&b, "  score %5.1f", *task.SmartPriority)
	}
	fmt.Fprintf(&b, "  %s", task.Title)
	if task.DueDate != nil {
		fmt.Fprintf(&b, " (due %s)", task.DueDate.Format("2006-01-02"))
	}
	return b.String()
}

func printTask(task models.Task) {
	fmt.Printf("ID:          %s\n", task.ID)
	fmt.Printf("Title:       %s\n", task.Title)
	if task.Description != "" {
		fmt.Printf("Description: %s\n", task.Description)
	}
	fmt.Printf("Status:      %s\n", task.Status)
	fmt.Printf("Priority:    %s\n", task.Priority)
	if task.TaskType != "" {
		fmt.Printf("Type:        %s\n", task.TaskType)
	}
	if task.Difficulty != "" {
		fmt.Printf("Difficulty:  %s\n", task.Difficulty)
	}
	if task.CourseID != "" {
		fmt.Printf("Course:      %s\n", task.CourseID)
	}
	if task.DueDate != nil {
		fmt.Printf("Due:         %s\n", task.DueDate.Format(time.RFC3339))
	}
	if task.Weight != nil {
		fmt.Printf("Weight:      %.1f%%\n", *task.Weight)
	}
	if task.Grade != nil {
		fmt.Printf("Grade:       %.1f\n", *task.Grade)
	}
	if task.EstimatedTime != nil {
		fmt.Printf("Estimated:   %d min\n", *task.EstimatedTime)
	}
	if task.ActualTime != nil {
		fmt.Printf("Actual:      %d min\n", *task.ActualTime)
	}
	if task.SmartPriority != nil {
		fmt.Printf("Smart priority: %.1f (urgency %.1f, importance %.1f)\n",
			*task.SmartPriority, deref(task.UrgencyScore), deref(task.ImportanceScore))
	}
	for _, res := range task.Resources {
		fmt.Printf("Resource:    [%s] %s %s\n", res.Type, res.Title, res.URL)
	}
	if n := len(task.StudySessions); n > 0 {
		total := 0
		for _, s := range task.StudySessions {
			total += s.Duration
		}
		fmt.Printf("Sessions:    %d (%s studied)\n", n, timer.FormatTime(total*60))
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
