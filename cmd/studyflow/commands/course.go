package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/internal/courses"
)

// NewCourseCmd creates the course command tree
func NewCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}

	cmd.AddCommand(newCourseAddCmd())
	cmd.AddCommand(newCourseListCmd())
	cmd.AddCommand(newCourseDeleteCmd())
	cmd.AddCommand(newCourseSeedCmd())

	return cmd
}

func newCourseSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed an empty catalog with starter courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			courses, err := app.Courses.SeedDefaults(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed courses: %w", err)
			}
			fmt.Printf("Catalog has %d course%s\n", len(courses), pluralSuffix(len(courses)))
			return nil
		},
	}
	return cmd
}

func newCourseAddCmd() *cobra.Command {
	var (
		professor   string
		credits     int
		targetGrade float64
	)

	cmd := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Add a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			draft := courses.Draft{
				Code:      args[0],
				Name:      args[1],
				Professor: professor,
			}
			if cmd.Flags().Changed("credits") {
				draft.Credits = &credits
			}
			if cmd.Flags().Changed("target-grade") {
				draft.TargetGrade = &targetGrade
			}

			course, err := app.Courses.Add(ctx, draft)
			if err != nil {
				return fmt.Errorf("failed to add course: %w", err)
			}

			fmt.Printf("Added %s %s (%s, color %s)\n", course.Code, course.Name, course.ID, course.Color)
			return nil
		},
	}

	cmd.Flags().StringVar(&professor, "professor", "", "Professor name")
	cmd.Flags().IntVar(&credits, "credits", 0, "Credit hours")
	cmd.Flags().Float64Var(&targetGrade, "target-grade", 0, "Target grade (0-100)")

	return cmd
}

func newCourseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			all, err := app.Courses.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list courses: %w", err)
			}

			if len(all) == 0 {
				fmt.Println("No courses")
				return nil
			}

			for _, course := range all {
				line := fmt.Sprintf("%-36s  %-10s %s", course.ID, course.Code, course.Name)
				if course.Professor != "" {
					line += fmt.Sprintf("  (%s)", course.Professor)
				}
				if course.CurrentGrade != nil {
					line += fmt.Sprintf("  grade %.1f", *course.CurrentGrade)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	return cmd
}

func newCourseDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Courses.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete course: %w", err)
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}
