package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/tasks"
)

// NewResourceCmd creates the resource command tree
func NewResourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage task resources",
		Long:  "Attach and detach study resources (links, files, notes, videos) on tasks",
	}

	cmd.AddCommand(newResourceAddCmd())
	cmd.AddCommand(newResourceRemoveCmd())

	return cmd
}

func newResourceAddCmd() *cobra.Command {
	var (
		resType     string
		url         string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Attach a resource to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			task, err := app.Tasks.AddResource(ctx, args[0], tasks.ResourceDraft{
				Type:        models.ResourceType(resType),
				Title:       args[1],
				URL:         url,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to add resource: %w", err)
			}

			res := task.Resources[len(task.Resources)-1]
			fmt.Printf("Attached resource %s to %q\n", res.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resType, "type", "t", "link", "Resource type (link, file, note, video)")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Resource URL")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Resource description")

	return cmd
}

func newResourceRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <task-id> <resource-id>",
		Short: "Detach a resource from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			task, err := app.Tasks.RemoveResource(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to remove resource: %w", err)
			}
			fmt.Printf("Removed resource from %q\n", task.Title)
			return nil
		},
	}
	return cmd
}
