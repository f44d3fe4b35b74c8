package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecalcCmd creates the recalc command
func NewRecalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate smart priorities for all open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := NewApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			tasks, err := app.Tasks.RecalculateAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to recalculate priorities: %w", err)
			}

			open := 0
			for _, task := range tasks {
				if !task.Completed {
					open++
				}
			}
			fmt.Printf("Rescored %d open task%s\n", open, pluralSuffix(open))
			return nil
		},
	}
	return cmd
}
