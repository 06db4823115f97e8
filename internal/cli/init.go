package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory",
		Long: `Initialize the data directory and the task store.

This command creates the data directory with:
- the task store for the configured backend (json, sqlite or git)
- logs/: directory for log files

Running it again is safe; existing tasks are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitStoreUseCase().Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized todo-this-week in %s (%d tasks)\n", c.Config.DataDir, out.Tasks)
			return nil
		},
	}
}
