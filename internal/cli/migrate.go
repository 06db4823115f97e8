package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		From   string
		Path   string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy tasks from another storage backend",
		Long: `Copy every task from another storage backend into the configured one.

Switch [store] backend first, then migrate from the backend you used
before. Tasks already present with identical content are skipped; a
different task under the same id aborts the migration before anything
is written.

Examples:
  # After switching [store] backend to "sqlite"
  todo-this-week migrate --from json

  # Copy from a specific file
  todo-this-week migrate --from json --path ./old/tasks.json --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from := strings.ToLower(strings.TrimSpace(opts.From))
			switch from {
			case domain.BackendJSON, domain.BackendSQLite, domain.BackendGit:
			default:
				return &domain.ValidationError{Field: "from", Err: fmt.Errorf("%w: %q", domain.ErrUnknownBackend, opts.From)}
			}

			uc, closer, err := c.MigrateStoreUseCase(from, opts.Path)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			out, err := uc.Execute(cmd.Context(), usecase.MigrateStoreInput{DryRun: opts.DryRun})
			if err != nil {
				return err
			}

			if out.Total == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No tasks found in %s store\n", from)
				return nil
			}

			verb := "Migrated"
			if opts.DryRun {
				verb = "Would migrate"
			}
			summary := fmt.Sprintf("%s %d task(s) from %s store", verb, out.Migrated, from)
			if out.Skipped > 0 {
				summary += fmt.Sprintf(" (skipped %d existing)", out.Skipped)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "Source backend: json, sqlite, git")
	cmd.Flags().StringVar(&opts.Path, "path", "", "Source store path (default: the backend's path in the data directory)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be copied without writing")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
