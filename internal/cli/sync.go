package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

// newRemoteCommand creates the remote command.
func newRemoteCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Mirror tasks to a remote table service",
		Long: `Connect, inspect and synchronize the remote tabular mirror.

While connected, every create, update and delete is mirrored to the
"Active List" and "Deleted" collections of the remote document. The
endpoint is an http(s) URL of a table service (see 'serve') or a
sqlite:// path to a local database.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newRemoteConnectCommand(c))
	cmd.AddCommand(newRemoteDisconnectCommand(c))
	cmd.AddCommand(newRemoteStatusCommand(c))
	cmd.AddCommand(newRemoteExportCommand(c))
	cmd.AddCommand(newRemoteImportCommand(c))

	return cmd
}

func newRemoteConnectCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Token      string
		Collection string
	}

	cmd := &cobra.Command{
		Use:   "connect [endpoint]",
		Short: "Connect to a remote document",
		Long: `Connect to a remote document and create its collections if missing.

Values not given on the command line come from the [remote] section of
the configuration.

Examples:
  todo-this-week remote connect https://tables.example.com --token s3cret --collection week
  todo-this-week remote connect sqlite:///home/me/mirror.db --collection week`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := c.AppConfig.Remote
			input := usecase.ConnectRemoteInput{
				Endpoint:     remote.Endpoint,
				Token:        remote.Token,
				CollectionID: remote.Collection,
			}
			if len(args) == 1 {
				input.Endpoint = args[0]
			}
			if cmd.Flags().Changed("token") {
				input.Token = opts.Token
			}
			if cmd.Flags().Changed("collection") {
				input.CollectionID = opts.Collection
			}

			out, err := c.ConnectRemoteUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected to %q (%s)\n", out.Session.Title, out.Session.Endpoint)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Token, "token", "", "Bearer token for the table service")
	cmd.Flags().StringVar(&opts.Collection, "collection", "", "Remote document id")

	return cmd
}

func newRemoteDisconnectCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the remote session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.DisconnectRemoteUseCase().Execute(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
			return nil
		},
	}
}

func newRemoteStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the remote session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.RemoteStatusUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Connected {
				_, _ = fmt.Fprintln(w, "Not connected")
				return nil
			}
			_, _ = fmt.Fprintf(w, "Endpoint:   %s\n", out.Session.Endpoint)
			_, _ = fmt.Fprintf(w, "Collection: %s\n", out.Session.CollectionID)
			if out.TitleErr != nil {
				_, _ = fmt.Fprintf(w, "Title:      %s\n", warnStyle.Render("unreachable: "+out.TitleErr.Error()))
				return nil
			}
			_, _ = fmt.Fprintf(w, "Title:      %s\n", out.Title)
			return nil
		},
	}
}

func newRemoteExportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Overwrite the remote active list with every local task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExportAllUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks\n", out.Rows)
			return nil
		},
	}
}

func newRemoteImportCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace local tasks with the remote active list",
		Long: `Replace every local task with the rows of the remote active list.

This discards local changes, so it must be confirmed with --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ImportAllUseCase().Execute(cmd.Context(), usecase.ImportAllInput{Confirm: yes})
			if err != nil {
				return confirmHint(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", out.Tasks)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm replacing local tasks")

	return cmd
}

// newBackupCommand creates the backup command.
func newBackupCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the task collection as a file",
	}

	cmd.AddCommand(newBackupExportCommand(c))
	cmd.AddCommand(newBackupImportCommand(c))

	return cmd
}

func newBackupExportCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every task to a file (or stdout)",
		Long: `Write every task to a JSON or YAML file.

The format defaults to the file extension (.yaml or .yml means YAML)
and otherwise to JSON. Without a file the backup goes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			f, err := backupFormat(format, path)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if path != "" {
				file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
				if err != nil {
					return fmt.Errorf("create backup file: %w", err)
				}
				defer func() { _ = file.Close() }()
				w = file
			}

			out, err := c.ExportBackupUseCase().Execute(cmd.Context(), usecase.ExportBackupInput{W: w, Format: f})
			if err != nil {
				return err
			}
			if path != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d tasks to %s\n", out.Tasks, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from file extension)")

	return cmd
}

func newBackupImportCommand(c *app.Container) *cobra.Command {
	var (
		format string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every task with the contents of a backup file",
		Long: `Replace every task with the contents of a backup file.

This discards the current tasks, so it must be confirmed with --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := backupFormat(format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer func() { _ = file.Close() }()

			out, err := c.ImportBackupUseCase().Execute(cmd.Context(), usecase.ImportBackupInput{
				R:       file,
				Format:  f,
				Confirm: yes,
			})
			if err != nil {
				return confirmHint(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from file extension)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm replacing local tasks")

	return cmd
}

// backupFormat picks the explicit format, or derives it from the file extension.
func backupFormat(format, path string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = usecase.BackupYAML
		}
	}
	return usecase.ParseBackupFormat(format)
}

func confirmHint(err error) error {
	if errors.Is(err, domain.ErrConfirmRequired) {
		return fmt.Errorf("%w: rerun with --yes", err)
	}
	return err
}
