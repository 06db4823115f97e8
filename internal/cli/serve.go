package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/httpapi"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/logging"
)

// shutdownTimeout bounds how long serve waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Addr string
		Echo bool
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over HTTP",
		Long: `Serve every task operation as a JSON API under /api.

When [server] table_db is set, the instance also hosts a table service
under /v1/collections that other instances can use as their remote
mirror. Requests to it must carry the [server] table_token as a bearer
token.

Examples:
  todo-this-week serve
  todo-this-week serve --addr :8080 --echo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Echo {
				if l, ok := c.TaskLogger.(*logging.Logger); ok {
					l.SetEcho(cmd.ErrOrStderr())
				}
			}

			srv, err := newHTTPServer(c, opts.Addr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", srv.Addr)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			c.Logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default: [server] addr)")
	cmd.Flags().BoolVar(&opts.Echo, "echo", false, "Echo the task log to stderr")

	return cmd
}

// newHTTPServer builds the server for c. addr overrides the configured address.
func newHTTPServer(c *app.Container, addr string) (*http.Server, error) {
	server := c.AppConfig.Server
	if addr == "" {
		addr = server.Addr
	}

	opts := httpapi.Options{TableToken: server.TableToken}
	if server.TableDB != "" {
		table, err := c.TableBackend()
		if err != nil {
			return nil, fmt.Errorf("open table service database: %w", err)
		}
		opts.Table = table
	}

	return &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(c, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
