// Package httpapi serves the task operations and the table service over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/tableclient"
)

// Options configures the router.
type Options struct {
	Table      domain.RemoteTable // Backs the table service; nil disables it
	TableToken string             // Bearer token required by the table service
}

// NewRouter builds the HTTP handler for c.
func NewRouter(c *app.Container, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(c.Logger))
	r.Use(middleware.Recoverer)

	h := &handlers{c: c, logger: c.Logger}
	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", h.listTasks)
		r.Post("/tasks", h.createTask)
		r.Post("/tasks/bulk", h.createTasksFromFile)
		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Get("/", h.showTask)
			r.Put("/", h.updateTask)
			r.Patch("/", h.editTask)
			r.Delete("/", h.deleteTask)
			r.Post("/complete", h.completeTask)
			r.Post("/move", h.swapTask)
			r.Put("/schedule", h.setSchedule)
			r.Post("/assignments", h.assignSlot)
			r.Delete("/assignments/{day}/{block}", h.unassignSlot)
			r.Post("/assignments/{day}/{block}/complete", h.completeAssignment)
			r.Post("/assignments/{day}/{block}/move", h.moveSlot)
		})
		r.Delete("/assignments", h.unassignAll)
		r.Put("/lanes/{lane}/order", h.reorderLane)
		r.Get("/week", h.listWeek)
		r.Get("/blocks", h.listBlocks)

		r.Get("/remote", h.remoteStatus)
		r.Post("/remote", h.connectRemote)
		r.Delete("/remote", h.disconnectRemote)
		r.Post("/remote/export", h.exportAll)
		r.Post("/remote/import", h.importAll)

		r.Get("/backup", h.exportBackup)
		r.Post("/backup", h.importBackup)

		r.Get("/notifications", h.notifications)
	})

	if opts.Table != nil {
		t := &tableHandlers{table: opts.Table, logger: c.Logger}
		r.Route(tableclient.APIPrefix+"/{cid}", func(r chi.Router) {
			r.Use(bearerAuth(opts.TableToken))
			r.Get("/title", t.title)
			r.Post("/sheets", t.ensureSheets)
			r.Route("/sheets/{sid}", func(r chi.Router) {
				r.Post("/clear", t.clear)
				r.Get("/rows", t.getRows)
				r.Post("/rows", t.appendRow)
				r.Put("/rows", t.writeRows)
				r.Put("/rows/{row}", t.overwriteRow)
				r.Delete("/rows/{row}", t.deleteRow)
			})
		})
	}

	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
