// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/blocks"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/config"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/gitstore"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/idgen"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/jsonstore"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/logging"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/notify"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/session"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/sqlitekv"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/sqltable"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/tableclient"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// recentNotifications is how many notifications the container keeps for the HTTP API.
const recentNotifications = 50

// Config holds the application paths.
type Config struct {
	DataDir     string // Data directory (config, store, session, logs)
	StorePath   string // Path of the KV store file or repository
	SessionPath string // Path of the persisted sync session
}

// newConfig derives paths from the data directory and the loaded configuration.
func newConfig(dataDir string, appConfig *domain.Config) Config {
	return Config{
		DataDir:     dataDir,
		StorePath:   appConfig.StorePath(dataDir),
		SessionPath: domain.SessionPath(dataDir),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	KV               domain.KVStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	Dialer           domain.RemoteDialer
	Sessions         domain.SessionStore
	Notifier         domain.Notifier
	TaskLogger       domain.Logger
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager

	// Shared services
	Store *shared.TaskStore
	Sync  *shared.SyncEngine
	Grid  *domain.ScheduleGrid

	// Pointer fields
	Recent    *notify.Ring
	AppConfig *domain.Config
	Logger    *slog.Logger
	table     *sqltable.Table

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a Container for dataDir. Notifications and process diagnostics go to stderr.
func New(dataDir string, stderr io.Writer) (*Container, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = config.DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := newConfig(dataDir, appConfig)

	catalog, err := blocks.Load(appConfig.Blocks.File)
	if err != nil {
		return nil, err
	}

	kv, storeInit, closer, err := openStore(appConfig, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	taskLogger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))
	recent := notify.NewRing(recentNotifications)
	dialer := tableclient.NewDialer(nil)

	c := NewWithDeps(cfg, Deps{
		KV:               kv,
		StoreInitializer: storeInit,
		Clock:            domain.RealClock{},
		IDs:              idgen.UUID{},
		Dialer:           dialer,
		Sessions:         session.NewFileStore(cfg.SessionPath),
		Notifier:         notify.Multi{notify.NewConsole(stderr), recent},
		TaskLogger:       taskLogger,
		Catalog:          catalog,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: logging.ParseLevel(appConfig.Log.Level),
		})),
	})
	c.Recent = recent
	c.AppConfig = appConfig
	c.ConfigLoader = configLoader
	c.ConfigManager = config.NewManager(dataDir)
	c.closers = append(c.closers, dialer, taskLogger)
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	c.Sync.SetAutoSync(appConfig.Remote.AutoSync)

	if err := c.RestoreSession(context.Background()); err != nil {
		c.Logger.Warn("sync session not restored", "error", err)
	}
	return c, nil
}

// openStore opens the KV backend selected by the configuration.
func openStore(appConfig *domain.Config, path string) (domain.KVStore, domain.StoreInitializer, io.Closer, error) {
	switch appConfig.Store.Backend {
	case domain.BackendSQLite:
		s, err := sqlitekv.New(path)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, s, nil
	case domain.BackendGit:
		s, err := gitstore.Open(path, appConfig.Store.GitNamespace, appConfig.Store.EncryptionKey)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, nil, nil
	case domain.BackendJSON, "":
		s := jsonstore.New(path)
		return s, s, nil, nil
	}
	return nil, nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, appConfig.Store.Backend)
}

// Deps are the ports NewWithDeps wires together.
type Deps struct {
	KV               domain.KVStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	IDs              domain.IDGenerator
	Dialer           domain.RemoteDialer
	Sessions         domain.SessionStore
	Notifier         domain.Notifier
	TaskLogger       domain.Logger
	Catalog          *domain.Catalog // nil = built-in catalog
	Logger           *slog.Logger
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, deps Deps) *Container {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Container{
		KV:               deps.KV,
		StoreInitializer: deps.StoreInitializer,
		Clock:            deps.Clock,
		IDs:              deps.IDs,
		Dialer:           deps.Dialer,
		Sessions:         deps.Sessions,
		Notifier:         deps.Notifier,
		TaskLogger:       deps.TaskLogger,
		Store:            shared.NewTaskStore(deps.KV, deps.IDs, deps.TaskLogger),
		Sync:             shared.NewSyncEngine(deps.Dialer, deps.Clock, deps.TaskLogger, deps.Notifier),
		Grid:             domain.NewScheduleGrid(catalog),
		AppConfig:        domain.NewDefaultConfig(),
		Logger:           logger,
		Config:           cfg,
	}
}

// RestoreSession reconnects the sync engine to a previously saved session.
func (c *Container) RestoreSession(ctx context.Context) error {
	sess, err := c.Sessions.Load()
	if err != nil || sess == nil {
		return err
	}
	if err := sess.Ready(); err != nil {
		return err
	}
	table, err := c.Dialer.Dial(ctx, sess.Endpoint, sess.AuthToken)
	if err != nil {
		return err
	}
	c.Sync.SetSession(sess, table)
	return nil
}

// TableBackend opens the database served by the table service.
func (c *Container) TableBackend() (*sqltable.Table, error) {
	if c.table != nil {
		return c.table, nil
	}
	path := c.AppConfig.Server.TableDB
	if path == "" {
		return nil, errors.New("table service database not configured: set [server] table_db")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Config.DataDir, path)
	}
	t, err := sqltable.Open(path)
	if err != nil {
		return nil, err
	}
	c.table = t
	c.closers = append(c.closers, t)
	return t, nil
}

// Close waits for background sync calls and releases resources.
func (c *Container) Close() error {
	c.Sync.Wait()
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// UseCase factory methods

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Store, c.Sync)
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.Store, c.Sync, c.TaskLogger)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Store, c.Sync, c.Grid)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store, c.Sync, c.Grid)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.Sync)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Store, c.Sync)
}

// CompleteAssignmentUseCase returns a new CompleteAssignment use case.
func (c *Container) CompleteAssignmentUseCase() *usecase.CompleteAssignment {
	return usecase.NewCompleteAssignment(c.Store, c.Sync)
}

// AssignSlotUseCase returns a new AssignSlot use case.
func (c *Container) AssignSlotUseCase() *usecase.AssignSlot {
	return usecase.NewAssignSlot(c.Store, c.Sync, c.Grid)
}

// UnassignSlotUseCase returns a new UnassignSlot use case.
func (c *Container) UnassignSlotUseCase() *usecase.UnassignSlot {
	return usecase.NewUnassignSlot(c.Store, c.Sync, c.Grid)
}

// UnassignAllUseCase returns a new UnassignAll use case.
func (c *Container) UnassignAllUseCase() *usecase.UnassignAll {
	return usecase.NewUnassignAll(c.Store, c.Sync, c.Grid)
}

// MoveSlotUseCase returns a new MoveSlot use case.
func (c *Container) MoveSlotUseCase() *usecase.MoveSlot {
	return usecase.NewMoveSlot(c.Store, c.Sync, c.Grid)
}

// SetScheduleUseCase returns a new SetSchedule use case.
func (c *Container) SetScheduleUseCase() *usecase.SetSchedule {
	return usecase.NewSetSchedule(c.Store, c.Sync, c.Grid)
}

// SwapTaskUseCase returns a new SwapTask use case.
func (c *Container) SwapTaskUseCase() *usecase.SwapTask {
	return usecase.NewSwapTask(c.Store, c.Sync)
}

// ReorderLaneUseCase returns a new ReorderLane use case.
func (c *Container) ReorderLaneUseCase() *usecase.ReorderLane {
	return usecase.NewReorderLane(c.Store, c.Sync)
}

// ListWeekUseCase returns a new ListWeek use case.
func (c *Container) ListWeekUseCase() *usecase.ListWeek {
	return usecase.NewListWeek(c.Store, c.Grid, c.Clock)
}

// ConnectRemoteUseCase returns a new ConnectRemote use case.
func (c *Container) ConnectRemoteUseCase() *usecase.ConnectRemote {
	return usecase.NewConnectRemote(c.Dialer, c.Sessions, c.Sync, c.TaskLogger)
}

// DisconnectRemoteUseCase returns a new DisconnectRemote use case.
func (c *Container) DisconnectRemoteUseCase() *usecase.DisconnectRemote {
	return usecase.NewDisconnectRemote(c.Sessions, c.Sync, c.TaskLogger)
}

// RemoteStatusUseCase returns a new RemoteStatus use case.
func (c *Container) RemoteStatusUseCase() *usecase.RemoteStatus {
	return usecase.NewRemoteStatus(c.Sync)
}

// ExportAllUseCase returns a new ExportAll use case.
func (c *Container) ExportAllUseCase() *usecase.ExportAll {
	return usecase.NewExportAll(c.Store, c.Sync, c.Notifier, c.Clock)
}

// ImportAllUseCase returns a new ImportAll use case.
func (c *Container) ImportAllUseCase() *usecase.ImportAll {
	return usecase.NewImportAll(c.Store, c.Sync, c.IDs, c.Notifier, c.Clock, c.TaskLogger)
}

// ExportBackupUseCase returns a new ExportBackup use case.
func (c *Container) ExportBackupUseCase() *usecase.ExportBackup {
	return usecase.NewExportBackup(c.Store)
}

// ImportBackupUseCase returns a new ImportBackup use case.
func (c *Container) ImportBackupUseCase() *usecase.ImportBackup {
	return usecase.NewImportBackup(c.Store, c.Grid, c.IDs)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// MigrateStoreUseCase returns a MigrateStore use case copying tasks from the
// given backend into the current store. The returned closer releases the source.
func (c *Container) MigrateStoreUseCase(backend, path string) (*usecase.MigrateStore, io.Closer, error) {
	srcConfig := *c.AppConfig
	srcConfig.Store.Backend = backend
	srcConfig.Store.Path = path
	srcPath := srcConfig.StorePath(c.Config.DataDir)
	if srcPath == c.Config.StorePath {
		return nil, nil, fmt.Errorf("%w: source and destination are both %s", domain.ErrMigrationConflict, srcPath)
	}

	kv, _, closer, err := openStore(&srcConfig, srcPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open source store: %w", err)
	}
	if closer == nil {
		closer = nopCloser{}
	}
	source := shared.NewTaskStore(kv, c.IDs, c.TaskLogger)
	return usecase.NewMigrateStore(source, c.Store, c.StoreInitializer), closer, nil
}

// InitStore creates the store if it doesn't exist yet.
func (c *Container) InitStore() error {
	_, err := c.InitStoreUseCase().Execute(context.Background(), usecase.InitStoreInput{DataDir: c.Config.DataDir})
	return err
}

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.Store)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
