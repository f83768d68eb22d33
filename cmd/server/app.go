package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/notify"
	"github.com/phrazzld/tasks-api/internal/service"
)

// application holds the shared application dependencies so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db          *database
	cache       cache.Cache
	dispatcher  *notify.Dispatcher
	taskService service.TaskService
}

// newApplication builds every dependency in order: database, cache,
// notifier, then the task service on top of them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.db, err = setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app.cache, err = cache.New(cfg.Cache)
	if err != nil {
		app.closeDatabase()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	logger.Info("Cache initialized", "backend", cfg.Cache.Backend)

	notifier, err := notify.New(cfg.Notify, logger.With("component", "notifier"))
	if err != nil {
		app.closeDatabase()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	app.dispatcher = notify.NewDispatcher(notifier, notify.DispatcherConfig{
		QueueSize:   cfg.Notify.QueueSize,
		WorkerCount: cfg.Notify.WorkerCount,
		SendTimeout: cfg.Notify.SendTimeout(),
	}, logger.With("component", "notify_dispatcher"))
	app.dispatcher.Start()

	app.taskService, err = service.NewTaskService(app.db.taskStore, app.cache, app.dispatcher, logger)
	if err != nil {
		app.cleanup(ctx)
		return nil, fmt.Errorf("failed to initialize task service: %w", err)
	}

	return app, nil
}

// cleanup drains pending notifications and closes the database. It is safe
// to call on a partially built application.
func (app *application) cleanup(ctx context.Context) {
	if app.dispatcher != nil {
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Error("Notification dispatcher did not drain", "error", err)
		}
	}
	app.closeDatabase()
}

func (app *application) closeDatabase() {
	if app.db == nil || app.db.close == nil {
		return
	}
	if err := app.db.close(); err != nil {
		app.logger.Error("Error closing database connection", "error", err)
	}
	app.db.close = nil
}
