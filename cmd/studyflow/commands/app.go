package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/studyflow/studyflow/internal/alerts"
	"github.com/studyflow/studyflow/internal/calendar"
	"github.com/studyflow/studyflow/internal/config"
	"github.com/studyflow/studyflow/internal/courses"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/storage"
	"github.com/studyflow/studyflow/internal/tasks"
	"go.uber.org/zap"
)

// App bundles the wired components a command needs. Every command builds
// one, uses it, and closes it before returning.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      storage.Store
	Tasks      *tasks.Repository
	Courses    *courses.Repository
	Calendar   *calendar.Repository
	Dispatcher *alerts.Dispatcher

	closers []func() error
}

// NewApp loads configuration and wires the store, repositories and the
// alert dispatcher. Alerts are printed to stdout.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var log *zap.Logger
	if cfg.LogFile != "" {
		log = logger.NewFileLogger(cfg.LogFile, cfg.DebugMode)
	} else {
		log, err = logger.NewProductionLogger(cfg.DebugMode)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	app := &App{Config: cfg, Logger: log}

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	app.Store = store
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}

	dispatcher := alerts.NewDispatcher(log)
	dispatcher.SetCallbacks(stdoutCallbacks())
	app.Dispatcher = dispatcher

	app.Tasks = tasks.NewRepository(store, log,
		tasks.WithCompletionHook(func(task models.Task) {
			dispatcher.CompletionCelebration(task)
		}),
	)
	app.Courses = courses.NewRepository(store)
	app.Calendar = calendar.NewRepository(store)

	return app, nil
}

// Close releases store connections and flushes the logger.
func (a *App) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
		}
	}
	if err := logger.Sync(a.Logger); err != nil {
		// Ignore sync errors on shutdown
		_ = err
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil, nil
	case config.StoreFile:
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.StoreRedis:
		store, err := storage.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorePostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func stdoutCallbacks() alerts.Callbacks {
	return alerts.Callbacks{
		ShowSuccess: func(title, message string) {
			fmt.Printf("✅ %s: %s\n", title, message)
		},
		ShowWarning: func(title, message string) {
			fmt.Printf("⚠️  %s: %s\n", title, message)
		},
		ShowError: func(title, message string) {
			fmt.Printf("🚨 %s: %s\n", title, message)
		},
		ShowInfo: func(title, message string) {
			fmt.Printf("ℹ️  %s: %s\n", title, message)
		},
	}
}
