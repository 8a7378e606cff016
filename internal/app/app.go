// Package app implements the application layer for farmsync.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/farmstack/farmsync/internal/adapters/cache"
	"github.com/farmstack/farmsync/internal/adapters/generators"
	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/farmstack/farmsync/internal/engine/extractor"
	"github.com/farmstack/farmsync/internal/engine/orchestrator"
	"github.com/farmstack/farmsync/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// CacheRetention is how long unused cache entries are kept before a
// clean run prunes them.
const CacheRetention = 30 * 24 * time.Hour

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	tracer       ports.Tracer
	logger       ports.Logger

	newWatcher WatcherFactory
}

// WatcherFactory builds the file watcher for a watch-mode session.
// Injectable for testing.
type WatcherFactory func(logger ports.Logger) (ports.Watcher, error)

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	tracer ports.Tracer,
	log ports.Logger,
	newWatcher WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		tracer:       tracer,
		logger:       log,
		newWatcher:   newWatcher,
	}
}

// Initialize loads the configuration found from cwd and assembles the
// project: cache store, extractor, generator pipeline, orchestrator.
func (a *App) Initialize(cwd string) (*Project, error) {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	store, err := cache.NewStore(cfg.CacheDir, a.logger)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open generation cache")
	}

	extr := extractor.New(cfg.RetryAttempts, cfg.FetchTimeout())
	pipe := pipeline.New(generators.Build(cfg.Features), cfg.OutputDir, cfg.BestEffort, a.logger)

	orch := orchestrator.New(cfg, extr, store, pipe, a.tracer, a.logger)

	return &Project{
		cfg:        cfg,
		orch:       orch,
		store:      store,
		logger:     a.logger,
		newWatcher: a.newWatcher,
	}, nil
}

// Sync runs a single synchronization cycle for the project found from
// the current working directory.
func (a *App) Sync(ctx context.Context) (*domain.SyncReport, error) {
	project, err := a.Initialize(".")
	if err != nil {
		return nil, err
	}
	return project.SyncOnce(ctx)
}

// Watch runs watch mode until the context is cancelled.
func (a *App) Watch(ctx context.Context) error {
	project, err := a.Initialize(".")
	if err != nil {
		return err
	}

	if err := project.StartWatchMode(ctx); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %d source paths, debounce %s", len(project.cfg.SourcePaths), project.cfg.Debounce()))

	<-ctx.Done()

	return project.StopWatchMode()
}

// Clean prunes stale cache entries, or removes the whole cache when
// all is set.
func (a *App) Clean(_ context.Context, all bool) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return err
	}

	if all {
		a.logger.Info("removing generation cache...")
		if err := os.RemoveAll(cfg.CacheDir); err != nil {
			return zerr.Wrap(err, "failed to remove generation cache")
		}
		a.logger.Info(fmt.Sprintf("removed %s", cfg.CacheDir))
		return nil
	}

	store, err := cache.NewStore(cfg.CacheDir, a.logger)
	if err != nil {
		return err
	}
	store.Prune(CacheRetention)
	a.logger.Info(fmt.Sprintf("pruned cache entries older than %s", CacheRetention))

	return nil
}
