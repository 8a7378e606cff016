package app

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/farmstack/farmsync/internal/adapters/cache"
	"github.com/farmstack/farmsync/internal/adapters/watcher"
	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/farmstack/farmsync/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// Project is one initialized synchronization target: a configuration
// plus the orchestrator assembled for it.
type Project struct {
	cfg        *domain.Config
	orch       *orchestrator.Orchestrator
	store      *cache.Store
	logger     ports.Logger
	newWatcher WatcherFactory

	mu        sync.Mutex
	fsWatcher ports.Watcher
	debouncer *watcher.Debouncer
	pumpDone  chan struct{}
}

// SyncOnce runs one synchronization cycle.
func (p *Project) SyncOnce(ctx context.Context) (*domain.SyncReport, error) {
	return p.orch.SyncOnce(ctx)
}

// State returns the orchestrator's current cycle phase.
func (p *Project) State() orchestrator.State {
	return p.orch.State()
}

// StartWatchMode watches the configured source paths and triggers a
// cycle after changes settle for the debounce window. Change bursts
// coalesce into a single cycle, changes arriving while a cycle runs
// queue exactly one follow-up cycle, and writes that leave file content
// untouched are ignored.
func (p *Project) StartWatchMode(ctx context.Context) error {
	if len(p.cfg.SourcePaths) == 0 {
		return zerr.With(domain.ErrConfigInvalid, "option", "source_paths")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fsWatcher != nil {
		return domain.ErrWatchAlreadyRunning
	}

	// A long-running watch session is the natural moment to drop
	// entries no cycle has touched in a month.
	p.store.Prune(CacheRetention)

	if err := p.orch.StartWatch(ctx); err != nil {
		return err
	}

	fsw, err := p.newWatcher(p.logger)
	if err != nil {
		p.orch.StopWatch()
		return zerr.Wrap(err, domain.ErrWatchError.Error())
	}

	if err := fsw.Start(ctx, p.cfg.SourcePaths); err != nil {
		_ = fsw.Stop()
		p.orch.StopWatch()
		return err
	}

	deb := watcher.NewDebouncer(p.cfg.Debounce(), func(_ []string) {
		p.orch.Trigger()
	})

	gate := watcher.NewHashGate()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range fsw.Events() {
			if p.relevant(event.Path) && gate.Changed(event.Path) {
				deb.Add(event.Path)
			}
		}
	}()

	p.fsWatcher = fsw
	p.debouncer = deb
	p.pumpDone = done

	return nil
}

// StopWatchMode tears down the watch session: stops the file watcher,
// flushes the debouncer, and waits for an in-flight cycle to finish.
// Safe to call when watch mode is not running.
func (p *Project) StopWatchMode() error {
	p.mu.Lock()
	fsw := p.fsWatcher
	deb := p.debouncer
	done := p.pumpDone
	p.fsWatcher = nil
	p.debouncer = nil
	p.pumpDone = nil
	p.mu.Unlock()

	if fsw == nil {
		return nil
	}

	err := fsw.Stop()
	<-done
	deb.Flush()
	p.orch.StopWatch()

	return err
}

// relevant filters out events the backend schema cannot depend on:
// anything under the output directory, the cache, or the internal
// metadata directory. Watching a source path that contains the output
// directory must not self-trigger.
func (p *Project) relevant(path string) bool {
	if under(path, p.cfg.OutputDir) || under(path, p.cfg.CacheDir) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == domain.FarmsyncDirName {
			return false
		}
	}
	return true
}

func under(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
