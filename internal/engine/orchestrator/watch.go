package orchestrator

import (
	"context"

	"github.com/farmstack/farmsync/internal/core/domain"
)

// watchSession holds the lifecycle of one watch-mode run.
type watchSession struct {
	cancel  context.CancelFunc
	trigger chan struct{}
	done    chan struct{}
}

// StartWatch begins consuming triggers in a background loop. Each
// trigger runs one cycle; a failed cycle is logged and the loop keeps
// running. Returns ErrWatchAlreadyRunning when a session is active.
func (o *Orchestrator) StartWatch(ctx context.Context) error {
	o.mu.Lock()
	if o.watch.trigger != nil {
		o.mu.Unlock()
		return domain.ErrWatchAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	o.watch = watchSession{
		cancel:  cancel,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	session := o.watch
	o.mu.Unlock()

	go o.watchLoop(ctx, session)

	return nil
}

// Trigger requests a cycle. At most one cycle runs at a time; triggers
// arriving while a cycle is in flight coalesce into a single follow-up
// cycle. Triggers outside a watch session are dropped.
func (o *Orchestrator) Trigger() {
	o.mu.Lock()
	trigger := o.watch.trigger
	o.mu.Unlock()

	if trigger == nil {
		return
	}
	select {
	case trigger <- struct{}{}:
	default:
		// A cycle is already pending.
	}
}

// StopWatch ends the watch session and blocks until an in-flight cycle
// has finished. Safe to call when no session is running.
func (o *Orchestrator) StopWatch() {
	o.mu.Lock()
	session := o.watch
	o.watch = watchSession{}
	o.mu.Unlock()

	if session.cancel == nil {
		return
	}
	session.cancel()
	<-session.done
}

func (o *Orchestrator) watchLoop(ctx context.Context, session watchSession) {
	defer close(session.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-session.trigger:
			if _, err := o.SyncOnce(ctx); err != nil {
				// Watch mode survives failed cycles; the next source
				// change retries.
				o.logger.Error(err)
			}
		}
	}
}
