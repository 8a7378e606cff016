// Package orchestrator drives the synchronization cycle through its
// phases and owns the watch-mode lifecycle.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/farmstack/farmsync/internal/engine/differ"
	"github.com/farmstack/farmsync/internal/engine/pipeline"
	"github.com/google/uuid"
	"go.trai.ch/zerr"
)

// State names the phase a cycle is currently in.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateDiffing    State = "diffing"
	StateGenerating State = "generating"
	StateCommitting State = "committing"
)

// Orchestrator runs synchronization cycles for one project. Cycles are
// serialized: a second SyncOnce blocks until the first finished.
type Orchestrator struct {
	cfg       *domain.Config
	extractor ports.Extractor
	cache     ports.GenerationCache
	pipeline  *pipeline.Pipeline
	tracer    ports.Tracer
	logger    ports.Logger

	// cycleMu serializes whole cycles; mu only guards the phase field.
	cycleMu sync.Mutex
	mu      sync.Mutex
	state   State

	watch watchSession
}

// New creates an Orchestrator for the given project configuration.
func New(
	cfg *domain.Config,
	extractor ports.Extractor,
	cache ports.GenerationCache,
	pipe *pipeline.Pipeline,
	tracer ports.Tracer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		extractor: extractor,
		cache:     cache,
		pipeline:  pipe,
		tracer:    tracer,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current cycle phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// SyncOnce runs one full synchronization cycle: extract, fingerprint,
// diff, generate, commit. When the extracted schema matches the last
// committed fingerprint the cycle short-circuits with Changed=false and
// the output directory is left untouched. On failure the report's
// FailedState names the phase that failed and the output directory
// still holds the previous complete artifact set.
func (o *Orchestrator) SyncOnce(ctx context.Context) (*domain.SyncReport, error) {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	report := &domain.SyncReport{CycleID: uuid.NewString()}

	ctx, span := o.tracer.Start(ctx, "sync")
	defer span.End()
	span.SetAttribute("cycle_id", report.CycleID)

	defer o.setState(StateIdle)

	schema, err := o.extract(ctx)
	if err != nil {
		return o.fail(report, span, StateExtracting, err)
	}

	fp := schema.Fingerprint()
	report.Fingerprint = fp
	span.SetAttribute("fingerprint", string(fp))

	head, err := o.cache.Head()
	if err != nil {
		o.logger.Warn(fmt.Sprintf("could not read cache head: %v", err))
		head = ""
	}
	if head == fp {
		o.logger.Info(fmt.Sprintf("schema unchanged (%s), nothing to do", fp))
		return report, nil
	}
	report.Changed = true

	prev, prevArtifacts := o.previous(head)
	diff := o.diff(ctx, prev, schema)

	run, stage, err := o.generate(ctx, schema, diff)
	if err != nil {
		if run != nil {
			report.Results = run.Results
		}
		return o.fail(report, span, StateGenerating, err)
	}
	report.Results = run.Results

	if err := o.commit(ctx, stage, run, prevArtifacts); err != nil {
		return o.fail(report, span, StateCommitting, err)
	}
	report.FilesWritten = run.FilesWritten

	o.record(schema, fp, run)

	o.logger.Info(fmt.Sprintf("sync complete: %d files written (%s)", run.FilesWritten, fp))

	return report, nil
}

func (o *Orchestrator) extract(ctx context.Context) (*domain.Schema, error) {
	o.setState(StateExtracting)
	ctx, span := o.tracer.Start(ctx, "extract")
	defer span.End()

	schema, err := o.extractor.Extract(ctx, o.cfg.Endpoint)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("types", len(schema.Types))
	span.SetAttribute("operations", len(schema.Operations))
	return schema, nil
}

// previous loads the schema and artifact set of the last committed
// cycle. A missing or corrupt entry degrades to a first-run diff.
func (o *Orchestrator) previous(head domain.Fingerprint) (*domain.Schema, []string) {
	if head == "" {
		return nil, nil
	}

	entry, err := o.cache.Get(head)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("could not load cache entry %s: %v", head, err))
		return nil, nil
	}
	if entry == nil {
		return nil, nil
	}

	var artifacts []string
	for _, r := range entry.Results {
		artifacts = append(artifacts, r.Artifacts...)
	}
	return entry.Schema, artifacts
}

func (o *Orchestrator) diff(ctx context.Context, prev, next *domain.Schema) domain.DiffReport {
	o.setState(StateDiffing)
	_, span := o.tracer.Start(ctx, "diff")
	defer span.End()

	report := differ.Diff(prev, next)
	span.SetAttribute("full_regen", report.FullRegen)
	return report
}

func (o *Orchestrator) generate(
	ctx context.Context,
	schema *domain.Schema,
	diff domain.DiffReport,
) (*pipeline.RunResult, *pipeline.Stage, error) {
	o.setState(StateGenerating)
	ctx, span := o.tracer.Start(ctx, "generate")
	defer span.End()

	run, stage, err := o.pipeline.Generate(ctx, schema, diff)
	if err != nil {
		span.RecordError(err)
	}
	return run, stage, err
}

func (o *Orchestrator) commit(
	ctx context.Context,
	stage *pipeline.Stage,
	run *pipeline.RunResult,
	prevArtifacts []string,
) error {
	o.setState(StateCommitting)
	_, span := o.tracer.Start(ctx, "commit")
	defer span.End()

	if err := o.pipeline.Commit(stage, run, prevArtifacts); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttribute("files_written", run.FilesWritten)
	return nil
}

// record persists the cycle in the cache and advances the head pointer.
// Cache failures do not fail the cycle; the artifacts are already
// committed, the next run simply regenerates from scratch.
func (o *Orchestrator) record(schema *domain.Schema, fp domain.Fingerprint, run *pipeline.RunResult) {
	entry := domain.NewCacheEntry(fp, schema, run.Results)
	if err := o.cache.Put(entry); err != nil {
		o.logger.Warn(fmt.Sprintf("could not persist cache entry %s: %v", fp, err))
		return
	}
	if err := o.cache.SetHead(fp); err != nil {
		o.logger.Warn(fmt.Sprintf("could not advance cache head to %s: %v", fp, err))
	}
}

func (o *Orchestrator) fail(
	report *domain.SyncReport,
	span ports.Span,
	state State,
	err error,
) (*domain.SyncReport, error) {
	report.FailedState = string(state)
	span.RecordError(err)
	return report, zerr.With(err, "cycle_id", report.CycleID)
}
