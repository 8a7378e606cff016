// Package pipeline runs the generators in dependency order and commits
// their staged artifacts atomically.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// Pipeline owns the ordered generator set of one project.
type Pipeline struct {
	generators []ports.Generator
	outputDir  string
	bestEffort bool
	logger     ports.Logger
}

// RunResult aggregates one pipeline run.
type RunResult struct {
	Results      []domain.GenerationResult
	FilesWritten int
}

// New creates a Pipeline that commits into outputDir. Generators must be
// given in dependency order; generators.Build assembles the standard set
// from the feature flags.
func New(gens []ports.Generator, outputDir string, bestEffort bool, logger ports.Logger) *Pipeline {
	return &Pipeline{
		generators: gens,
		outputDir:  outputDir,
		bestEffort: bestEffort,
		logger:     logger,
	}
}

// Generate runs the generators against the schema, writing every
// artifact into a fresh staging directory. On success the open Stage is
// returned for Commit; on any generator failure the stage is discarded
// and the joined errors are returned, leaving the output directory
// untouched.
func (p *Pipeline) Generate(
	ctx context.Context,
	schema *domain.Schema,
	diff domain.DiffReport,
) (*RunResult, *Stage, error) {
	stage, err := newStage(p.outputDir)
	if err != nil {
		return nil, nil, zerr.Wrap(err, domain.ErrStageFailed.Error())
	}

	run := &RunResult{}
	failed := make(map[string]bool)
	var errs error

	for _, gen := range p.generators {
		if reason := p.skipReason(gen, failed, errs != nil); reason != "" {
			p.info(fmt.Sprintf("skipping %s generator: %s", gen.Name(), reason))
			failed[gen.Name()] = true
			continue
		}

		gc := &ports.GenContext{
			Schema:   schema,
			Diff:     diff,
			StageDir: stage.dir,
			Prior:    run.Results,
		}
		result, err := gen.Generate(ctx, gc)
		if err != nil {
			failed[gen.Name()] = true
			errs = errors.Join(errs, err)
			continue
		}
		run.Results = append(run.Results, result)
	}

	if errs != nil {
		// Partial output is discarded with the stage; the output
		// directory still holds the previous complete artifact set.
		stage.Discard()
		return run, nil, errs
	}

	return run, stage, nil
}

// Commit moves the staged artifacts into the output directory and
// deletes previously committed artifacts whose units no longer exist.
// The stage is consumed either way.
func (p *Pipeline) Commit(stage *Stage, run *RunResult, prevArtifacts []string) error {
	defer stage.Discard()

	written, err := stage.commit(p.outputDir, p.removals(run, prevArtifacts))
	if err != nil {
		return zerr.Wrap(err, domain.ErrCommitFailed.Error())
	}
	run.FilesWritten = written

	return nil
}

// Run executes Generate and Commit as one step. prevArtifacts is the
// artifact set of the previous committed cycle.
func (p *Pipeline) Run(
	ctx context.Context,
	schema *domain.Schema,
	diff domain.DiffReport,
	prevArtifacts []string,
) (*RunResult, error) {
	run, stage, err := p.Generate(ctx, schema, diff)
	if err != nil {
		return run, err
	}
	if err := p.Commit(stage, run, prevArtifacts); err != nil {
		return run, err
	}
	return run, nil
}

// skipReason decides whether a generator may run given earlier failures.
// Fail-fast (the default) stops everything after the first failure;
// best-effort only skips generators whose requirements failed.
func (p *Pipeline) skipReason(gen ports.Generator, failed map[string]bool, anyFailed bool) string {
	for _, req := range gen.Requires() {
		if failed[req] {
			return fmt.Sprintf("required generator %q failed", req)
		}
	}
	if anyFailed && !p.bestEffort {
		return "an earlier generator failed"
	}
	return ""
}

// removals returns previously committed artifacts whose semantic units
// no longer exist in the current schema.
func (p *Pipeline) removals(run *RunResult, prevArtifacts []string) []string {
	current := make(map[string]bool)
	for _, r := range run.Results {
		for _, a := range r.Artifacts {
			current[a] = true
		}
	}

	var removals []string
	for _, a := range prevArtifacts {
		if !current[a] {
			removals = append(removals, a)
		}
	}
	return removals
}

func (p *Pipeline) info(msg string) {
	if p.logger != nil {
		p.logger.Info(msg)
	}
}
