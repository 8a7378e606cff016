package ports

import (
	"context"

	"github.com/farmstack/farmsync/internal/core/domain"
)

// GenContext carries the inputs shared by all generators of one cycle.
// Generators write artifacts only into StageDir; the pipeline moves them
// into the output directory once every required generator has succeeded.
type GenContext struct {
	Schema *domain.Schema
	Diff   domain.DiffReport

	// StageDir is the cycle's staging directory.
	StageDir string

	// Prior holds the results of generators that already ran in this
	// cycle, in pipeline order.
	Prior []domain.GenerationResult
}

// PriorResult returns the result of an earlier generator in this cycle.
func (c *GenContext) PriorResult(name string) (domain.GenerationResult, bool) {
	for _, r := range c.Prior {
		if r.Generator == name {
			return r, true
		}
	}
	return domain.GenerationResult{}, false
}

// Generator transforms a schema into one category of output artifact.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Name identifies the generator in results, logs and errors.
	Name() string

	// Requires names the generators whose output this one depends on.
	Requires() []string

	// Generate produces this generator's artifacts in ctx.StageDir. It
	// fails with domain.ErrGenerationFailed on an unrecoverable template
	// or shape mismatch.
	Generate(ctx context.Context, gc *GenContext) (domain.GenerationResult, error)
}
