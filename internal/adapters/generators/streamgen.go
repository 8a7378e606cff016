package generators

import (
	"context"
	"path"
	"sort"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*StreamGenerator)(nil)

// StreamGenerator emits a streaming-aware hook per operation flagged as
// streaming. It runs last and only when such operations exist.
type StreamGenerator struct{}

// NewStreamGenerator creates the streaming-hook generator.
func NewStreamGenerator() *StreamGenerator {
	return &StreamGenerator{}
}

// Name implements ports.Generator.
func (g *StreamGenerator) Name() string { return StreamingName }

// Requires implements ports.Generator.
func (g *StreamGenerator) Requires() []string { return []string{TypesName} }

type streamView struct {
	Name         string
	PascalName   string
	Path         string
	RequestType  string
	ResponseType string
	Imports      []string
}

// Generate renders the streaming hook files. When the schema has no
// streaming operations the generator reports itself as skipped.
func (g *StreamGenerator) Generate(_ context.Context, gc *ports.GenContext) (domain.GenerationResult, error) {
	start := time.Now()
	result := domain.GenerationResult{Generator: g.Name()}

	ops := gc.Schema.StreamingOperations()
	if len(ops) == 0 {
		result.Skipped = true
		return result, nil
	}

	for _, op := range ops {
		rel := path.Join("streaming", "use"+pascal(op.Name)+"Stream.ts")
		result.Artifacts = append(result.Artifacts, rel)

		if !gc.Diff.FullRegen && !gc.Diff.TouchedOp(op.Name) {
			continue
		}

		view, err := g.view(gc.Schema, op)
		if err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		content, err := render("stream_hook.ts.tmpl", view)
		if err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		if err := writeArtifact(gc.StageDir, rel, content); err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		result.Units++
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

func (g *StreamGenerator) view(schema *domain.Schema, op domain.Operation) (streamView, error) {
	responseType, err := refType(schema, op.Response)
	if err != nil {
		return streamView{}, zerr.With(err, "operation", op.Name)
	}
	requestType := "unknown"
	if !op.Request.IsZero() {
		requestType, err = refType(schema, op.Request)
		if err != nil {
			return streamView{}, zerr.With(err, "operation", op.Name)
		}
	}

	imports := payloadNames(schema, op)
	sort.Strings(imports)

	return streamView{
		Name:         op.Name,
		PascalName:   pascal(op.Name),
		Path:         op.Path,
		RequestType:  requestType,
		ResponseType: responseType,
		Imports:      imports,
	}, nil
}
