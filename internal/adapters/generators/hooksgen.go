package generators

import (
	"context"
	"net/http"
	"path"
	"sort"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*HooksGenerator)(nil)

// HooksGenerator emits one reactive data-fetching hook per non-streaming
// operation: read operations become query hooks, writes become mutation
// hooks. It references the client and the model names, so both must have
// run first.
type HooksGenerator struct{}

// NewHooksGenerator creates the reactive-hook generator.
func NewHooksGenerator() *HooksGenerator {
	return &HooksGenerator{}
}

// Name implements ports.Generator.
func (g *HooksGenerator) Name() string { return HooksName }

// Requires implements ports.Generator.
func (g *HooksGenerator) Requires() []string { return []string{TypesName, ClientName} }

type hookView struct {
	Name         string
	PascalName   string
	MethodName   string
	HasRequest   bool
	RequestType  string
	ResponseType string
	Imports      []string
}

// Generate renders the hook files. In incremental mode only hooks for
// operations touched by the diff are re-rendered.
func (g *HooksGenerator) Generate(_ context.Context, gc *ports.GenContext) (domain.GenerationResult, error) {
	start := time.Now()
	result := domain.GenerationResult{Generator: g.Name()}

	var hookNames []string
	for _, op := range gc.Schema.Operations {
		if op.Streaming {
			continue
		}
		hookName := pascal(op.Name)
		hookNames = append(hookNames, hookName)
		rel := path.Join("hooks", "use"+hookName+".ts")
		result.Artifacts = append(result.Artifacts, rel)

		if !gc.Diff.FullRegen && !gc.Diff.TouchedOp(op.Name) {
			continue
		}

		view, err := g.view(gc.Schema, op)
		if err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}

		tmpl := "hook_mutation.ts.tmpl"
		if op.Method == http.MethodGet {
			tmpl = "hook_query.ts.tmpl"
		}
		content, err := render(tmpl, view)
		if err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		if err := writeArtifact(gc.StageDir, rel, content); err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		result.Units++
	}

	sort.Strings(hookNames)
	index, err := render("hooks_index.ts.tmpl", struct{ Hooks []string }{Hooks: hookNames})
	if err != nil {
		return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
	}
	if err := writeArtifact(gc.StageDir, path.Join("hooks", "index.ts"), index); err != nil {
		return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
	}
	result.Artifacts = append(result.Artifacts, path.Join("hooks", "index.ts"))

	result.Elapsed = time.Since(start)
	return result, nil
}

func (g *HooksGenerator) view(schema *domain.Schema, op domain.Operation) (hookView, error) {
	responseType, err := refType(schema, op.Response)
	if err != nil {
		return hookView{}, zerr.With(err, "operation", op.Name)
	}
	requestType := ""
	if !op.Request.IsZero() {
		requestType, err = refType(schema, op.Request)
		if err != nil {
			return hookView{}, zerr.With(err, "operation", op.Name)
		}
	}

	imports := payloadNames(schema, op)
	sort.Strings(imports)

	return hookView{
		Name:         op.Name,
		PascalName:   pascal(op.Name),
		MethodName:   camel(op.Name),
		HasRequest:   requestType != "",
		RequestType:  requestType,
		ResponseType: responseType,
		Imports:      imports,
	}, nil
}
