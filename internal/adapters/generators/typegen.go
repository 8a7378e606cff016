package generators

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*TypeGenerator)(nil)

// TypeGenerator emits one TypeScript interface file per named type plus
// a barrel index. It runs first in the pipeline; later generators
// reference the names it emits.
type TypeGenerator struct{}

// NewTypeGenerator creates the type-definition generator.
func NewTypeGenerator() *TypeGenerator {
	return &TypeGenerator{}
}

// Name implements ports.Generator.
func (g *TypeGenerator) Name() string { return TypesName }

// Requires implements ports.Generator. Type generation has no upstream
// dependencies.
func (g *TypeGenerator) Requires() []string { return nil }

type modelView struct {
	Name    string
	Imports []string
	Fields  []modelField
}

type modelField struct {
	Name     string
	Type     string
	Optional bool
}

// Generate renders the model files. In incremental mode only the types
// touched by the diff are re-rendered; the artifact list always covers
// the full current set so the commit step can compute removals.
func (g *TypeGenerator) Generate(_ context.Context, gc *ports.GenContext) (domain.GenerationResult, error) {
	start := time.Now()
	result := domain.GenerationResult{Generator: g.Name()}

	names := make([]string, 0, len(gc.Schema.Types))
	for name := range gc.Schema.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result.Artifacts = append(result.Artifacts, path.Join("models", name+".ts"))
		if !gc.Diff.FullRegen && !gc.Diff.TouchedType(name) {
			continue
		}
		content, err := render("model.ts.tmpl", g.view(gc.Schema, name))
		if err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		if err := writeArtifact(gc.StageDir, path.Join("models", name+".ts"), content); err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		result.Units++
	}

	// The barrel index is cheap and always regenerated so added and
	// removed types stay exported correctly.
	index, err := render("models_index.ts.tmpl", struct{ Types []string }{Types: names})
	if err != nil {
		return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
	}
	if err := writeArtifact(gc.StageDir, path.Join("models", "index.ts"), index); err != nil {
		return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
	}
	result.Artifacts = append(result.Artifacts, path.Join("models", "index.ts"))

	result.Elapsed = time.Since(start)
	return result, nil
}

func (g *TypeGenerator) view(schema *domain.Schema, name string) modelView {
	def := schema.Types[name]
	view := modelView{Name: name}

	imported := make(map[string]bool)
	for _, f := range def.Fields {
		base := strings.TrimSuffix(f.Type, "[]")
		if _, ok := schema.Types[base]; ok && base != name && !imported[base] {
			imported[base] = true
			view.Imports = append(view.Imports, base)
		}
		view.Fields = append(view.Fields, modelField{
			Name:     f.Name,
			Type:     tsType(schema, f.Type),
			Optional: f.Optional,
		})
	}
	sort.Strings(view.Imports)
	return view
}
