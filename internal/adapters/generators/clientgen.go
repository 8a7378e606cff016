package generators

import (
	"context"
	"sort"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*ClientGenerator)(nil)

// ClientGenerator emits a typed request client with one method per
// non-streaming operation. It reads the type generator's output names,
// so it requires types to have run first.
type ClientGenerator struct{}

// NewClientGenerator creates the client-binding generator.
func NewClientGenerator() *ClientGenerator {
	return &ClientGenerator{}
}

// Name implements ports.Generator.
func (g *ClientGenerator) Name() string { return ClientName }

// Requires implements ports.Generator.
func (g *ClientGenerator) Requires() []string { return []string{TypesName} }

type clientView struct {
	Imports    []string
	Operations []clientOp
}

type clientOp struct {
	Name         string
	MethodName   string
	HTTPMethod   string
	Path         string
	HasRequest   bool
	RequestType  string
	ResponseType string
}

// Generate renders client.ts. The client is a single artifact covering
// every operation, so it is regenerated whenever the pipeline runs.
func (g *ClientGenerator) Generate(_ context.Context, gc *ports.GenContext) (domain.GenerationResult, error) {
	start := time.Now()
	result := domain.GenerationResult{Generator: g.Name()}

	view := clientView{}
	imported := make(map[string]bool)

	for _, op := range gc.Schema.Operations {
		if op.Streaming {
			continue
		}
		cop, err := g.opView(gc.Schema, op)
		if err != nil {
			return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
		}
		view.Operations = append(view.Operations, cop)
		result.Units++

		for _, name := range payloadNames(gc.Schema, op) {
			if !imported[name] {
				imported[name] = true
				view.Imports = append(view.Imports, name)
			}
		}
	}
	sort.Strings(view.Imports)

	content, err := render("client.ts.tmpl", view)
	if err != nil {
		return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
	}
	if err := writeArtifact(gc.StageDir, "client.ts", content); err != nil {
		return result, zerr.With(zerr.Wrap(err, domain.ErrGenerationFailed.Error()), "generator", g.Name())
	}

	result.Artifacts = []string{"client.ts"}
	result.Elapsed = time.Since(start)
	return result, nil
}

func (g *ClientGenerator) opView(schema *domain.Schema, op domain.Operation) (clientOp, error) {
	responseType, err := refType(schema, op.Response)
	if err != nil {
		return clientOp{}, zerr.With(err, "operation", op.Name)
	}
	requestType := ""
	if !op.Request.IsZero() {
		requestType, err = refType(schema, op.Request)
		if err != nil {
			return clientOp{}, zerr.With(err, "operation", op.Name)
		}
	}

	return clientOp{
		Name:         op.Name,
		MethodName:   camel(op.Name),
		HTTPMethod:   op.Method,
		Path:         op.Path,
		HasRequest:   requestType != "",
		RequestType:  requestType,
		ResponseType: responseType,
	}, nil
}
