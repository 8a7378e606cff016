package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/farmstack/farmsync/internal/core/ports/mocks"
	"github.com/farmstack/farmsync/internal/engine/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// stubGen writes fixed artifacts into the stage, or fails.
type stubGen struct {
	name     string
	requires []string
	files    map[string]string
	err      error
	calls    int
}

func (g *stubGen) Name() string       { return g.name }
func (g *stubGen) Requires() []string { return g.requires }

func (g *stubGen) Generate(_ context.Context, gc *ports.GenContext) (domain.GenerationResult, error) {
	g.calls++
	if g.err != nil {
		return domain.GenerationResult{}, g.err
	}

	result := domain.GenerationResult{Generator: g.name}
	for rel, content := range g.files {
		path := filepath.Join(gc.StageDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return domain.GenerationResult{}, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return domain.GenerationResult{}, err
		}
		result.Artifacts = append(result.Artifacts, rel)
		result.Units++
	}
	return result, nil
}

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return logger
}

func testSchema() *domain.Schema {
	s := &domain.Schema{Types: map[string]domain.TypeDef{}}
	s.Normalize()
	return s
}

func TestRun_CommitsAllArtifacts(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "generated")

	gens := []ports.Generator{
		&stubGen{name: "types", files: map[string]string{
			"models/User.ts":  "export interface User {}\n",
			"models/index.ts": "export * from './User';\n",
		}},
		&stubGen{name: "client", requires: []string{"types"}, files: map[string]string{
			"client.ts": "export class ApiClient {}\n",
		}},
	}

	p := pipeline.New(gens, outputDir, false, quietLogger(t))
	run, err := p.Run(context.Background(), testSchema(), domain.DiffReport{FullRegen: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, run.FilesWritten)
	require.Len(t, run.Results, 2)

	for _, rel := range []string{"models/User.ts", "models/index.ts", "client.ts"} {
		data, readErr := os.ReadFile(filepath.Join(outputDir, rel))
		require.NoError(t, readErr, rel)
		assert.NotEmpty(t, data)
	}

	// Commit touches the trigger file.
	_, err = os.Stat(filepath.Join(outputDir, domain.TriggerFileName))
	require.NoError(t, err)
}

func TestRun_FailureLeavesOutputUntouched(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "generated")

	// Seed a previous commit.
	seed := []ports.Generator{
		&stubGen{name: "types", files: map[string]string{"models/User.ts": "v1\n"}},
	}
	p := pipeline.New(seed, outputDir, false, quietLogger(t))
	_, err := p.Run(context.Background(), testSchema(), domain.DiffReport{FullRegen: true}, nil)
	require.NoError(t, err)

	// Second cycle: one generator succeeds, the next fails.
	failing := []ports.Generator{
		&stubGen{name: "types", files: map[string]string{"models/User.ts": "v2\n"}},
		&stubGen{name: "client", requires: []string{"types"}, err: zerr.New("template exploded")},
	}
	p = pipeline.New(failing, outputDir, false, quietLogger(t))
	_, err = p.Run(context.Background(), testSchema(), domain.DiffReport{FullRegen: true}, []string{"models/User.ts"})
	require.Error(t, err)

	// The half-generated v2 never reached the output directory.
	data, err := os.ReadFile(filepath.Join(outputDir, "models/User.ts"))
	require.NoError(t, err)
	assert.Equal(t, "v1\n", string(data))

	// No staging leftovers next to the output directory.
	siblings, err := os.ReadDir(filepath.Dir(outputDir))
	require.NoError(t, err)
	for _, s := range siblings {
		assert.NotContains(t, s.Name(), "farmsync-stage")
	}
}

func TestRun_FailFastSkipsIndependentGenerators(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "generated")

	types := &stubGen{name: "types", err: zerr.New("bad shape")}
	streaming := &stubGen{name: "streaming"}

	p := pipeline.New([]ports.Generator{types, streaming}, outputDir, false, quietLogger(t))
	_, err := p.Run(context.Background(), testSchema(), domain.DiffReport{}, nil)
	require.Error(t, err)

	// Default policy stops everything after the first failure.
	assert.Equal(t, 0, streaming.calls)
}

func TestRun_BestEffortRunsIndependentGenerators(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "generated")

	types := &stubGen{name: "types", err: zerr.New("bad shape")}
	client := &stubGen{name: "client", requires: []string{"types"}}
	streaming := &stubGen{name: "streaming", files: map[string]string{"streaming/use.ts": "x\n"}}

	p := pipeline.New([]ports.Generator{types, client, streaming}, outputDir, true, quietLogger(t))
	_, err := p.Run(context.Background(), testSchema(), domain.DiffReport{}, nil)
	require.Error(t, err)

	// Dependents of the failed generator are skipped, independents run.
	assert.Equal(t, 0, client.calls)
	assert.Equal(t, 1, streaming.calls)

	// The cycle still failed, so nothing was committed.
	_, statErr := os.Stat(filepath.Join(outputDir, "streaming/use.ts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_RemovesStaleArtifacts(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "generated")

	first := []ports.Generator{
		&stubGen{name: "types", files: map[string]string{
			"models/User.ts": "u\n",
			"models/Item.ts": "i\n",
		}},
	}
	p := pipeline.New(first, outputDir, false, quietLogger(t))
	run, err := p.Run(context.Background(), testSchema(), domain.DiffReport{FullRegen: true}, nil)
	require.NoError(t, err)

	var prevArtifacts []string
	for _, r := range run.Results {
		prevArtifacts = append(prevArtifacts, r.Artifacts...)
	}

	// Item disappeared from the schema; the next cycle's artifact set no
	// longer lists it.
	second := []ports.Generator{
		&stubGen{name: "types", files: map[string]string{"models/User.ts": "u2\n"}},
	}
	p = pipeline.New(second, outputDir, false, quietLogger(t))
	_, err = p.Run(context.Background(), testSchema(), domain.DiffReport{}, prevArtifacts)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outputDir, "models/Item.ts"))
	assert.True(t, os.IsNotExist(statErr))

	data, err := os.ReadFile(filepath.Join(outputDir, "models/User.ts"))
	require.NoError(t, err)
	assert.Equal(t, "u2\n", string(data))
}

func TestGenerate_PriorResultsVisibleToLaterGenerators(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "generated")

	var sawPrior bool
	types := &stubGen{name: "types", files: map[string]string{"models/index.ts": "x\n"}}
	check := &checkGen{name: "client", requires: []string{"types"}, onGenerate: func(gc *ports.GenContext) {
		_, sawPrior = gc.PriorResult("types")
	}}

	p := pipeline.New([]ports.Generator{types, check}, outputDir, false, quietLogger(t))
	_, err := p.Run(context.Background(), testSchema(), domain.DiffReport{}, nil)
	require.NoError(t, err)
	assert.True(t, sawPrior)
}

// checkGen observes its GenContext without writing artifacts.
type checkGen struct {
	name       string
	requires   []string
	onGenerate func(*ports.GenContext)
}

func (g *checkGen) Name() string       { return g.name }
func (g *checkGen) Requires() []string { return g.requires }

func (g *checkGen) Generate(_ context.Context, gc *ports.GenContext) (domain.GenerationResult, error) {
	g.onGenerate(gc)
	return domain.GenerationResult{Generator: g.name}, nil
}
