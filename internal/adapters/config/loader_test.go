package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/farmstack/farmsync/internal/adapters/config"
	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const validConfig = `endpoint: http://localhost:8000/openapi.json
source_paths:
  - backend/app
output_dir: frontend/src/generated
debounce_ms: 250
features:
  client: true
  hooks: true
  streaming: false
`

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(logger)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, validConfig)

	cfg, err := newLoader(t).Load(root)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/openapi.json", cfg.Endpoint)
	assert.Equal(t, 250, cfg.DebounceMs)
	assert.True(t, cfg.Features.ClientEnabled())
	assert.True(t, cfg.Features.HooksEnabled())
	assert.False(t, cfg.Features.StreamingEnabled())

	// Relative paths are anchored at the config file's directory.
	assert.Equal(t, filepath.Join(root, "frontend", "src", "generated"), cfg.OutputDir)
	assert.Equal(t, []string{filepath.Join(root, "backend", "app")}, cfg.SourcePaths)
	assert.Equal(t, filepath.Join(root, domain.FarmsyncDirName, domain.CacheDirName), cfg.CacheDir)

	// Unset options get defaults.
	assert.Equal(t, domain.DefaultRetryAttempts, cfg.RetryAttempts)
	assert.Equal(t, domain.DefaultFetchTimeout, cfg.FetchTimeout())
}

func TestLoader_LoadFromNestedDirectory(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, validConfig)
	nested := filepath.Join(root, "backend", "app", "routes")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := newLoader(t).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "frontend", "src", "generated"), cfg.OutputDir)
}

func TestLoader_DiscoverRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, validConfig)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := newLoader(t).DiscoverRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestLoader_OmittedFeaturesEnableAllGenerators(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "endpoint: http://localhost:8000/openapi.json\noutput_dir: generated\n")

	cfg, err := newLoader(t).Load(root)
	require.NoError(t, err)

	assert.True(t, cfg.Features.ClientEnabled())
	assert.True(t, cfg.Features.HooksEnabled())
	assert.True(t, cfg.Features.StreamingEnabled())
}

func TestLoader_ConfigNotFound(t *testing.T) {
	_, err := newLoader(t).Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_MalformedYAML(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "endpoint: [unclosed")

	_, err := newLoader(t).Load(root)
	require.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoader_MissingEndpoint(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "output_dir: generated\n")

	_, err := newLoader(t).Load(root)
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestLoader_MissingOutputDir(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "endpoint: http://localhost:8000/openapi.json\n")

	_, err := newLoader(t).Load(root)
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestLoader_AbsolutePathsKept(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "gen")
	writeConfig(t, root, "endpoint: http://localhost:8000/openapi.json\noutput_dir: "+out+"\n")

	cfg, err := newLoader(t).Load(root)
	require.NoError(t, err)
	assert.Equal(t, out, cfg.OutputDir)
}
