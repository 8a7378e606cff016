package app_test

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/farmstack/farmsync/internal/app"
	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/farmstack/farmsync/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const schemaDocument = `{
	"info": {"title": "farm", "version": "1.0.0"},
	"types": {
		"User": {
			"fields": {
				"id": {"type": "uuid", "required": true},
				"name": {"type": "string", "required": true}
			}
		}
	},
	"operations": [
		{"name": "listUsers", "method": "GET", "path": "/users", "response": {"type": "User", "array": true}}
	]
}`

type nopSpan struct{}

func (nopSpan) End()                     {}
func (nopSpan) RecordError(error)        {}
func (nopSpan) SetAttribute(string, any) {}

type nopTracer struct{}

func (nopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, nopSpan{}
}

func (nopTracer) Shutdown(context.Context) error { return nil }

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return logger
}

func testConfig(t *testing.T, endpoint string) *domain.Config {
	t.Helper()
	cfg := &domain.Config{
		Endpoint:  endpoint,
		OutputDir: filepath.Join(t.TempDir(), "generated"),
		CacheDir:  filepath.Join(t.TempDir(), "cache"),
		Features:  domain.NewFeatures(true, false, false),
	}
	cfg.Normalize()
	return cfg
}

func noWatcher(ports.Logger) (ports.Watcher, error) {
	return nil, errors.New("no watcher in this test")
}

func TestApp_Sync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(schemaDocument))
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	cfg := testConfig(t, srv.URL)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), noWatcher)

	report, err := a.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Changed)
	assert.Positive(t, report.FilesWritten)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "models", "User.ts"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "models", "index.ts"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "client.ts"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, domain.TriggerFileName))
}

func TestApp_SyncConfigLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), noWatcher)

	_, err := a.Sync(context.Background())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_WatchRequiresSourcePaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t, "http://localhost:0/schema")
	cfg.SourcePaths = nil

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), noWatcher)

	err := a.Watch(context.Background())
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestApp_WatchRunsUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t, "http://localhost:0/schema")
	cfg.SourcePaths = []string{t.TempDir()}

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil)

	fsw := mocks.NewMockWatcher(ctrl)
	fsw.EXPECT().Start(gomock.Any(), cfg.SourcePaths).Return(nil)
	fsw.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(func(ports.WatchEvent) bool) {}))
	fsw.EXPECT().Stop().Return(nil)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), func(ports.Logger) (ports.Watcher, error) {
		return fsw, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestApp_WatchPrunesStaleCacheEntriesOnStartup(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t, "http://localhost:0/schema")
	cfg.SourcePaths = []string{t.TempDir()}

	require.NoError(t, os.MkdirAll(cfg.CacheDir, 0o755))
	stale := filepath.Join(cfg.CacheDir, "0123456789abcdef.fsc")
	fresh := filepath.Join(cfg.CacheDir, "deadbeefdeadbeef.fsc")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))
	old := time.Now().Add(-app.CacheRetention - time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil)

	fsw := mocks.NewMockWatcher(ctrl)
	fsw.EXPECT().Start(gomock.Any(), cfg.SourcePaths).Return(nil)
	fsw.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(func(ports.WatchEvent) bool) {}))
	fsw.EXPECT().Stop().Return(nil)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), func(ports.Logger) (ports.Watcher, error) {
		return fsw, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestApp_CleanAllRemovesCacheDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t, "http://localhost:0/schema")
	require.NoError(t, os.MkdirAll(cfg.CacheDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.CacheDir, "deadbeef.fsc"), []byte("x"), 0o644))

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), noWatcher)

	require.NoError(t, a.Clean(context.Background(), true))
	assert.NoDirExists(t, cfg.CacheDir)
}

func TestApp_CleanPruneKeepsFreshEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig(t, "http://localhost:0/schema")
	require.NoError(t, os.MkdirAll(cfg.CacheDir, 0o755))
	fresh := filepath.Join(cfg.CacheDir, "deadbeefdeadbeef.fsc")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(cfg, nil)

	a := app.New(loader, nopTracer{}, quietLogger(ctrl), noWatcher)

	require.NoError(t, a.Clean(context.Background(), false))
	assert.FileExists(t, fresh)
}
