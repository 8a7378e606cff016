package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/farmstack/farmsync/cmd/farmsync/commands"
	"github.com/farmstack/farmsync/internal/build"
	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	syncFunc  func(ctx context.Context) (*domain.SyncReport, error)
	watchFunc func(ctx context.Context) error
	cleanFunc func(ctx context.Context, all bool) error
}

func (m *mockApp) Sync(ctx context.Context) (*domain.SyncReport, error) {
	if m.syncFunc != nil {
		return m.syncFunc(ctx)
	}
	return &domain.SyncReport{}, nil
}

func (m *mockApp) Watch(ctx context.Context) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, all bool) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, all)
	}
	return nil
}

func newCLI(mock *mockApp) (*commands.CLI, *bytes.Buffer) {
	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	return cli, buf
}

func TestCommands_Sync(t *testing.T) {
	t.Run("reports written files", func(t *testing.T) {
		mock := &mockApp{
			syncFunc: func(context.Context) (*domain.SyncReport, error) {
				return &domain.SyncReport{
					Changed:      true,
					FilesWritten: 7,
					Fingerprint:  "a1b2c3d4e5f60718",
				}, nil
			},
		}

		cli, buf := newCLI(mock)
		cli.SetArgs([]string{"sync"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "synced 7 files (a1b2c3d4e5f60718)\n", buf.String())
	})

	t.Run("reports up to date", func(t *testing.T) {
		mock := &mockApp{
			syncFunc: func(context.Context) (*domain.SyncReport, error) {
				return &domain.SyncReport{Fingerprint: "a1b2c3d4e5f60718"}, nil
			},
		}

		cli, buf := newCLI(mock)
		cli.SetArgs([]string{"sync"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "up to date (a1b2c3d4e5f60718)\n", buf.String())
	})

	t.Run("returns sync failure", func(t *testing.T) {
		mock := &mockApp{
			syncFunc: func(context.Context) (*domain.SyncReport, error) {
				return nil, errors.New("simulated error")
			},
		}

		cli, _ := newCLI(mock)
		cli.SetArgs([]string{"sync"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	called := false
	mock := &mockApp{
		watchFunc: func(context.Context) error {
			called = true
			return nil
		},
	}

	cli, _ := newCLI(mock)
	cli.SetArgs([]string{"watch"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, called)
}

func TestCommands_Clean(t *testing.T) {
	t.Run("prunes by default", func(t *testing.T) {
		var capturedAll bool
		mock := &mockApp{
			cleanFunc: func(_ context.Context, all bool) error {
				capturedAll = all
				return nil
			},
		}

		cli, _ := newCLI(mock)
		cli.SetArgs([]string{"clean"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.False(t, capturedAll)
	})

	t.Run("removes everything with --all", func(t *testing.T) {
		var capturedAll bool
		mock := &mockApp{
			cleanFunc: func(_ context.Context, all bool) error {
				capturedAll = all
				return nil
			},
		}

		cli, _ := newCLI(mock)
		cli.SetArgs([]string{"clean", "--all"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, capturedAll)
	})
}

func TestCommands_Version(t *testing.T) {
	cli, buf := newCLI(&mockApp{})
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), build.Version)
}

func TestCommands_UnknownCommand(t *testing.T) {
	cli, _ := newCLI(&mockApp{})
	cli.SetArgs([]string{"deploy"})

	err := cli.Execute(context.Background())
	require.Error(t, err)
}
