package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/farmstack/farmsync/internal/adapters/telemetry"
	"github.com/farmstack/farmsync/internal/core/ports/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func contains(substr string) gomock.Matcher {
	return gomock.Cond(func(msg string) bool {
		return strings.Contains(msg, substr)
	})
}

func TestLogBridge_SpanEndLogsTiming(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(contains("extract finished in"))

	tracer := telemetry.NewOTelTracer("farmsync-test", telemetry.NewLogBridge(logger))
	t.Cleanup(func() { require.NoError(t, tracer.Shutdown(context.Background())) })

	_, span := tracer.Start(context.Background(), "extract")
	span.End()
}

func TestLogBridge_FailedSpanLogsWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(contains("sync failed after"))

	tracer := telemetry.NewOTelTracer("farmsync-test", telemetry.NewLogBridge(logger))
	t.Cleanup(func() { require.NoError(t, tracer.Shutdown(context.Background())) })

	_, span := tracer.Start(context.Background(), "sync")
	span.RecordError(errors.New("schema endpoint unavailable"))
	span.End()
}

func TestOTelSpan_Attributes(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	tracer := telemetry.NewOTelTracer("farmsync-test", telemetry.NewLogBridge(logger))
	t.Cleanup(func() { require.NoError(t, tracer.Shutdown(context.Background())) })

	_, span := tracer.Start(context.Background(), "attrs")

	span.SetAttribute("string", "val")
	span.SetAttribute("int", 123)
	span.SetAttribute("int64", int64(123))
	span.SetAttribute("float64", 12.34)
	span.SetAttribute("bool", true)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("other", complex(1, 1))

	span.End()
}
