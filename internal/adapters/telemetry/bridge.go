package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/farmstack/farmsync/internal/core/ports"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// timeResolution is the rounding applied to span durations before logging.
const timeResolution = time.Millisecond

var _ sdktrace.SpanProcessor = (*LogBridge)(nil)

// LogBridge implements sdktrace.SpanProcessor to mirror span lifecycles
// into the CLI logger, so verbose runs show per-phase timing without a
// trace backend.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(timeResolution)
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "phase failed"
		}
		b.logger.Warn(fmt.Sprintf("%s failed after %s: %s", s.Name(), elapsed, desc))
		return
	}

	b.logger.Info(fmt.Sprintf("%s finished in %s", s.Name(), elapsed))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}
