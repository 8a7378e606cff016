package ports

import "context"

//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks

// Tracer creates spans around the phases of a sync cycle.
type Tracer interface {
	// Start begins a new span. The returned context carries the span so
	// nested phases become child spans.
	Start(ctx context.Context, name string) (context.Context, Span)

	// Shutdown flushes any pending spans.
	Shutdown(ctx context.Context) error
}

// Span is a single traced phase.
type Span interface {
	// End completes the span.
	End()

	// RecordError marks the span as failed with the given error.
	RecordError(err error)

	// SetAttribute attaches a key-value pair to the span.
	SetAttribute(key string, value any)
}
