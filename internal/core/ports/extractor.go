// Package ports defines the interfaces between the engine and its adapters.
package ports

import (
	"context"

	"github.com/farmstack/farmsync/internal/core/domain"
)

// Extractor fetches and validates the current interface schema from a
// live endpoint.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract fetches the schema document from the endpoint and returns
	// a validated Schema. It fails with domain.ErrSchemaUnavailable when
	// the endpoint stays unreachable after the bounded retries, and with
	// domain.ErrSchemaInvalid when the document does not match the
	// required shape.
	Extract(ctx context.Context, endpoint string) (*domain.Schema, error)
}
