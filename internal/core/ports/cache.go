package ports

import (
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
)

// GenerationCache is the content-addressed store of prior generation
// results, keyed by schema fingerprint.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type GenerationCache interface {
	// Get retrieves the entry for a fingerprint. A missing entry returns
	// nil, nil. Corrupt entries are deleted and reported as a miss;
	// corruption never propagates to the caller.
	Get(fp domain.Fingerprint) (*domain.CacheEntry, error)

	// Put persists an entry atomically. A concurrent reader never
	// observes a partially written blob.
	Put(entry *domain.CacheEntry) error

	// Head returns the fingerprint of the last committed cycle, or the
	// empty fingerprint when none has been recorded.
	Head() (domain.Fingerprint, error)

	// SetHead atomically records the last committed fingerprint.
	SetHead(fp domain.Fingerprint) error

	// Prune removes entries older than maxAge. Pruning is advisory:
	// failures are logged by the implementation and never surfaced.
	Prune(maxAge time.Duration)
}
