package domain

import "time"

// GenerationResult is the per-generator outcome of one cycle. It is
// owned by the pipeline and referenced, never mutated, by the cache.
type GenerationResult struct {
	Generator string        `msgpack:"generator"`
	Artifacts []string      `msgpack:"artifacts"`
	Units     int           `msgpack:"units"`
	Elapsed   time.Duration `msgpack:"elapsed"`
	Skipped   bool          `msgpack:"skipped"`
}

// CacheEntry is one content-addressed generation record. It is written
// once per successful cycle and replaced, never patched, by the next.
type CacheEntry struct {
	Fingerprint Fingerprint        `msgpack:"fingerprint"`
	Schema      *Schema            `msgpack:"schema"`
	Results     []GenerationResult `msgpack:"results"`
	CreatedAt   time.Time          `msgpack:"created_at"`
}

// NewCacheEntry builds an entry for the just-committed cycle.
func NewCacheEntry(fp Fingerprint, schema *Schema, results []GenerationResult) *CacheEntry {
	return &CacheEntry{
		Fingerprint: fp,
		Schema:      schema,
		Results:     results,
		CreatedAt:   time.Now().UTC(),
	}
}
