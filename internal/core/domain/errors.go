package domain

import "go.trai.ch/zerr"

var (
	// ErrSchemaUnavailable is returned when the schema endpoint is
	// unreachable or keeps failing after the bounded retries.
	ErrSchemaUnavailable = zerr.New("schema endpoint unavailable")

	// ErrSchemaInvalid is returned when the endpoint responded but the
	// document cannot be parsed against the required shape. It is never
	// retried, since resending the request will not fix the document.
	ErrSchemaInvalid = zerr.New("schema document invalid")

	// ErrCacheCorrupt marks a cache entry that could not be read back.
	// It is recovered internally (treated as a miss) and only ever
	// surfaces as a warning log.
	ErrCacheCorrupt = zerr.New("cache entry corrupt")

	// ErrGenerationFailed is returned when a generator hits an
	// unrecoverable template or shape mismatch.
	ErrGenerationFailed = zerr.New("generation failed")

	// ErrWatchError marks a non-fatal watcher problem, such as an
	// unreadable source path. The watch loop keeps running.
	ErrWatchError = zerr.New("watch error")

	// ErrUnknownType is returned when an operation references a type
	// that is not declared in the schema's types section.
	ErrUnknownType = zerr.New("operation references unknown type")

	// ErrConfigNotFound is returned when no farmsync.yaml can be found
	// walking up from the working directory.
	ErrConfigNotFound = zerr.New("could not find farmsync.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config is missing required
	// options or carries contradictory ones.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrCacheWriteFailed is returned when a cache entry cannot be
	// persisted.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrStageFailed is returned when the staging directory for a
	// generation cycle cannot be prepared.
	ErrStageFailed = zerr.New("failed to prepare staging directory")

	// ErrCommitFailed is returned when staged artifacts cannot be moved
	// into the output directory.
	ErrCommitFailed = zerr.New("failed to commit staged artifacts")

	// ErrWatchAlreadyRunning is returned when watch mode is started
	// twice on the same orchestrator instance.
	ErrWatchAlreadyRunning = zerr.New("watch mode already running")

	// ErrTemplateRender is returned when an artifact template fails to
	// execute against a schema unit.
	ErrTemplateRender = zerr.New("failed to render artifact template")
)
