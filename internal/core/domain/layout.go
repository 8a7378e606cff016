package domain

import "path/filepath"

const (
	// FarmsyncDirName is the name of the internal metadata directory.
	FarmsyncDirName = ".farmsync"

	// CacheDirName is the name of the generation cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "farmsync.yaml"

	// HeadFileName is the name of the last-committed fingerprint pointer file.
	HeadFileName = "HEAD"

	// TriggerFileName is the file touched in the output directory after a
	// successful commit so downstream bundlers can watch a single path.
	TriggerFileName = ".farmsync"

	// CacheEntryExt is the file extension of cache entry blobs.
	CacheEntryExt = ".fsc"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default path for the generation cache,
// relative to the project root.
func DefaultCachePath() string {
	return filepath.Join(FarmsyncDirName, CacheDirName)
}
