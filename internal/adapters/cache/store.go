// Package cache implements the content-addressed generation cache.
package cache

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/zerr"
)

var _ ports.GenerationCache = (*Store)(nil)

// Store implements ports.GenerationCache using one gzip-compressed
// msgpack blob per fingerprint. Entries are either fully valid or
// absent: anything that fails to read back is deleted and reported as a
// miss, so a corrupted cache can never hang or crash a cycle.
type Store struct {
	root   string
	logger ports.Logger
}

// NewStore creates a Store rooted at the given directory, creating it if
// necessary.
func NewStore(root string, logger ports.Logger) (*Store, error) {
	cleanRoot := filepath.Clean(root)
	if err := os.MkdirAll(cleanRoot, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create cache directory")
	}
	return &Store{root: cleanRoot, logger: logger}, nil
}

// Get retrieves the entry for a fingerprint. A missing entry returns
// nil, nil. Unreadable, truncated or undecodable blobs are removed and
// also return nil, nil.
func (s *Store) Get(fp domain.Fingerprint) (*domain.CacheEntry, error) {
	path := s.entryPath(fp)

	//nolint:gosec // Path is constructed from the cache root and a hex fingerprint
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		s.discard(path, err)
		return nil, nil
	}

	entry, err := decodeEntry(data)
	if err != nil {
		s.discard(path, err)
		return nil, nil
	}

	if entry.Fingerprint != fp {
		s.discard(path, zerr.With(domain.ErrCacheCorrupt, "want", string(fp)))
		return nil, nil
	}

	return entry, nil
}

// Put persists an entry by writing a temporary file and renaming it into
// place, so a concurrent reader never observes a partial blob.
func (s *Store) Put(entry *domain.CacheEntry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := s.atomicWrite(s.entryPath(entry.Fingerprint), data); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// Head returns the last committed fingerprint, or empty when none has
// been recorded yet.
func (s *Store) Head() (domain.Fingerprint, error) {
	//nolint:gosec // Path is constructed from the cache root
	data, err := os.ReadFile(filepath.Join(s.root, domain.HeadFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.Wrap(err, "failed to read head pointer")
	}
	return domain.Fingerprint(strings.TrimSpace(string(data))), nil
}

// SetHead atomically records the last committed fingerprint.
func (s *Store) SetHead(fp domain.Fingerprint) error {
	path := filepath.Join(s.root, domain.HeadFileName)
	if err := s.atomicWrite(path, []byte(fp)); err != nil {
		return zerr.Wrap(err, "failed to write head pointer")
	}
	return nil
}

// Prune removes entry blobs older than maxAge. Pruning is advisory:
// a new schema creates a new entry regardless, so failures are logged
// and never surfaced.
func (s *Store) Prune(maxAge time.Duration) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.warn(zerr.Wrap(err, "cache prune skipped"))
		return
	}

	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), domain.CacheEntryExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, e.Name())); err != nil {
			s.warn(zerr.Wrap(err, "cache prune failed"))
		}
	}
}

func (s *Store) entryPath(fp domain.Fingerprint) string {
	return filepath.Join(s.root, string(fp)+domain.CacheEntryExt)
}

// discard removes a blob that failed to read back and logs the recovery
// as a warning. The caller reports a miss.
func (s *Store) discard(path string, cause error) {
	_ = os.Remove(path)
	if s.logger != nil {
		s.warn(zerr.Wrap(cause, domain.ErrCacheCorrupt.Error()))
	}
}

func (s *Store) warn(err error) {
	if s.logger != nil {
		s.logger.Warn(fmt.Sprintf("cache: %v", err))
	}
}

func encodeEntry(entry *domain.CacheEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)

	enc := msgpack.NewEncoder(zw)
	if err := enc.Encode(entry); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeEntry(data []byte) (*domain.CacheEntry, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = zr.Close()
	}()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}

	var entry domain.CacheEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// atomicWrite writes data to a temporary file in the cache root and
// renames it into place.
func (s *Store) atomicWrite(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(s.root, "entry-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
