package watcher

import (
	"io"
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// maxGatedFileSize bounds the file size the gate is willing to hash.
// Events for larger files always pass through.
const maxGatedFileSize = 8 << 20

// HashGate suppresses file events that did not change file content.
// Editors and build tools frequently rewrite files byte-for-byte or
// touch timestamps only; without the gate every such write would start
// a debounce window and eventually a full cycle.
type HashGate struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

// NewHashGate creates an empty content gate.
func NewHashGate() *HashGate {
	return &HashGate{
		hashes: make(map[unique.Handle[string]]uint64),
	}
}

// Changed reports whether the file at path has different content than
// the last time it was seen. Removed paths, directories, and files the
// gate cannot read all count as changed.
func (g *HashGate) Changed(path string) bool {
	handle := unique.Make(path)

	info, err := os.Stat(path)
	if err != nil {
		// Removal. Forget the entry so a later re-create counts as new.
		g.mu.Lock()
		delete(g.hashes, handle)
		g.mu.Unlock()
		return true
	}
	if info.IsDir() || !info.Mode().IsRegular() || info.Size() > maxGatedFileSize {
		return true
	}

	sum, err := hashFile(path)
	if err != nil {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	prev, seen := g.hashes[handle]
	g.hashes[handle] = sum
	return !seen || prev != sum
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
