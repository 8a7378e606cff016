package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/farmstack/farmsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// Stage is the temporary directory a cycle's artifacts are written to
// before the atomic move into the output directory.
type Stage struct {
	dir string
}

// newStage creates the staging directory next to the output directory,
// so that the per-file renames at commit stay on one filesystem.
func newStage(outputDir string) (*Stage, error) {
	parent := filepath.Dir(filepath.Clean(outputDir))
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(parent, ".farmsync-stage-*")
	if err != nil {
		return nil, err
	}
	return &Stage{dir: dir}, nil
}

// commit moves every staged file into the output directory, applies the
// removals, and touches the trigger file that downstream build tooling
// watches. It returns the number of files moved.
func (s *Stage) commit(outputDir string, removals []string) (int, error) {
	if err := os.MkdirAll(outputDir, domain.DirPerm); err != nil {
		return 0, err
	}

	staged, err := s.files()
	if err != nil {
		return 0, err
	}

	written := 0
	for _, rel := range staged {
		dst := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
			return written, err
		}
		if err := os.Rename(filepath.Join(s.dir, rel), dst); err != nil {
			return written, zerr.With(zerr.Wrap(err, "failed to move staged artifact"), "artifact", rel)
		}
		written++
	}

	for _, rel := range removals {
		if err := os.Remove(filepath.Join(outputDir, rel)); err != nil && !os.IsNotExist(err) {
			return written, zerr.With(zerr.Wrap(err, "failed to remove stale artifact"), "artifact", rel)
		}
	}

	if err := touch(filepath.Join(outputDir, domain.TriggerFileName)); err != nil {
		return written, err
	}

	return written, nil
}

// discard removes the staging directory and everything still in it.
// Safe to call after commit.
func (s *Stage) Discard() {
	_ = os.RemoveAll(s.dir)
}

// files lists the staged artifacts relative to the stage root.
func (s *Stage) files() ([]string, error) {
	var rels []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	return rels, err
}

func touch(path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return nil
	}
	//nolint:gosec // Path is constructed from the output root
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return err
	}
	return f.Close()
}
