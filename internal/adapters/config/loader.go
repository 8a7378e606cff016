// Package config provides the configuration loader for farmsync.
package config

import (
	"os"
	"path/filepath"

	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd to find farmsync.yaml, parses it, and resolves
// the path options relative to the directory the file lives in.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, domain.ConfigFileName)

	// #nosec G304 -- configPath is discovered from cwd
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg.OutputDir = resolvePath(root, cfg.OutputDir)
	cfg.CacheDir = resolvePath(root, cfg.CacheDir)
	for i, p := range cfg.SourcePaths {
		cfg.SourcePaths[i] = resolvePath(root, p)
	}

	return &cfg, nil
}

// DiscoverRoot walks up from cwd and returns the first directory
// containing farmsync.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := cwd

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// resolvePath anchors a configured path at the project root unless it is
// already absolute.
func resolvePath(root, p string) string {
	if p == "" {
		return p
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(root, p))
}
