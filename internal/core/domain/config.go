package domain

import (
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultDebounce is the settle window applied to file watch events.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultRetryAttempts bounds schema fetch retries.
	DefaultRetryAttempts = 3

	// DefaultFetchTimeout bounds a single schema fetch request.
	DefaultFetchTimeout = 30 * time.Second
)

// Features toggles the optional generators. Type generation is always
// on. A flag left unset counts as enabled, so a features block only has
// to name the generators it turns off.
type Features struct {
	Client    *bool `yaml:"client"`
	Hooks     *bool `yaml:"hooks"`
	Streaming *bool `yaml:"streaming"`
}

// NewFeatures builds a feature set with every flag explicit.
func NewFeatures(client, hooks, streaming bool) Features {
	return Features{Client: &client, Hooks: &hooks, Streaming: &streaming}
}

// ClientEnabled reports whether the client generator runs.
func (f Features) ClientEnabled() bool { return f.Client == nil || *f.Client }

// HooksEnabled reports whether the hooks generator runs.
func (f Features) HooksEnabled() bool { return f.Hooks == nil || *f.Hooks }

// StreamingEnabled reports whether the streaming generator runs.
func (f Features) StreamingEnabled() bool { return f.Streaming == nil || *f.Streaming }

// Config describes one synchronized project.
type Config struct {
	// Endpoint is the URL of the backend schema document.
	Endpoint string `yaml:"endpoint"`

	// SourcePaths are the directories whose changes influence the
	// backend's schema and therefore trigger a cycle in watch mode.
	SourcePaths []string `yaml:"source_paths"`

	// OutputDir receives the generated artifacts.
	OutputDir string `yaml:"output_dir"`

	// CacheDir is the generation cache root.
	CacheDir string `yaml:"cache_dir"`

	// DebounceMs is the watch settle window in milliseconds.
	DebounceMs int `yaml:"debounce_ms"`

	// RetryAttempts bounds schema fetch retries.
	RetryAttempts int `yaml:"retry_attempts"`

	// FetchTimeoutMs bounds a single schema fetch request in milliseconds.
	FetchTimeoutMs int `yaml:"fetch_timeout_ms"`

	// BestEffort lets generators whose requirements all succeeded keep
	// running after an unrelated generator failed. Default is fail-fast.
	BestEffort bool `yaml:"best_effort"`

	Features Features `yaml:"features"`
}

// Normalize fills in defaults for unset options.
func (c *Config) Normalize() {
	if c.CacheDir == "" {
		c.CacheDir = DefaultCachePath()
	}
	if c.DebounceMs <= 0 {
		c.DebounceMs = int(DefaultDebounce / time.Millisecond)
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.FetchTimeoutMs <= 0 {
		c.FetchTimeoutMs = int(DefaultFetchTimeout / time.Millisecond)
	}
}

// Validate checks the options a cycle cannot run without.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return zerr.With(ErrConfigInvalid, "option", "endpoint")
	}
	if c.OutputDir == "" {
		return zerr.With(ErrConfigInvalid, "option", "output_dir")
	}
	return nil
}

// Debounce returns the settle window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// FetchTimeout returns the per-request fetch bound as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMs) * time.Millisecond
}
