// Package config loads project-level snipdoc settings from an HCL file.
package config

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/snipdoc/snipdoc/pkg/quickinfo"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultPath is where Load looks when the caller passes no explicit path.
const DefaultPath = "snipdoc.hcl"

// Config holds the settings the CLI and pipeline share across invocations.
type Config struct {
	// Themes are the chroma theme names used for highlighting. More than
	// one enables multi-theme CSS-variable output.
	Themes []string `hcl:"themes,optional"`

	// AllowErrors is the default allow list: "", "true", or a
	// comma-separated list of diagnostic codes.
	AllowErrors string `hcl:"allow_errors,optional"`

	// ShowErrors attaches allowed diagnostics to tokens for display.
	ShowErrors bool `hcl:"show_errors,optional"`

	// CacheSize bounds the quick-info cache; zero keeps the default.
	CacheSize int `hcl:"cache_size,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Themes:    []string{"github-dark"},
		CacheSize: quickinfo.DefaultCapacity,
	}
}

// Load reads path from fs, falling back to defaults when the file does not
// exist. A present-but-invalid file is an error.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := hclsimple.Decode(path, data, nil, cfg); err != nil {
		return nil, errors.Errorf("decoding config %s: %w", path, err)
	}

	if len(cfg.Themes) == 0 {
		cfg.Themes = Default().Themes
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = quickinfo.DefaultCapacity
	}
	return cfg, nil
}
