package config_test

import (
	"testing"

	"github.com/snipdoc/snipdoc/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := config.Load(fs, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"github-dark"}, cfg.Themes)
	assert.Equal(t, 2000, cfg.CacheSize)
	assert.Empty(t, cfg.AllowErrors)
	assert.False(t, cfg.ShowErrors)
}

func TestLoadParsesHCL(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
themes       = ["github-dark", "github"]
allow_errors = "2322,2345"
show_errors  = true
cache_size   = 500
`
	require.NoError(t, afero.WriteFile(fs, "snipdoc.hcl", []byte(content), 0o644))

	cfg, err := config.Load(fs, "snipdoc.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"github-dark", "github"}, cfg.Themes)
	assert.Equal(t, "2322,2345", cfg.AllowErrors)
	assert.True(t, cfg.ShowErrors)
	assert.Equal(t, 500, cfg.CacheSize)
}

func TestLoadInvalidHCLFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "snipdoc.hcl", []byte("themes = [unterminated"), 0o644))

	_, err := config.Load(fs, "snipdoc.hcl")
	require.Error(t, err)
}
