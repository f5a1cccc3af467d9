package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultRules, s.Rules)
	assert.Equal(t, DefaultOutput, s.Output)
	assert.Equal(t, DefaultPackage, s.Package)
	assert.Empty(t, s.Document)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tomlfuse.toml", `
document = "app.toml"
package = "appcfg"
`)

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "app.toml", s.Document)
	assert.Equal(t, "appcfg", s.Package)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultRules, s.Rules)
	assert.Equal(t, DefaultOutput, s.Output)
}

func TestLoadPrefersHiddenConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".tomlfuse.toml", `package = "hidden"`)
	writeConfig(t, dir, "tomlfuse.toml", `package = "visible"`)

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "hidden", s.Package)
}

func TestLoadMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tomlfuse.toml", "not valid toml [")

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, fuseerr.IsCode(err, fuseerr.ErrConfigLoad))
}
