package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgrinrt/tomlfuse/pkg/binding"
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/rules"
)

func generate(t *testing.T, tomlSrc, rulesSrc string, opts Options) string {
	t.Helper()
	doc, err := document.Parse([]byte(tomlSrc))
	require.NoError(t, err)
	blocks, err := rules.ParseBlocks(rulesSrc)
	require.NoError(t, err)
	tree, err := binding.Build(blocks, doc)
	require.NoError(t, err)
	out, err := Generate(tree, opts)
	require.NoError(t, err)
	return string(out)
}

func TestGenerateScalars(t *testing.T) {
	src := `
name = "demo"
debug = true

[settings]
timeout = 500
ratio = 0.75
`
	out := generate(t, src, "[app]\nname\ndebug\nsettings.*\n", Options{PackageName: "appcfg"})

	assert.True(t, strings.HasPrefix(out, "// Code generated by tomlfuse. DO NOT EDIT.\n"))
	assert.Contains(t, out, "package appcfg\n")
	assert.Contains(t, out, `const AppName string = "demo"`)
	assert.Contains(t, out, "const AppDebug bool = true")
	assert.Contains(t, out, "const AppSettingsTimeout int64 = 500")
	assert.Contains(t, out, "const AppSettingsRatio float64 = 0.75")
}

func TestGenerateDefaultPackage(t *testing.T) {
	out := generate(t, "x = 1\n", "[ns]\nx\n", Options{})
	assert.Contains(t, out, "package config\n")
}

func TestGenerateSourceHeader(t *testing.T) {
	out := generate(t, "x = 1\n", "[ns]\nx\n", Options{Source: "app.toml"})
	assert.Contains(t, out, "// Source: app.toml\n")
}

func TestGenerateDocComments(t *testing.T) {
	src := `
# Maximum retry count
retries = 3
`
	out := generate(t, src, "[app]\nretries\n", Options{})
	assert.Contains(t, out, "// Maximum retry count\nconst AppRetries int64 = 3")
}

func TestGenerateArrays(t *testing.T) {
	src := `
hosts = ["a", "b"]
ports = [80, 443]
flags = [true, false]
weights = [0.5, 1.5]
empty = []
nested = [[1, 2], [3]]
`
	out := generate(t, src, "[net]\n*\n", Options{})

	assert.Contains(t, out, `var NetHosts = []string{"a", "b"}`)
	assert.Contains(t, out, "var NetPorts = []int64{80, 443}")
	assert.Contains(t, out, "var NetFlags = []bool{true, false}")
	assert.Contains(t, out, "var NetWeights = []float64{0.5, 1.5}")
	assert.Contains(t, out, "var NetEmpty = []string{}")
	assert.Contains(t, out, "var NetNested = [][]int64{{1, 2}, {3}}")
}

func TestGenerateDatetime(t *testing.T) {
	src := "built = 2024-03-05T12:30:00Z\n"
	out := generate(t, src, "[meta]\nbuilt\n", Options{})

	assert.Contains(t, out, `import "time"`)
	assert.Contains(t, out, "var MetaBuilt = time.Date(2024, time.March, 5, 12, 30, 0, 0, time.UTC)")
}

func TestGenerateSkipsArraysOfTables(t *testing.T) {
	src := `
[[servers]]
host = "a"

[[servers]]
host = "b"

port = 80
`
	out := generate(t, src, "[app]\nservers\nport\n", Options{})

	assert.NotContains(t, out, "Servers")
	assert.Contains(t, out, "const AppPort int64 = 80")
}

func TestGenerateAliasIdentifiers(t *testing.T) {
	src := `
[db.connection]
timeout = 30
`
	out := generate(t, src, "[cfg]\nalias wait = db.connection.timeout\n", Options{})
	assert.Contains(t, out, "const CfgWait int64 = 30")
}

func TestGenerateSanitizedCamelCase(t *testing.T) {
	src := "max-open-files = 64\n"
	out := generate(t, src, "[limits]\nmax_open_files\n", Options{})
	assert.Contains(t, out, "const LimitsMaxOpenFiles int64 = 64")
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"timeout":        "Timeout",
		"max_open_files": "MaxOpenFiles",
		"a":              "A",
		"v2_api":         "V2Api",
	}
	for in, want := range tests {
		assert.Equal(t, want, GoName(in), "GoName(%q)", in)
	}
}
