package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/rules"
)

func TestParseBlocks(t *testing.T) {
	src := `
# extract package meta
[package]
package.*
!package.metadata.*

[deps]
dependencies.*
alias syn_dep = dependencies.syn
`
	blocks, err := rules.ParseBlocks(src)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "package", blocks[0].Name)
	require.Len(t, blocks[0].Patterns, 2)
	assert.False(t, blocks[0].Patterns[0].Negated)
	assert.Equal(t, "package.*", blocks[0].Patterns[0].String())
	assert.True(t, blocks[0].Patterns[1].Negated)
	assert.Equal(t, "!package.metadata.*", blocks[0].Patterns[1].String())
	assert.Empty(t, blocks[0].Aliases)

	assert.Equal(t, "deps", blocks[1].Name)
	require.Len(t, blocks[1].Aliases, 1)
	assert.Equal(t, "syn_dep", blocks[1].Aliases[0].Target)
	assert.Equal(t, "dependencies.syn", blocks[1].Aliases[0].Source.String())
}

func TestParseBlocksPreservesDeclarationOrder(t *testing.T) {
	src := `
[ordered]
!a.b.*
a.*
`
	blocks, err := rules.ParseBlocks(src)
	require.NoError(t, err)
	require.Len(t, blocks[0].Patterns, 2)
	assert.True(t, blocks[0].Patterns[0].Negated)
	assert.False(t, blocks[0].Patterns[1].Negated)
}

func TestParseBlocksErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code fuseerr.ErrorCode
	}{
		{"rule before header", "a.*\n[late]\n", fuseerr.ErrInvalidRule},
		{"unterminated header", "[broken\na.*\n", fuseerr.ErrInvalidRule},
		{"bad block name", "[not valid]\n", fuseerr.ErrInvalidRule},
		{"malformed alias", "[b]\nalias nothing\n", fuseerr.ErrInvalidRule},
		{"alias with glob source", "[b]\nalias all = config.*\n", fuseerr.ErrInvalidRule},
		{"recursive wildcard", "[b]\na.**\n", fuseerr.ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.ParseBlocks(tt.src)
			require.Error(t, err)
			assert.True(t, fuseerr.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParseBlocksEmpty(t *testing.T) {
	blocks, err := rules.ParseBlocks("# only comments\n\n")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
