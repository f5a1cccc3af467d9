// pkg/fuseerr/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package fuseerr_test

import (
	stderrors "errors"
	"testing"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    fuseerr.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "invalid_pattern_error",
			code:    fuseerr.ErrInvalidPattern,
			message: "bad pattern segment",
			wantStr: "[INVALID_PATTERN] bad pattern segment",
		},
		{
			name:    "unresolved_alias_error",
			code:    fuseerr.ErrUnresolvedAlias,
			message: "alias source missing",
			wantStr: "[UNRESOLVED_ALIAS] alias source missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fuseerr.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("boom")
	err := fuseerr.Wrap(inner, fuseerr.ErrMalformedDocument, "parse failed")

	require.NotNil(t, err)
	assert.Equal(t, "[MALFORMED_DOCUMENT] parse failed: boom", err.Error())
	assert.Equal(t, inner, stderrors.Unwrap(err))

	assert.Nil(t, fuseerr.Wrap(nil, fuseerr.ErrInternal, "ignored"))
}

func TestIsCode(t *testing.T) {
	err := fuseerr.Newf(fuseerr.ErrHeterogeneousArray, "array %s is mixed", "a.b")

	assert.True(t, fuseerr.IsCode(err, fuseerr.ErrHeterogeneousArray))
	assert.False(t, fuseerr.IsCode(err, fuseerr.ErrNameCollision))
	assert.False(t, fuseerr.IsCode(stderrors.New("plain"), fuseerr.ErrHeterogeneousArray))

	// wrapped errors keep their code visible through the chain
	outer := fuseerr.Wrap(err, fuseerr.ErrInternal, "resolution failed")
	assert.Equal(t, fuseerr.ErrInternal, fuseerr.CodeOf(outer))
	assert.True(t, stderrors.Is(outer, fuseerr.New(fuseerr.ErrInternal, "")))
}

func TestDetails(t *testing.T) {
	err := fuseerr.New(fuseerr.ErrNameCollision, "duplicate identifier").
		WithBlock("config").
		WithPath("config.settings.timeout").
		WithPattern("config.*")

	details := fuseerr.DetailsOf(err)
	require.NotNil(t, details)
	assert.Equal(t, "config", details["block"])
	assert.Equal(t, "config.settings.timeout", details["path"])
	assert.Equal(t, "config.*", details["pattern"])

	assert.Nil(t, fuseerr.DetailsOf(stderrors.New("plain")))
}

func TestCodeOfUnknown(t *testing.T) {
	assert.Equal(t, fuseerr.ErrUnknown, fuseerr.CodeOf(stderrors.New("plain")))
}
