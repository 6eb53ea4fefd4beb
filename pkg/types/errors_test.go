package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  *Error
		code string
	}{
		{ErrMissingArgument, "ARG"},
		{ErrTooManyArguments, "ARG+"},
		{ErrUnknownCommand, "FN"},
		{ErrFileNotFound, "FILE"},
		{ErrNotYetLoaded, "READ"},
		{ErrEmptyBuffer, "EMPTY"},
		{ErrInvalidEncoding, "ENC"},
		{ErrSectionNotFound, "SEC"},
		{ErrSectionAmbiguous, "SEC+"},
		{ErrKeyNotFound, "KEY"},
		{ErrKeyAmbiguous, "KEY+"},
		{ErrMultiLineExpected, "SL"},
		{ErrSingleLineExpected, "ML"},
		{ErrInvalidRange, "RANGE"},
		{ErrFormat, "FMT"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Kind.Code())
		})
	}
	assert.Equal(t, "E99", ErrKind(99).Code())
}

func TestIs_MatchesKind(t *testing.T) {
	located := ErrKeyNotFound.Errorf("key %q not found", "step_pin").At(12)
	wrapped := fmt.Errorf("get key: %w", located)

	assert.True(t, errors.Is(wrapped, ErrKeyNotFound))
	assert.False(t, errors.Is(wrapped, ErrSectionNotFound))
	assert.Equal(t, `key "step_pin" not found (line 12)`, located.Error())

	// Sentinels are never modified by the helpers.
	assert.Equal(t, 0, ErrKeyNotFound.Line)
	assert.Equal(t, "key not found", ErrKeyNotFound.Msg)
}

func TestWrap(t *testing.T) {
	err := ErrFileNotFound.Wrap(fs.ErrNotExist)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, "configuration file not found: file does not exist", err.Error())
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(fmt.Errorf("outer: %w", ErrFormat.At(3)))
	require.True(t, ok)
	assert.Equal(t, ErrKindFormat, k)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}
