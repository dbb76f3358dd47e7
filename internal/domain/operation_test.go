package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	cases := map[string]Operation{
		"1":                            WriteProperly,
		"write_properly":               WriteProperly,
		"2":                            WriteGrammarFixed,
		"write_grammar_fixed":          WriteGrammarFixed,
		"write_the_same_grammar_fixed": WriteGrammarFixed,
		"3":                            Summarize,
		"summarize":                    Summarize,
	}
	for in, want := range cases {
		got, err := ParseOperation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseOperationUnknown(t *testing.T) {
	for _, in := range []string{"", "q", "4", "Summarize", "write properly"} {
		_, err := ParseOperation(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrConfiguration, in)
	}
}

func TestOperationStringRoundTrip(t *testing.T) {
	for _, op := range Operations {
		parsed, err := ParseOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
		assert.True(t, op.Valid())
	}
	assert.False(t, Operation(42).Valid())
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{nil, ""},
		{ErrInvalidInput, "invalid_input"},
		{fmt.Errorf("wrap: %w", ErrConfiguration), "configuration_error"},
		{fmt.Errorf("wrap: %w", ErrBackendUnavailable), "backend_unavailable"},
		{ErrInvalidResponse, "invalid_response"},
		{ErrInputTooLarge, "input_too_large"},
		{errors.New("boom"), "internal_error"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, ErrorKind(tc.err))
	}
}
