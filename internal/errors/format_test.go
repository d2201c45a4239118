package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	staticdexerrors "github.com/staticdex/staticdex/internal/errors"
)

func TestFormatForCLI(t *testing.T) {
	err := staticdexerrors.New(staticdexerrors.ErrCodeBadCRC, "checksum mismatch", nil).
		WithSuggestion("the file may be corrupt; rebuild the index")

	out := staticdexerrors.FormatForCLI(err)
	assert.Contains(t, out, "checksum mismatch")
	assert.Contains(t, out, "Hint:")
	assert.Contains(t, out, staticdexerrors.ErrCodeBadCRC)
}

func TestFormatForCLI_PlainError(t *testing.T) {
	out := staticdexerrors.FormatForCLI(stderrors.New("boom"))
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, staticdexerrors.ErrCodeInternal)
}

func TestFormatJSON(t *testing.T) {
	err := staticdexerrors.New(staticdexerrors.ErrCodeTruncated, "short read", stderrors.New("EOF")).
		WithDetail("section", "postings")

	data, jerr := staticdexerrors.FormatJSON(err)
	require.NoError(t, jerr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, staticdexerrors.ErrCodeTruncated, decoded["code"])
	assert.Equal(t, "short read", decoded["message"])
	assert.Equal(t, "EOF", decoded["cause"])
}

func TestFormatForLog(t *testing.T) {
	err := staticdexerrors.New(staticdexerrors.ErrCodeBadVersion, "unsupported version", nil)
	fields := staticdexerrors.FormatForLog(err)
	assert.Equal(t, staticdexerrors.ErrCodeBadVersion, fields["error_code"])
	assert.Equal(t, "unsupported version", fields["message"])
}

func TestFormatForLog_Nil(t *testing.T) {
	assert.Nil(t, staticdexerrors.FormatForLog(nil))
}
