package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		History:           "History Error",
		Write:             "Write Error",
		Publish:           "Publish Error",
		ErrorCategory(42): "Error",
	}
	for cat, want := range tests {
		assert.Equal(t, want, cat.String())
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := ChangelogWriteFailed("CHANGELOG.md", cause)

	require.NotNil(t, err)
	assert.Equal(t, Write, err.Category)
	assert.Equal(t, "failed to write CHANGELOG.md: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, Write))
	assert.Nil(t, WrapWithMessage(nil, Write, "x"))
}

func TestAsCLIError_Wrapped(t *testing.T) {
	t.Parallel()

	inner := NewConfigError("bad key")
	wrapped := fmt.Errorf("loading: %w", inner)

	assert.True(t, IsCLIError(wrapped))
	assert.Same(t, inner, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	out := FormatErrorPlain(InvalidBumpLevel("huge"))

	assert.Contains(t, out, "Error [Argument Error]: invalid bump level: huge\n")
	assert.Contains(t, out, "Usage: autorelease tag [major|minor|patch]\n")
	assert.Contains(t, out, "To fix this:\n  • Omit the level")
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestMessages_Categories(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("boom")
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"history":        {err: HistoryReadFailed(cause), want: History},
		"not a repo":     {err: NotARepository(".", cause), want: History},
		"tag create":     {err: TagCreateFailed("v1.0.0", cause), want: Publish},
		"tag push":       {err: TagPushFailed("v1.0.0", "origin", cause), want: Publish},
		"config parse":   {err: ConfigParseError("c.yml", cause), want: Configuration},
		"missing doc":    {err: ChangelogNotFound("CHANGELOG.md"), want: Configuration},
		"invalid format": {err: InvalidFormat("xml", "text", "json"), want: Argument},
		"invalid date":   {err: InvalidDate("tomorrow"), want: Argument},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Category)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}
