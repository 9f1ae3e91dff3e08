package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps    TerminalCapabilities
		want    string
		wantSet int
	}{
		"unicode": {caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true}, want: "✓", wantSet: 14},
		"ascii":   {caps: TerminalCapabilities{IsTTY: true}, want: "[OK]", wantSet: 9},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := SelectSymbols(tt.caps)
			assert.Equal(t, tt.want, s.Checkmark)
			assert.Equal(t, tt.wantSet, s.SpinnerSet)
		})
	}
}

func TestDetectTerminalCapabilities_NotATerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.Zero(t, caps.Width)
}

func TestSpinner_NonTTY(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ok     bool
		detail string
		want   string
	}{
		"success is silent": {ok: true, want: ""},
		"failure is reported": {
			ok: false, detail: "timeout",
			want: "[FAIL] Summarizing release (timeout)\n",
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			s := NewSpinner(&buf, TerminalCapabilities{})
			s.Start("Summarizing release")
			s.Stop(tt.ok, tt.detail)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
