package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintStep(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintStep(&buf, "Created", "tag v1.3.0 at abc1234")

	out := buf.String()
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "tag v1.3.0 at abc1234")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestPrintNotice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintNotice(&buf, "Nothing to release")
	assert.Contains(t, buf.String(), "→")
	assert.Contains(t, buf.String(), "Nothing to release")
}
