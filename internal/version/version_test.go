package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDevBuild())
	assert.Equal(t, "autorelease dev (commit unknown, built unknown)", String())
}
