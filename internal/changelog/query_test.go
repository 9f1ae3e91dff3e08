package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_GetVersion(t *testing.T) {
	t.Parallel()

	doc := Parse(sampleDoc)

	tests := map[string]struct {
		version string
		want    string
		wantErr bool
	}{
		"bare":        {version: "1.3.0", want: "1.3.0"},
		"v prefixed":  {version: "v1.2.3", want: "1.2.3"},
		"unreleased":  {version: "unreleased", want: "Unreleased"},
		"not present": {version: "9.9.9", wantErr: true},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r, err := doc.GetVersion(tt.version)
			if tt.wantErr {
				var nf *VersionNotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, []string{"1.3.0", "1.2.3", "Unreleased"}, nf.AvailableVersions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Version)
		})
	}
}

func TestDocument_NotFoundOnEmpty(t *testing.T) {
	t.Parallel()

	_, err := Parse("# Changelog\n").GetVersion("1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no releases")
}

func TestDocument_Latest(t *testing.T) {
	t.Parallel()

	doc := Parse(sampleDoc)
	assert.Empty(t, doc.Latest(0))
	assert.Len(t, doc.Latest(1), 1)
	assert.Equal(t, "1.3.0", doc.Latest(1)[0].Version)
	assert.Len(t, doc.Latest(10), 3)
}

func TestDocument_Entries(t *testing.T) {
	t.Parallel()

	doc := Parse(sampleDoc)
	assert.Equal(t, 4, doc.GetEntryCount())

	last := doc.GetLastN(2)
	require.Len(t, last, 2)
	assert.Equal(t, Entry{Text: "feat: add dark mode (abc1234)", Category: "Features", Version: "1.3.0"}, last[0])
	assert.Len(t, doc.GetLastN(100), 4)
	assert.Empty(t, doc.GetLastN(0))
}
