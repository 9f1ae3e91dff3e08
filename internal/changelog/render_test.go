package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/semver"
	"github.com/stretchr/testify/assert"
)

var releaseDate = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func section(v semver.Version, summary string, commits ...conventional.Commit) Section {
	return Section{
		Version: v,
		Date:    releaseDate,
		Summary: summary,
		Changes: conventional.Classify(commits),
	}
}

func TestRenderSection(t *testing.T) {
	tests := map[string]struct {
		section Section
		want    string
	}{
		"categories in priority order with hashes": {
			section: section(semver.Version{Major: 1, Minor: 3},
				"",
				conventional.Commit{Subject: "chore: update deps", Hash: "c0ffee1"},
				conventional.Commit{Subject: "fix: null check", Hash: "def5678"},
				conventional.Commit{Subject: "feat: add dark mode", Hash: "abc1234"},
			),
			want: "## [1.3.0] - 2026-10-17\n" +
				"\n### Features\n- feat: add dark mode (abc1234)\n" +
				"\n### Bug Fixes\n- fix: null check (def5678)\n" +
				"\n### Chores\n- chore: update deps (c0ffee1)\n" +
				"\n",
		},
		"summary subsection comes first": {
			section: section(semver.Version{Major: 3},
				"  Removes the legacy endpoint.  ",
				conventional.Commit{Subject: "fix!: remove legacy endpoint"},
			),
			want: "## [3.0.0] - 2026-10-17\n" +
				"\n### Summary\nRemoves the legacy endpoint.\n" +
				"\n### Bug Fixes\n- fix!: remove legacy endpoint\n" +
				"\n",
		},
		"other commits": {
			section: section(semver.Version{Patch: 1}, "", conventional.Commit{Subject: "Update README"}),
			want:    "## [0.0.1] - 2026-10-17\n\n### Other\n- Update README\n\n",
		},
		"no commits": {
			section: section(semver.Version{Patch: 1}, ""),
			want:    "## [0.0.1] - 2026-10-17\n\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := RenderSection(tt.section)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, RenderSection(tt.section), "rendering is idempotent")
		})
	}
}

func TestRenderSection_OmitsEmptyCategories(t *testing.T) {
	got := RenderSection(section(semver.Version{Minor: 1}, "",
		conventional.Commit{Subject: "feat: a"},
	))

	assert.Contains(t, got, "### Features")
	for _, cat := range conventional.Categories()[1:] {
		assert.NotContains(t, got, "### "+cat.String())
	}
	assert.NotContains(t, got, "### Summary")
}

func TestNewHeader(t *testing.T) {
	assert.Equal(t, "# Changelog\n"+DefaultIntro+"\n\n", NewHeader(""))
	assert.Equal(t, "# Changelog\nRelease notes.\n\n", NewHeader(" Release notes. "))
	assert.Equal(t, 1, strings.Count(NewHeader(""), "\n\n"))
}
