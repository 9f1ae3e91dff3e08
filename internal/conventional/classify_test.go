package conventional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClassify_Categories(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		subject string
		want    Category
	}{
		"feat":              {subject: "feat: add x", want: Features},
		"fix":               {subject: "fix: y", want: BugFixes},
		"docs":              {subject: "docs: z", want: Documentation},
		"style":             {subject: "style: fmt", want: Style},
		"refactor":          {subject: "refactor: split", want: Refactoring},
		"perf":              {subject: "perf: faster", want: Performance},
		"test":              {subject: "test: cover", want: Tests},
		"build":             {subject: "build: go 1.25", want: Build},
		"ci":                {subject: "ci: cache", want: CI},
		"chore":             {subject: "chore: bump", want: Chores},
		"revert":            {subject: "revert: feat x", want: Reverts},
		"scoped":            {subject: "feat(ui): dark mode", want: Features},
		"breaking":          {subject: "fix!: remove legacy endpoint", want: BugFixes},
		"case sensitive":    {subject: "Feat: add x", want: Other},
		"unknown type":      {subject: "wip: stuff", want: Other},
		"longer type token": {subject: "feature: add x", want: Other},
		"plain message":     {subject: "Update README", want: Other},
		"prefix not at start": {subject: "see feat: x", want: Other},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result := Classify([]Commit{{Subject: tt.subject}})
			require.Len(t, result.Groups, 1)
			assert.Equal(t, tt.want, result.Groups[0].Category)
		})
	}
}

func TestClassify_GroupOrderAndInputOrder(t *testing.T) {
	t.Parallel()

	commits := []Commit{
		{Subject: "chore: update deps", Hash: "c1"},
		{Subject: "fix: null check", Hash: "f1"},
		{Subject: "Update README", Hash: "o1"},
		{Subject: "feat: add dark mode", Hash: "a1"},
		{Subject: "fix: off by one", Hash: "f2"},
	}

	result := Classify(commits)

	assert.Equal(t, []Category{Features, BugFixes, Chores, Other}, result.Categories())
	assert.Equal(t, []Commit{{Subject: "fix: null check", Hash: "f1"}, {Subject: "fix: off by one", Hash: "f2"}}, result.Get(BugFixes))
	assert.Equal(t, 5, result.Count())
	assert.False(t, result.Has(Documentation))
	assert.Nil(t, result.Get(Documentation))
}

func TestClassify_Empty(t *testing.T) {
	t.Parallel()

	result := Classify(nil)
	assert.True(t, result.IsEmpty())
	assert.Empty(t, result.Categories())
	assert.Zero(t, result.Count())
}

func TestClassification_Without(t *testing.T) {
	t.Parallel()

	result := Classify([]Commit{{Subject: "feat: a"}, {Subject: "misc"}})
	trimmed := result.Without(Other)

	assert.Equal(t, []Category{Features}, trimmed.Categories())
	assert.Equal(t, []Category{Features, Other}, result.Categories(), "original is not modified")
}

func TestClassifyWith_FirstMatchWins(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{Category: Reverts, Match: func(h Header) bool { return h.Scope == "undo" }},
		TypeRule("fix", BugFixes),
	}

	result := ClassifyWith(rules, []Commit{{Subject: "fix(undo): restore"}, {Subject: "fix: other"}})

	assert.Len(t, result.Get(Reverts), 1)
	assert.Len(t, result.Get(BugFixes), 1)
}

func TestCategory_Names(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bug Fixes", BugFixes.String())
	assert.Equal(t, "bug_fixes", BugFixes.Slug())
	assert.Equal(t, "Unknown", Category(99).String())

	text, err := CI.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ci", string(text))

	for _, c := range Categories() {
		got, ok := CategoryFromHeading(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := CategoryFromHeading("Security")
	assert.False(t, ok)
}

var subjectGen = rapid.OneOf(
	rapid.SampledFrom([]string{
		"feat: a", "fix: b", "docs: c", "style: d", "refactor: e", "perf: f",
		"test: g", "build: h", "ci: i", "chore: j", "revert: k", "feat(x)!: l",
	}),
	rapid.StringMatching(`[A-Za-z !:()]{0,20}`),
)

func TestClassify_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		subjects := rapid.SliceOf(subjectGen).Draw(t, "subjects")
		commits := make([]Commit, len(subjects))
		for i, s := range subjects {
			commits[i] = Commit{Subject: s}
		}

		result := Classify(commits)

		if result.Count() != len(commits) {
			t.Fatalf("classified %d of %d commits", result.Count(), len(commits))
		}
		prev := Category(-1)
		for _, g := range result.Groups {
			if g.Category <= prev {
				t.Fatalf("group %s out of priority order", g.Category)
			}
			if len(g.Commits) == 0 {
				t.Fatalf("empty group %s", g.Category)
			}
			prev = g.Category
		}
		// Flattening in input order per category must preserve relative order.
		for _, g := range result.Groups {
			idx := 0
			for _, c := range commits {
				if idx < len(g.Commits) && c == g.Commits[idx] {
					idx++
				}
			}
			if idx != len(g.Commits) {
				t.Fatalf("input order not preserved in %s", g.Category)
			}
		}
	})
}
