package conventional

// Rule maps commits whose header satisfies Match to Category.
type Rule struct {
	Category Category
	Match    func(Header) bool
}

// TypeRule returns a rule matching a single Conventional Commit type token.
func TypeRule(commitType string, category Category) Rule {
	return Rule{
		Category: category,
		Match: func(h Header) bool {
			return h.Type == commitType
		},
	}
}

// DefaultRules is the fixed priority order: the first matching rule wins.
// Commits matching no rule are classified as Other.
var DefaultRules = []Rule{
	TypeRule("feat", Features),
	TypeRule("fix", BugFixes),
	TypeRule("docs", Documentation),
	TypeRule("style", Style),
	TypeRule("refactor", Refactoring),
	TypeRule("perf", Performance),
	TypeRule("test", Tests),
	TypeRule("build", Build),
	TypeRule("ci", CI),
	TypeRule("chore", Chores),
	TypeRule("revert", Reverts),
}

// Group is one non-empty category of a classification.
type Group struct {
	Category Category `json:"category" yaml:"category"`
	Commits  []Commit `json:"commits" yaml:"commits"`
}

// Classification is the ordered result of classifying a commit set.
// Groups follow category priority; empty categories are never present.
type Classification struct {
	Groups []Group `json:"groups" yaml:"groups"`
}

// Classify classifies commits with DefaultRules.
func Classify(commits []Commit) Classification {
	return ClassifyWith(DefaultRules, commits)
}

// ClassifyWith classifies every commit using rules in order.
func ClassifyWith(rules []Rule, commits []Commit) Classification {
	buckets := make(map[Category][]Commit)
	for _, c := range commits {
		cat := categorize(rules, c.Header())
		buckets[cat] = append(buckets[cat], c)
	}

	var result Classification
	for _, cat := range Categories() {
		if list, ok := buckets[cat]; ok {
			result.Groups = append(result.Groups, Group{Category: cat, Commits: list})
		}
	}
	return result
}

func categorize(rules []Rule, h Header) Category {
	for _, r := range rules {
		if r.Match(h) {
			return r.Category
		}
	}
	return Other
}

// Get returns the commits classified under cat, or nil.
func (c Classification) Get(cat Category) []Commit {
	for _, g := range c.Groups {
		if g.Category == cat {
			return g.Commits
		}
	}
	return nil
}

// Has reports whether cat holds at least one commit.
func (c Classification) Has(cat Category) bool {
	return len(c.Get(cat)) > 0
}

// Categories lists the non-empty categories in priority order.
func (c Classification) Categories() []Category {
	cats := make([]Category, len(c.Groups))
	for i, g := range c.Groups {
		cats[i] = g.Category
	}
	return cats
}

// Commits flattens the classification in category order.
func (c Classification) Commits() []Commit {
	var all []Commit
	for _, g := range c.Groups {
		all = append(all, g.Commits...)
	}
	return all
}

// Count returns the total number of classified commits.
func (c Classification) Count() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Commits)
	}
	return n
}

// IsEmpty reports whether no commits were classified.
func (c Classification) IsEmpty() bool {
	return len(c.Groups) == 0
}

// Without returns a copy of the classification with cat removed.
func (c Classification) Without(cat Category) Classification {
	var out Classification
	for _, g := range c.Groups {
		if g.Category != cat {
			out.Groups = append(out.Groups, g)
		}
	}
	return out
}
