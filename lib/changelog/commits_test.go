package changelog

import (
	"testing"

	"github.com/bloomberg/go-testgroup"

	"github.com/pescuma/scribe/lib/model"
)

func TestCommitClassifier(t *testing.T) {
	testgroup.RunInParallel(t, &CommitClassifierTests{})
}

type CommitClassifierTests struct {
}

func (g *CommitClassifierTests) classify(t *testgroup.T, subject, body string) (*model.Commit, string) {
	classifier, err := NewCommitClassifier(DefaultRules())
	t.NoError(err)

	commit := model.NewCommit("a1b2c3d4e5f6", nil)
	commit.Subject = subject
	commit.Body = body

	description := classifier.Classify(commit)
	return commit, description
}

func (g *CommitClassifierTests) ConventionalFeat(t *testgroup.T) {
	commit, description := g.classify(t, "feat(core): add IFoo provider", "")

	t.Equal("feat", commit.Type)
	t.Equal("core", commit.Scope)
	t.False(commit.IsBreaking)
	t.Equal(model.CategoryAdded, commit.Category)
	t.Equal("Add IFoo provider", description)
}

func (g *CommitClassifierTests) ConventionalFix(t *testgroup.T) {
	commit, description := g.classify(t, "fix: resolve null ref in Bar", "")

	t.Equal(model.CategoryFixed, commit.Category)
	t.Equal("Resolve null ref in Bar", description)
}

func (g *CommitClassifierTests) BreakingMarkerOverridesType(t *testgroup.T) {
	commit, description := g.classify(t, "feat!: remove ILegacy", "")

	t.True(commit.IsBreaking)
	t.Equal(model.CategoryBreaking, commit.Category)
	t.Equal("Remove ILegacy", description)
}

func (g *CommitClassifierTests) BreakingIndicatorInBody(t *testgroup.T) {
	commit, _ := g.classify(t, "feat: rework config loading",
		"BREAKING CHANGE: the old config format is no longer read.")

	t.True(commit.IsBreaking)
	t.Equal(model.CategoryBreaking, commit.Category)
}

func (g *CommitClassifierTests) BreakingVerbOverridesExcludedType(t *testgroup.T) {
	commit, _ := g.classify(t, "chore: removes the legacy startup flag", "")

	t.True(commit.IsBreaking)
	t.Equal(model.CategoryBreaking, commit.Category)
}

func (g *CommitClassifierTests) ExcludedTypesMapToNone(t *testgroup.T) {
	for _, subject := range []string{
		"docs: update readme",
		"style: gofmt",
		"test: cover parser edge cases",
		"chore: bump deps",
		"ci: cache modules",
	} {
		commit, _ := g.classify(t, subject, "")

		t.Equal(model.CategoryNone, commit.Category, subject)
	}
}

func (g *CommitClassifierTests) UnrecognizedTypeFallsBackToKeywords(t *testgroup.T) {
	commit, description := g.classify(t, "wip: add dark mode", "")

	t.Equal("wip", commit.Type)
	t.Equal(model.CategoryAdded, commit.Category)
	t.Equal("Add dark mode", description)
}

func (g *CommitClassifierTests) KeywordFallbacks(t *testgroup.T) {
	cases := []struct {
		subject  string
		category model.Category
	}{
		{"Add retry logic to the client", model.CategoryAdded},
		{"Implemented config reload", model.CategoryAdded},
		{"Resolve startup bug on windows", model.CategoryFixed},
		{"Patched the flaky reconnect", model.CategoryFixed},
		{"Drop support for python 2", model.CategoryRemoved},
		{"Deprecated the v1 endpoints", model.CategoryDeprecated},
		{"Mitigate CVE-2024-12345 in parser", model.CategorySecurity},
		{"Vulnerability hardening for uploads", model.CategorySecurity},
		{"Update build pipeline", model.CategoryChanged},
	}

	for _, c := range cases {
		commit, _ := g.classify(t, c.subject, "")

		t.Equal(c.category, commit.Category, c.subject)
	}
}

func (g *CommitClassifierTests) KeywordsIgnoreBody(t *testgroup.T) {
	commit, _ := g.classify(t, "Polish the settings screen", "adds a new toggle")

	t.Equal(model.CategoryChanged, commit.Category)
}

func (g *CommitClassifierTests) DescriptionIsCapitalized(t *testgroup.T) {
	_, description := g.classify(t, "fix: null deref on empty input", "")

	t.Equal("Null deref on empty input", description)
}

func (g *CommitClassifierTests) PlainSubjectIsKept(t *testgroup.T) {
	_, description := g.classify(t, "reduce allocations in hot path", "")

	t.Equal("Reduce allocations in hot path", description)
}
