package changelog

import (
	"github.com/go-enry/go-enry/v2"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/pescuma/scribe/lib/model"
)

// RelevanceFilter decides which commits are worth a changelog entry. A
// commit whose files are all non-user-facing is dropped, unless it is a
// breaking change: the contract may have shifted even if only scaffolding
// moved.
type RelevanceFilter struct {
	exclusions *ignore.GitIgnore
}

func NewRelevanceFilter(exclusions []string) *RelevanceFilter {
	return &RelevanceFilter{
		exclusions: ignore.CompileIgnoreLines(exclusions...),
	}
}

// UserFacing reports whether a change to this path is visible to users of
// the project.
func (f *RelevanceFilter) UserFacing(path string) bool {
	if enry.IsVendor(path) || enry.IsDocumentation(path) || enry.IsTest(path) {
		return false
	}

	return !f.exclusions.MatchesPath(path)
}

// Keep reports whether the commit should appear in the changelog. Commits
// without file information are always kept.
func (f *RelevanceFilter) Keep(commit *model.Commit) bool {
	if commit.Category == model.CategoryBreaking {
		return true
	}

	if len(commit.Files) == 0 {
		return true
	}

	for _, path := range commit.FilePaths() {
		if f.UserFacing(path) {
			return true
		}
	}

	return false
}
