package filters

import (
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/model"
)

func FilterFileChanges(filter PathFilter, changes []*model.FileChange) []*model.FileChange {
	return lo.Filter(changes, func(f *model.FileChange, _ int) bool {
		return keepFileChange(filter, f)
	})
}

// FilterCommits keeps the commits that touch at least one surviving file.
// Commits without file changes follow the group default, so they stay
// unless an include glob scopes the run down.
func FilterCommits(filter PathFilter, commits []*model.Commit) []*model.Commit {
	return lo.Filter(commits, func(c *model.Commit, _ int) bool {
		if len(c.Files) == 0 {
			return filter.Decide(DontCare)
		}

		return lo.SomeBy(c.Files, func(f *model.FileChange) bool {
			return keepFileChange(filter, f)
		})
	})
}

func keepFileChange(filter PathFilter, f *model.FileChange) bool {
	u := filter.Filter(f.Path)
	if f.Renamed() {
		u = u.Merge(filter.Filter(f.OldPath))
	}

	return filter.Decide(u)
}
