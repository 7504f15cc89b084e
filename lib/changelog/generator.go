package changelog

import (
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/utils"
)

// Generator runs the classification pipeline: structural analysis over the
// aggregated diff, commit classification with relevance filtering, then
// deduplication. It holds no state across runs, so one Generator can serve
// any number of ranges.
type Generator struct {
	rules       *RuleSet
	categorizer *PathCategorizer
	structural  *StructuralAnalyzer
	commits     *CommitClassifier
	relevance   *RelevanceFilter
}

func NewGenerator(rules *RuleSet) (*Generator, error) {
	if rules == nil {
		rules = DefaultRules()
	}

	categorizer, err := NewPathCategorizer(rules.Areas)
	if err != nil {
		return nil, err
	}

	structural, err := NewStructuralAnalyzer(rules, categorizer)
	if err != nil {
		return nil, err
	}

	commits, err := NewCommitClassifier(rules)
	if err != nil {
		return nil, err
	}

	return &Generator{
		rules:       rules,
		categorizer: categorizer,
		structural:  structural,
		commits:     commits,
		relevance:   NewRelevanceFilter(rules.Exclusions),
	}, nil
}

// Classify turns the raw change records into deduplicated changelog
// entries. The two sources are complementary: the structural analyzer sees
// the aggregated diff, the commit classifier sees the messages, and both
// feed the same deduplication step.
func (g *Generator) Classify(fileChanges []*model.FileChange, commits []*model.Commit) []*model.ChangeEntry {
	entries := g.structural.Analyze(fileChanges)

	for _, commit := range commits {
		description := g.commits.Classify(commit)
		if description == "" {
			continue
		}

		if commit.Category == model.CategoryNone {
			continue
		}
		if !g.relevance.Keep(commit) {
			continue
		}

		entries = append(entries, model.NewChangeEntry(commit.Category, description, commit.ShortHash()))
	}

	return Dedup(entries)
}

// Generate builds the section for one version: the classified entries plus
// the change stats for the footer.
func (g *Generator) Generate(repositoryID model.UUID, fileChanges []*model.FileChange, commits []*model.Commit,
	version, date string,
) *model.ChangelogSection {
	result := model.NewChangelogSection(repositoryID, nil)
	result.Version = version
	result.Date = date
	result.Entries = g.Classify(fileChanges, commits)

	result.FilesChanged = len(fileChanges)
	result.Insertions = lo.SumBy(fileChanges, func(f *model.FileChange) int {
		return utils.Max(f.Insertions, 0)
	})
	result.Deletions = lo.SumBy(fileChanges, func(f *model.FileChange) int {
		return utils.Max(f.Deletions, 0)
	})

	return result
}
