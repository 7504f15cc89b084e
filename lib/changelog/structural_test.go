package changelog

import (
	"testing"

	"github.com/bloomberg/go-testgroup"

	"github.com/pescuma/scribe/lib/model"
)

func TestStructuralAnalyzer(t *testing.T) {
	testgroup.RunInParallel(t, &StructuralAnalyzerTests{})
}

type StructuralAnalyzerTests struct {
}

func (g *StructuralAnalyzerTests) analyze(t *testgroup.T, changes ...*model.FileChange) []*model.ChangeEntry {
	rules := DefaultRules()

	categorizer, err := NewPathCategorizer(rules.Areas)
	t.NoError(err)

	analyzer, err := NewStructuralAnalyzer(rules, categorizer)
	t.NoError(err)

	return analyzer.Analyze(changes)
}

func (g *StructuralAnalyzerTests) DeletedInterfaceIsBreaking(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "src/core/IFoo.cs", Status: model.FileDeleted},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryBreaking, entries[0].Category)
	t.Equal("Removed `IFoo` interface", entries[0].Description)
	t.Equal([]string{"src/core/IFoo.cs"}, entries[0].Sources)
}

func (g *StructuralAnalyzerTests) NonSourceFilesAreNotContracts(t *testgroup.T) {
	// The base name matches the contract pattern, but markdown is not code.
	entries := g.analyze(t,
		&model.FileChange{Path: "INSTALL.md", Status: model.FileDeleted},
	)

	t.Empty(entries)
}

func (g *StructuralAnalyzerTests) SignificantRenameIsChanged(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{
			Path:    "src/core/PluginCreator.cs",
			OldPath: "src/core/PluginFactory.cs",
			Status:  model.FileRenamed,
		},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryChanged, entries[0].Category)
	t.Equal("`PluginFactory` renamed to `PluginCreator`", entries[0].Description)
}

func (g *StructuralAnalyzerTests) InsignificantRenameIsIgnored(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{
			Path:    "src/core/Utils.cs",
			OldPath: "src/core/Util.cs",
			Status:  model.FileRenamed,
		},
	)

	t.Empty(entries)
}

func (g *StructuralAnalyzerTests) MoveWithSameNameIsIgnored(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{
			Path:    "src/b/PluginFactory.cs",
			OldPath: "src/a/PluginFactory.cs",
			Status:  model.FileRenamed,
		},
	)

	t.Empty(entries)
}

func (g *StructuralAnalyzerTests) CoreDeletionIsMovedOrReplaced(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "lib/needlr/AssemblyLoader.cs", Status: model.FileDeleted},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryRemoved, entries[0].Category)
	t.Equal("`AssemblyLoader` (moved or replaced)", entries[0].Description)
}

func (g *StructuralAnalyzerTests) DeletedInterfaceIsNotReportedTwice(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "src/core/IPluginFactory.cs", Status: model.FileDeleted},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryBreaking, entries[0].Category)
}

func (g *StructuralAnalyzerTests) AddedProvidersBecomeOneThemeEntry(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "lib/GeneratedTypeProvider.cs", Status: model.FileAdded},
		&model.FileChange{Path: "lib/GeneratedPluginProvider.cs", Status: model.FileAdded},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryAdded, entries[0].Category)
	t.Equal("New providers: `GeneratedPluginProvider`, `GeneratedTypeProvider`", entries[0].Description)
	t.Len(entries[0].Sources, 2)
}

func (g *StructuralAnalyzerTests) RuleIDsAreCollectedIntoOneEntry(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "src/analyzers/NDLR001UsageAnalyzer.cs", Status: model.FileAdded},
		&model.FileChange{Path: "src/analyzers/NDLR002ScopeAnalyzer.cs", Status: model.FileAdded},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryAdded, entries[0].Category)
	t.Equal("New rules in core: NDLR001, NDLR002", entries[0].Description)
}

func (g *StructuralAnalyzerTests) BigChurnCollapsesIntoOneEntry(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "src/a.go", Status: model.FileModified, Insertions: 150, Deletions: 20},
		&model.FileChange{Path: "src/b.go", Status: model.FileModified, Insertions: 40, Deletions: 30},
	)

	t.Len(entries, 1)
	t.Equal(model.CategoryChanged, entries[0].Category)
	t.Equal("Extensive changes in core (+190/-50 lines)", entries[0].Description)
	t.Equal([]string{"src/a.go", "src/b.go"}, entries[0].Sources)
}

func (g *StructuralAnalyzerTests) SmallChurnIsIgnored(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "src/a.go", Status: model.FileModified, Insertions: 50, Deletions: 20},
	)

	t.Empty(entries)
}

func (g *StructuralAnalyzerTests) ChurnIsPerArea(t *testgroup.T) {
	entries := g.analyze(t,
		&model.FileChange{Path: "docs/guide.md", Status: model.FileModified, Insertions: 300, Deletions: 0},
		&model.FileChange{Path: "src/a.go", Status: model.FileModified, Insertions: 10, Deletions: 0},
	)

	t.Len(entries, 1)
	t.Equal("Extensive changes in docs (+300/-0 lines)", entries[0].Description)
}

func (g *StructuralAnalyzerTests) NoChanges(t *testgroup.T) {
	entries := g.analyze(t)

	t.Empty(entries)
}
