package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/pescuma/scribe/lib/importers/git"
	"github.com/pescuma/scribe/lib/model"
)

func TestWorkspace(t *testing.T) {
	testgroup.RunInParallel(t, &WorkspaceTests{})
}

type WorkspaceTests struct {
}

func (g *WorkspaceTests) ConfigRoundTrip(t *testgroup.T) {
	ws := newMemoryWorkspace(t)
	defer ws.Close()

	changed, err := ws.SetConfig(ConfigRulesFile, "rules.yaml")
	t.NoError(err)
	t.True(changed)

	changed, err = ws.SetConfig(ConfigRulesFile, "rules.yaml")
	t.NoError(err)
	t.False(changed)

	v, err := ws.GetConfig(ConfigRulesFile)
	t.NoError(err)
	t.Equal("rules.yaml", v)

	v, err = ws.GetConfig(ConfigOutputFile)
	t.NoError(err)
	t.Equal("", v)
}

func (g *WorkspaceTests) GenerateRecordsSection(t *testgroup.T) {
	repo := newFixtureRepo(t)
	c1 := repo.commit(t, "chore: start", map[string]string{"README.md": "hi\n"})
	repo.commit(t, "feat: add config parser", map[string]string{"src/parser.go": "package parser\n"})
	repo.commit(t, "fix: handle empty input", map[string]string{"src/parser.go": "package parser\n\nfunc Parse() {}\n"})

	ws := newMemoryWorkspace(t)
	defer ws.Close()

	section, err := ws.Generate(&GenerateOptions{
		Dir:     repo.dir,
		From:    c1,
		Version: "1.2.0",
		Date:    "2024-03-09",
	})
	t.NoError(err)

	t.Equal(c1, section.FromRef)
	t.Equal("HEAD", section.ToRef)
	t.Equal("1.2.0", section.Version)
	t.Equal("2024-03-09", section.Date)
	t.False(section.CreatedAt.IsZero())

	t.Equal(2, section.CountEntries())

	added := section.EntriesIn(model.CategoryAdded)
	t.Len(added, 1)
	t.Equal("Add config parser", added[0].Description)

	fixed := section.EntriesIn(model.CategoryFixed)
	t.Len(fixed, 1)
	t.Equal("Handle empty input", fixed[0].Description)

	t.Equal(1, section.FilesChanged)
	t.Equal(3, section.Insertions)
	t.Equal(0, section.Deletions)

	sections, err := ws.LoadChangelogSections()
	t.NoError(err)
	t.Equal(1, sections.CountSections())

	repos, err := ws.LoadRepositories()
	t.NoError(err)
	t.Len(repos.List(), 1)
	t.Equal(2, repos.List()[0].CountCommits())
}

func (g *WorkspaceTests) PreviewDoesNotRecord(t *testgroup.T) {
	repo := newFixtureRepo(t)
	c1 := repo.commit(t, "chore: start", map[string]string{"a.go": "package a\n"})
	repo.commit(t, "feat: add widget", map[string]string{"widget.go": "package a\n"})

	ws := newMemoryWorkspace(t)
	defer ws.Close()

	section, err := ws.Preview(&GenerateOptions{
		Dir:  repo.dir,
		From: c1,
	})
	t.NoError(err)
	t.Equal(1, section.CountEntries())
	t.True(section.CreatedAt.IsZero())

	sections, err := ws.LoadChangelogSections()
	t.NoError(err)
	t.Equal(0, sections.CountSections())
}

func (g *WorkspaceTests) GenerateSurvivesReopen(t *testgroup.T) {
	repo := newFixtureRepo(t)
	c1 := repo.commit(t, "chore: start", map[string]string{"a.go": "package a\n"})
	repo.commit(t, "feat: add widget", map[string]string{"widget.go": "package a\n"})

	file := filepath.Join(t.TempDir(), "scribe.sqlite")

	ws, err := NewWorkspace(file)
	t.NoError(err)

	_, err = ws.Generate(&GenerateOptions{
		Dir:     repo.dir,
		From:    c1,
		Version: "0.1.0",
	})
	t.NoError(err)
	t.NoError(ws.Close())

	ws, err = NewWorkspace(file)
	t.NoError(err)
	defer ws.Close()

	sections, err := ws.LoadChangelogSections()
	t.NoError(err)
	t.Equal(1, sections.CountSections())

	section := sections.List()[0]
	t.Equal(c1, section.FromRef)
	t.Equal("0.1.0", section.Version)
	t.Equal(1, section.CountEntries())
	t.Equal("Add widget", section.Entries[0].Description)

	repos, err := ws.LoadRepositories()
	t.NoError(err)
	t.Len(repos.List(), 1)
	t.Equal(1, repos.List()[0].CountCommits())
}

func (g *WorkspaceTests) FilesFilterScopesDown(t *testgroup.T) {
	repo := newFixtureRepo(t)
	c1 := repo.commit(t, "chore: start", map[string]string{"a.go": "package a\n"})
	repo.commit(t, "feat: add parser", map[string]string{"src/parser.go": "package parser\n"})
	repo.commit(t, "feat: add release script", map[string]string{"tools/release.go": "package main\n"})

	ws := newMemoryWorkspace(t)
	defer ws.Close()

	section, err := ws.Preview(&GenerateOptions{
		Dir:   repo.dir,
		From:  c1,
		Files: []string{"src/**"},
	})
	t.NoError(err)

	t.Equal(1, section.CountEntries())
	t.Equal("Add parser", section.Entries[0].Description)
	t.Equal(1, section.FilesChanged)
}

func (g *WorkspaceTests) UnknownRefFails(t *testgroup.T) {
	repo := newFixtureRepo(t)
	repo.commit(t, "chore: start", map[string]string{"a.go": "package a\n"})

	ws := newMemoryWorkspace(t)
	defer ws.Close()

	_, err := ws.Generate(&GenerateOptions{
		Dir:  repo.dir,
		From: "nope",
	})
	t.NotNil(err)

	var refErr *git.RefError
	t.True(errors.As(err, &refErr))
}

func (g *WorkspaceTests) EmptyRangeMakesEmptySection(t *testgroup.T) {
	repo := newFixtureRepo(t)
	head := repo.commit(t, "chore: start", map[string]string{"a.go": "package a\n"})

	ws := newMemoryWorkspace(t)
	defer ws.Close()

	section, err := ws.Generate(&GenerateOptions{
		Dir:     repo.dir,
		From:    head,
		To:      head,
		Version: "0.0.1",
	})
	t.NoError(err)

	t.Equal(0, section.CountEntries())
	t.Equal(0, section.FilesChanged)

	sections, err := ws.LoadChangelogSections()
	t.NoError(err)
	t.Equal(1, sections.CountSections())
}

func newMemoryWorkspace(t *testgroup.T) *Workspace {
	ws, err := NewWorkspace(":memory:")
	t.NoError(err)
	return ws
}

type fixtureRepo struct {
	dir   string
	wt    *gogit.Worktree
	clock time.Time
}

func newFixtureRepo(t *testgroup.T) *fixtureRepo {
	dir := t.TempDir()

	gitRepo, err := gogit.PlainInit(dir, false)
	t.NoError(err)

	wt, err := gitRepo.Worktree()
	t.NoError(err)

	return &fixtureRepo{
		dir:   dir,
		wt:    wt,
		clock: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *fixtureRepo) commit(t *testgroup.T, message string, files map[string]string) string {
	for path, content := range files {
		full := filepath.Join(r.dir, filepath.FromSlash(path))

		t.NoError(os.MkdirAll(filepath.Dir(full), 0o755))
		t.NoError(os.WriteFile(full, []byte(content), 0o644))

		_, err := r.wt.Add(path)
		t.NoError(err)
	}

	r.clock = r.clock.Add(time.Hour)
	sig := object.Signature{Name: "dev", Email: "dev@example.com", When: r.clock}

	hash, err := r.wt.Commit(message, &gogit.CommitOptions{Author: &sig})
	t.NoError(err)

	return hash.String()
}
