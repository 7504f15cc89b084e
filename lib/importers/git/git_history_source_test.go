package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/model"
)

func TestHistorySource(t *testing.T) {
	testgroup.RunInParallel(t, &HistorySourceTests{})
}

type HistorySourceTests struct {
}

func (g *HistorySourceTests) ResolveRefReturnsFullHash(t *testgroup.T) {
	repo := newTestRepo(t)
	hash := repo.commit(t, "feat: start", map[string]string{"a.go": "package a\n"})

	source := newTestSource(t, repo.dir)

	resolved, err := source.ResolveRef(hash)
	t.NoError(err)
	t.Equal(hash, resolved)

	resolved, err = source.ResolveRef("HEAD")
	t.NoError(err)
	t.Equal(hash, resolved)
}

func (g *HistorySourceTests) ResolveRefFailsForUnknownRef(t *testgroup.T) {
	repo := newTestRepo(t)
	repo.commit(t, "feat: start", map[string]string{"a.go": "package a\n"})

	source := newTestSource(t, repo.dir)

	_, err := source.ResolveRef("nope")
	t.NotNil(err)

	var refErr *RefError
	t.True(errors.As(err, &refErr))
	t.Equal("nope", refErr.Ref)
	t.Contains(err.Error(), "does not exist")
}

func (g *HistorySourceTests) ListCommitsReturnsRangeNewestFirst(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: start", map[string]string{"src/a.go": "line1\nline2\n"})
	c2 := repo.commit(t, "feat: add widget", map[string]string{"src/b.go": "line1\nline2\nline3\n"})
	c3 := repo.commit(t, "fix: adjust parser\n\nHandles tabs as well.", map[string]string{"src/a.go": "line1\nCHANGED\n"})

	source := newTestSource(t, repo.dir)

	commits, err := source.ListCommits(c1, c3)
	t.NoError(err)
	t.Len(commits, 2)

	t.Equal(c3, commits[0].Hash)
	t.Equal("fix: adjust parser", commits[0].Subject)
	t.Equal("Handles tabs as well.", commits[0].Body)
	t.Equal("dev", commits[0].Author)
	t.True(commits[0].FilesImported())
	t.Len(commits[0].Files, 1)
	t.Equal("src/a.go", commits[0].Files[0].Path)
	t.Equal(model.FileModified, commits[0].Files[0].Status)

	t.Equal(c2, commits[1].Hash)
	t.Len(commits[1].Files, 1)
	t.Equal("src/b.go", commits[1].Files[0].Path)
	t.Equal(model.FileAdded, commits[1].Files[0].Status)
	t.Equal(3, commits[1].Files[0].Insertions)
	t.Equal(3, commits[1].Insertions)
	t.Equal(0, commits[1].Deletions)
}

func (g *HistorySourceTests) ListCommitsSkipsMerges(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: start", map[string]string{"a.go": "line1\n"})
	c3 := repo.commit(t, "fix: adjust", map[string]string{"a.go": "line1\nline2\n"})
	c2 := repo.rawCommit(t, "chore: side branch work", repo.treeOf(t, c1), c1)
	merge := repo.rawCommit(t, "Merge branch 'side'", repo.treeOf(t, c3), c3, c2)

	source := newTestSource(t, repo.dir)

	commits, err := source.ListCommits(c1, merge)
	t.NoError(err)
	t.Len(commits, 2)
	t.Equal(c2, commits[0].Hash)
	t.Equal(c3, commits[1].Hash)
	t.Empty(commits[0].Files)
}

func (g *HistorySourceTests) ListCommitsEmptyRange(t *testgroup.T) {
	repo := newTestRepo(t)
	repo.commit(t, "feat: start", map[string]string{"a.go": "line1\n"})
	c2 := repo.commit(t, "fix: adjust", map[string]string{"a.go": "line1\nline2\n"})

	source := newTestSource(t, repo.dir)

	commits, err := source.ListCommits(c2, c2)
	t.NoError(err)
	t.Empty(commits)
}

func (g *HistorySourceTests) ListCommitsUsesCachedResults(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: start", map[string]string{"a.go": "line1\n"})
	c2 := repo.commit(t, "fix: adjust", map[string]string{"a.go": "line1\nline2\n"})

	source := newTestSource(t, repo.dir)

	first, err := source.ListCommits(c1, c2)
	t.NoError(err)
	t.Len(first, 1)

	first[0].Subject = "tampered"

	second, err := source.ListCommits(c1, c2)
	t.NoError(err)
	t.Len(second, 1)
	t.Equal("tampered", second[0].Subject)
}

func (g *HistorySourceTests) ListCommitsFailsForUnknownFrom(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: start", map[string]string{"a.go": "line1\n"})

	source := newTestSource(t, repo.dir)

	_, err := source.ListCommits("nope", c1)
	t.NotNil(err)

	var refErr *RefError
	t.True(errors.As(err, &refErr))
}

func (g *HistorySourceTests) ListFileChangesAggregatesRange(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: start", map[string]string{"src/a.go": "line1\nline2\nline3\n"})
	repo.commit(t, "feat: temp file", map[string]string{
		"src/a.go":   "line1\nCHANGED\nline3\n",
		"src/tmp.go": "temporary\n",
	})
	c3 := repo.commit(t, "chore: cleanup", map[string]string{"src/a.go": "line1\nCHANGED\nline3\nline4\n"}, "src/tmp.go")

	source := newTestSource(t, repo.dir)

	changes, err := source.ListFileChanges(c1, c3)
	t.NoError(err)
	t.Len(changes, 1)

	t.Equal("src/a.go", changes[0].Path)
	t.Equal(model.FileModified, changes[0].Status)
	t.Equal(2, changes[0].Insertions)
	t.Equal(1, changes[0].Deletions)
}

func (g *HistorySourceTests) ListFileChangesDetectsRenames(t *testgroup.T) {
	content := "namespace Core;\n\npublic class WidgetProvider\n{\n}\n"

	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: add provider", map[string]string{"src/OldProvider.cs": content})
	c2 := repo.commit(t, "refactor: rename provider", map[string]string{"src/NewProvider.cs": content}, "src/OldProvider.cs")

	source := newTestSource(t, repo.dir)

	changes, err := source.ListFileChanges(c1, c2)
	t.NoError(err)
	t.Len(changes, 1)

	t.Equal(model.FileRenamed, changes[0].Status)
	t.Equal("src/NewProvider.cs", changes[0].Path)
	t.Equal("src/OldProvider.cs", changes[0].OldPath)
	t.True(changes[0].Renamed())
	t.Equal(0, changes[0].Insertions)
	t.Equal(0, changes[0].Deletions)
}

func (g *HistorySourceTests) ListFileChangesCountsBinaryAsZero(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: add icon", map[string]string{"icon.bin": "\x00\x01\x02\x03"})
	c2 := repo.commit(t, "feat: update icon", map[string]string{"icon.bin": "\x00\x04\x05\x06\x07"})

	source := newTestSource(t, repo.dir)

	changes, err := source.ListFileChanges(c1, c2)
	t.NoError(err)
	t.Len(changes, 1)

	t.Equal(model.FileModified, changes[0].Status)
	t.Equal(0, changes[0].Insertions)
	t.Equal(0, changes[0].Deletions)
}

func (g *HistorySourceTests) ListFileChangesEmptyWhenRefsEqual(t *testgroup.T) {
	repo := newTestRepo(t)
	c1 := repo.commit(t, "feat: start", map[string]string{"a.go": "line1\n"})

	source := newTestSource(t, repo.dir)

	changes, err := source.ListFileChanges(c1, c1)
	t.NoError(err)
	t.Empty(changes)
}

func (g *HistorySourceTests) FindRootDirWalksUp(t *testgroup.T) {
	repo := newTestRepo(t)
	repo.commit(t, "feat: start", map[string]string{"src/deep/a.go": "line1\n"})

	rootDir, err := findRootDir(filepath.Join(repo.dir, "src", "deep"))
	t.NoError(err)
	t.Equal(repo.dir, rootDir)
}

func (g *HistorySourceTests) FindRootDirFailsOutsideRepos(t *testgroup.T) {
	_, err := findRootDir(t.TempDir())
	t.NotNil(err)
	t.Contains(err.Error(), "not inside a git repository")
}

func newTestSource(t *testgroup.T, dir string) *HistorySource {
	source, err := NewHistorySource(consoles.NewStdErrConsole(), model.NewRepositories(), dir)
	t.NoError(err)
	return source
}

type testRepo struct {
	dir     string
	gitRepo *gogit.Repository
	wt      *gogit.Worktree
	clock   time.Time
}

func newTestRepo(t *testgroup.T) *testRepo {
	dir := t.TempDir()

	gitRepo, err := gogit.PlainInit(dir, false)
	t.NoError(err)

	wt, err := gitRepo.Worktree()
	t.NoError(err)

	return &testRepo{
		dir:     dir,
		gitRepo: gitRepo,
		wt:      wt,
		clock:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) commit(t *testgroup.T, message string, files map[string]string, remove ...string) string {
	for path, content := range files {
		full := filepath.Join(r.dir, filepath.FromSlash(path))

		t.NoError(os.MkdirAll(filepath.Dir(full), 0o755))
		t.NoError(os.WriteFile(full, []byte(content), 0o644))

		_, err := r.wt.Add(path)
		t.NoError(err)
	}

	for _, path := range remove {
		_, err := r.wt.Remove(path)
		t.NoError(err)
	}

	sig := r.nextSignature()
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{Author: &sig})
	t.NoError(err)

	return hash.String()
}

// rawCommit writes a commit object directly, which is the only way to build
// merge commits here: go-git worktrees cannot merge.
func (r *testRepo) rawCommit(t *testgroup.T, message string, tree plumbing.Hash, parents ...string) string {
	sig := r.nextSignature()

	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   message,
		TreeHash:  tree,
		ParentHashes: lo.Map(parents, func(p string, _ int) plumbing.Hash {
			return plumbing.NewHash(p)
		}),
	}

	obj := r.gitRepo.Storer.NewEncodedObject()
	t.NoError(commit.Encode(obj))

	hash, err := r.gitRepo.Storer.SetEncodedObject(obj)
	t.NoError(err)

	return hash.String()
}

func (r *testRepo) treeOf(t *testgroup.T, hash string) plumbing.Hash {
	gitCommit, err := r.gitRepo.CommitObject(plumbing.NewHash(hash))
	t.NoError(err)
	return gitCommit.TreeHash
}

func (r *testRepo) nextSignature() object.Signature {
	r.clock = r.clock.Add(time.Hour)

	return object.Signature{
		Name:  "dev",
		Email: "dev@example.com",
		When:  r.clock,
	}
}
