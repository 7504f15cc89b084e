package git

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/utils"
)

// HistorySource answers range queries against one git repository. Per-commit
// results end up in the repository model, so when the model was loaded from a
// workspace cache only commits not seen before are extracted.
type HistorySource struct {
	console consoles.Console
	repo    *model.Repository
	gitRepo *git.Repository
}

func NewHistorySource(console consoles.Console, reposDB *model.Repositories, dir string) (*HistorySource, error) {
	rootDir, err := findRootDir(dir)
	if err != nil {
		return nil, err
	}

	gitRepo, err := git.PlainOpen(rootDir)
	if err != nil {
		return nil, errors.Wrapf(err, "opening git repository at '%v'", rootDir)
	}

	repo := reposDB.GetOrCreate(rootDir)
	repo.Name = filepath.Base(rootDir)
	repo.VCS = "git"

	return &HistorySource{
		console: console,
		repo:    repo,
		gitRepo: gitRepo,
	}, nil
}

func (s *HistorySource) Repository() *model.Repository {
	return s.repo
}

// ResolveRef resolves a revision to its full commit hash.
func (s *HistorySource) ResolveRef(ref string) (string, error) {
	hash, err := resolveRef(s.gitRepo, ref)
	if err != nil {
		return "", err
	}

	return hash.String(), nil
}

// ListCommits returns the commits reachable from to but not from from,
// newest first. Merge commits are skipped. File changes come from the cache
// when a previous run already extracted them.
func (s *HistorySource) ListCommits(from, to string) ([]*model.Commit, error) {
	fromHash, err := resolveRef(s.gitRepo, from)
	if err != nil {
		return nil, err
	}

	toHash, err := resolveRef(s.gitRepo, to)
	if err != nil {
		return nil, err
	}

	excluded, err := s.reachableFrom(fromHash)
	if err != nil {
		return nil, err
	}

	commitsIter, err := log(s.gitRepo, toHash)
	if err != nil {
		return nil, errors.Wrapf(err, "listing commits of '%v'", to)
	}

	var gitCommits []*object.Commit
	err = commitsIter.ForEach(func(gitCommit *object.Commit) error {
		if excluded.Contains(gitCommit.Hash.String()) {
			return nil
		}
		if gitCommit.NumParents() > 1 {
			return nil
		}

		gitCommits = append(gitCommits, gitCommit)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing commits of '%v'", to)
	}

	result := make([]*model.Commit, 0, len(gitCommits))
	var work []*commitWork
	for _, gitCommit := range gitCommits {
		commit := s.repo.GetOrCreateCommit(gitCommit.Hash.String())
		result = append(result, commit)

		if !commit.FilesImported() {
			work = append(work, &commitWork{gitCommit: gitCommit, commit: commit})
		}
	}

	err = s.extractCommits(work)
	if err != nil {
		return nil, err
	}

	for _, commit := range result {
		s.repo.SeenAt(commit.Date)
	}

	return result, nil
}

// ListFileChanges aggregates everything that changed between two refs into
// one diff, computed fresh on every call. Renames across the whole range are
// detected here even when the per-commit history shows delete and add pairs.
func (s *HistorySource) ListFileChanges(from, to string) ([]*model.FileChange, error) {
	fromHash, err := resolveRef(s.gitRepo, from)
	if err != nil {
		return nil, err
	}

	toHash, err := resolveRef(s.gitRepo, to)
	if err != nil {
		return nil, err
	}

	fromCommit, err := s.gitRepo.CommitObject(fromHash)
	if err != nil {
		return nil, errors.Wrapf(err, "loading commit '%v'", from)
	}

	toCommit, err := s.gitRepo.CommitObject(toHash)
	if err != nil {
		return nil, errors.Wrapf(err, "loading commit '%v'", to)
	}

	changes, err := diffTrees(fromCommit, toCommit)
	if err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return nil, nil
	}

	s.console.Printf("%v: Computing changed files...\n", s.repo.Name)

	group := utils.ParallelFor(changes, func(c *treeChange) (*treeChange, error) {
		return c, c.computeLines()
	})

	bar := utils.NewProgressBar(len(changes))
	for c := range group.Output {
		bar.Describe(utils.TruncateFilename(c.fileChange.Path))
		_ = bar.Add(1)
	}

	if err := <-group.Err; err != nil {
		return nil, err
	}

	return toFileChanges(changes), nil
}

func (s *HistorySource) reachableFrom(gitRevision plumbing.Hash) (*set.Set[string], error) {
	result := set.New[string](1000)

	commitsIter, err := log(s.gitRepo, gitRevision)
	if err != nil {
		return nil, errors.Wrapf(err, "listing commits of '%v'", gitRevision)
	}

	err = commitsIter.ForEach(func(gitCommit *object.Commit) error {
		result.Insert(gitCommit.Hash.String())
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing commits of '%v'", gitRevision)
	}

	return result, nil
}

func (s *HistorySource) extractCommits(work []*commitWork) error {
	if len(work) == 0 {
		return nil
	}

	s.console.Printf("%v: Extracting %v commits...\n", s.repo.Name, len(work))

	group := utils.ParallelFor(work, func(w *commitWork) (*commitWork, error) {
		return w, w.extract()
	})

	bar := utils.NewProgressBar(len(work))
	for w := range group.Output {
		bar.Describe(w.commit.Date.Format("2006-01-02 15"))
		_ = bar.Add(1)
	}

	if err := <-group.Err; err != nil {
		return err
	}

	return nil
}

type commitWork struct {
	gitCommit *object.Commit
	commit    *model.Commit
}

func (w *commitWork) extract() error {
	commit := w.commit
	gitCommit := w.gitCommit

	commit.Subject, commit.Body = model.SplitMessage(gitCommit.Message)
	commit.Author = gitCommit.Author.Name
	commit.Date = gitCommit.Committer.When

	changes, err := commitChanges(gitCommit)
	if err != nil {
		return err
	}

	commit.Insertions = 0
	commit.Deletions = 0
	commit.Files = make([]*model.FileChange, 0, len(changes))

	for _, c := range changes {
		err = c.computeLines()
		if err != nil {
			return errors.Wrapf(err, "counting lines of %v", gitCommit.Hash)
		}

		commit.Insertions += utils.Max(c.fileChange.Insertions, 0)
		commit.Deletions += utils.Max(c.fileChange.Deletions, 0)
		commit.AddFile(c.fileChange)
	}

	return nil
}
