package git

import (
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/pkg/errors"

	"github.com/pescuma/scribe/lib/consoles"
	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/storages"
	"github.com/pescuma/scribe/lib/utils"
)

// HistoryImporter walks whole branches and caches the extracted commits in
// the workspace, so later generate runs start warm.
type HistoryImporter struct {
	console consoles.Console
	storage storages.Storage
}

type HistoryOptions struct {
	Branch      string
	Incremental bool
	MaxCommits  *int
	SaveEvery   *time.Duration
}

func NewHistoryImporter(console consoles.Console, storage storages.Storage) *HistoryImporter {
	return &HistoryImporter{
		console: console,
		storage: storage,
	}
}

func (i *HistoryImporter) Import(dirs []string, opts *HistoryOptions) error {
	reposDB, err := i.storage.LoadRepositories()
	if err != nil {
		return err
	}

	dirs, err = findRootDirs(dirs)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		gitRepo, err := git.PlainOpen(dir)
		if err != nil {
			i.console.Printf("Skipping '%s': %s\n", dir, err)
			continue
		}

		repo := reposDB.GetOrCreate(dir)
		repo.Name = filepath.Base(dir)
		repo.VCS = "git"

		branch, gitRevision, err := findBranchHash(repo, gitRepo, opts.Branch)
		if err != nil {
			return err
		}

		repo.Branch = branch

		err = i.importCommits(repo, gitRepo, gitRevision, opts)
		if err != nil {
			return err
		}

		i.console.Printf("%v: Writing results...\n", repo.Name)

		err = i.storage.WriteRepository(repo)
		if err != nil {
			return err
		}
	}

	return nil
}

func (i *HistoryImporter) importCommits(repo *model.Repository,
	gitRepo *git.Repository, gitRevision plumbing.Hash,
	opts *HistoryOptions,
) error {
	commitsIter, err := log(gitRepo, gitRevision)
	if err != nil {
		return errors.Wrapf(err, "listing commits of %v", repo.Name)
	}

	var work []*commitWork
	total := 0
	err = commitsIter.ForEach(func(gitCommit *object.Commit) error {
		if opts.MaxCommits != nil && total >= *opts.MaxCommits {
			return storer.ErrStop
		}
		total++

		if gitCommit.NumParents() > 1 {
			return nil
		}

		commit := repo.GetOrCreateCommit(gitCommit.Hash.String())
		if opts.Incremental && commit.FilesImported() {
			return nil
		}

		work = append(work, &commitWork{gitCommit: gitCommit, commit: commit})
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "listing commits of %v", repo.Name)
	}

	if len(work) == 0 {
		return nil
	}

	i.console.Printf("%v: Importing %v commits...\n", repo.Name, len(work))

	group := utils.ParallelFor(work, func(w *commitWork) (*commitWork, error) {
		return w, w.extract()
	})

	bar := utils.NewProgressBar(len(work))
	start := time.Now()
	var batch []*model.Commit
	for w := range group.Output {
		bar.Describe(w.commit.Date.Format("2006-01-02 15"))
		_ = bar.Add(1)

		repo.SeenAt(w.commit.Date)
		batch = append(batch, w.commit)

		// Other commits may still be in flight, so periodic saves only touch
		// the finished ones.
		if opts.SaveEvery != nil && time.Since(start) >= *opts.SaveEvery {
			_ = bar.Clear()
			i.console.Printf("%v: Writing results...\n", repo.Name)

			err = i.storage.WriteCommits(repo, batch)
			if err != nil {
				return err
			}

			batch = nil
			start = time.Now()
		}
	}

	if err := <-group.Err; err != nil {
		return err
	}

	return nil
}
