package storages

import (
	"github.com/pescuma/scribe/lib/model"
)

type Storage interface {
	LoadRepositories() (*model.Repositories, error)
	WriteRepository(repo *model.Repository) error
	WriteCommits(repo *model.Repository, commits []*model.Commit) error

	LoadChangelogSections() (*model.ChangelogSections, error)
	WriteChangelogSection(section *model.ChangelogSection) error

	LoadConfig() (*map[string]string, error)
	WriteConfig() error

	Close() error
}

type Factory = func(path string) (Storage, error)
