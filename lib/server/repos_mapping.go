package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/filters"
	"github.com/pescuma/scribe/lib/model"
)

func (s *server) listRepos(params *Filters) ([]*model.Repository, error) {
	return s.filterRepos(s.repos.List(), params)
}

func (s *server) filterRepos(col []*model.Repository, params *Filters) ([]*model.Repository, error) {
	repoFilter, err := s.createRepoFilter(params.FilterRepo)
	if err != nil {
		return nil, err
	}

	return lo.Filter(col, func(i *model.Repository, index int) bool {
		return repoFilter(i)
	}), nil
}

func (s *server) createRepoFilter(repo string) (func(*model.Repository) bool, error) {
	repo = prepareToSearch(repo)

	switch {
	case repo != "":
		f, err := filters.ParseStringFilter(repo)
		if err != nil {
			return nil, err
		}

		return func(r *model.Repository) bool {
			return f(r.Name)
		}, nil

	default:
		return func(_ *model.Repository) bool { return true }, nil
	}
}

func (s *server) sortRepos(col []*model.Repository, field string, asc *bool) error {
	if field == "" {
		field = "name"
	}
	if asc == nil {
		asc = new(bool)
		*asc = field == "name" || field == "rootDir" || field == "vcs" || field == "branch"
	}

	switch field {
	case "name":
		return sortBy(col, func(r *model.Repository) string { return r.Name }, *asc)
	case "rootDir":
		return sortBy(col, func(r *model.Repository) string { return r.RootDir }, *asc)
	case "vcs":
		return sortBy(col, func(r *model.Repository) string { return r.VCS }, *asc)
	case "branch":
		return sortBy(col, func(r *model.Repository) string { return r.Branch }, *asc)
	case "commitsTotal":
		return sortBy(col, func(r *model.Repository) int { return r.CountCommits() }, *asc)
	case "firstSeen":
		return sortBy(col, func(r *model.Repository) int64 { return r.FirstSeen.UnixMilli() }, *asc)
	case "lastSeen":
		return sortBy(col, func(r *model.Repository) int64 { return r.LastSeen.UnixMilli() }, *asc)
	default:
		return fmt.Errorf("unknown sort field: %s", field)
	}
}

func (s *server) toRepo(r *model.Repository) gin.H {
	return gin.H{
		"id":           r.ID,
		"name":         r.Name,
		"rootDir":      r.RootDir,
		"vcs":          r.VCS,
		"branch":       r.Branch,
		"commitsTotal": r.CountCommits(),
		"firstSeen":    encodeDate(r.FirstSeen),
		"lastSeen":     encodeDate(r.LastSeen),
	}
}

func (s *server) toRepoReference(id *model.UUID) gin.H {
	if id == nil {
		return nil
	}

	repo := s.repos.GetByID(*id)

	return gin.H{
		"id":   repo.ID,
		"name": repo.Name,
	}
}

type RepoAndCommit struct {
	Repo   *model.Repository
	Commit *model.Commit
}

func (s *server) listReposAndCommits(params *Filters) ([]RepoAndCommit, error) {
	repos, err := s.listRepos(params)
	if err != nil {
		return nil, err
	}

	return lo.FlatMap(repos, func(i *model.Repository, index int) []RepoAndCommit {
		return lo.Map(i.ListCommits(), func(c *model.Commit, _ int) RepoAndCommit {
			return RepoAndCommit{
				Repo:   i,
				Commit: c,
			}
		})
	}), nil
}

func (s *server) sortCommits(col []RepoAndCommit, field string, asc *bool) error {
	if field == "" {
		field = "date"
	}
	if asc == nil {
		asc = new(bool)
		*asc = field != "date"
	}

	switch field {
	case "repo.name":
		return sortBy(col, func(r RepoAndCommit) string { return r.Repo.Name }, *asc)
	case "hash":
		return sortBy(col, func(r RepoAndCommit) string { return r.Commit.Hash }, *asc)
	case "subject":
		return sortBy(col, func(r RepoAndCommit) string { return r.Commit.Subject }, *asc)
	case "author":
		return sortBy(col, func(r RepoAndCommit) string { return r.Commit.Author }, *asc)
	case "date":
		return sortBy(col, func(r RepoAndCommit) int64 { return r.Commit.Date.UnixMilli() }, *asc)
	case "category":
		return sortBy(col, func(r RepoAndCommit) int { return int(r.Commit.Category) }, *asc)
	case "insertions":
		return sortBy(col, func(r RepoAndCommit) int { return r.Commit.Insertions }, *asc)
	case "deletions":
		return sortBy(col, func(r RepoAndCommit) int { return r.Commit.Deletions }, *asc)
	default:
		return fmt.Errorf("unknown sort field: %s", field)
	}
}

func (s *server) toCommit(commit *model.Commit, repo *model.Repository) gin.H {
	return gin.H{
		"id":         commit.ID,
		"repo":       s.toRepoReference(&repo.ID),
		"hash":       commit.Hash,
		"subject":    commit.Subject,
		"date":       commit.Date,
		"author":     commit.Author,
		"insertions": encodeMetric(commit.Insertions),
		"deletions":  encodeMetric(commit.Deletions),
		"type":       commit.Type,
		"scope":      commit.Scope,
		"breaking":   commit.IsBreaking,
		"category":   commit.Category.String(),
	}
}
