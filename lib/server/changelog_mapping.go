package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/model"
)

func (s *server) listSections(params *Filters) ([]*model.ChangelogSection, error) {
	repo := prepareToSearch(params.FilterRepo)
	if repo == "" {
		return s.sections.List(), nil
	}

	r, err := s.findRepo(repo)
	if err != nil {
		return nil, err
	}

	return s.sections.ListForRepository(r.ID), nil
}

func (s *server) findRepo(name string) (*model.Repository, error) {
	repo, ok := lo.Find(s.repos.List(), func(r *model.Repository) bool {
		return strings.EqualFold(r.Name, name)
	})
	if !ok {
		return nil, errorNotFound
	}

	return repo, nil
}

func (s *server) findRepoOrDefault(name string) (*model.Repository, error) {
	name = prepareToSearch(name)
	if name != "" {
		return s.findRepo(name)
	}

	repos := s.repos.List()
	switch len(repos) {
	case 0:
		return nil, badRequest("no repositories imported")
	case 1:
		return repos[0], nil
	default:
		return nil, badRequest("more than one repository imported, pass repo")
	}
}

func (s *server) toSection(sec *model.ChangelogSection) gin.H {
	return gin.H{
		"id":           sec.ID,
		"repo":         s.toRepoReference(&sec.RepositoryID),
		"fromRef":      sec.FromRef,
		"toRef":        sec.ToRef,
		"version":      sec.Version,
		"date":         sec.Date,
		"title":        sec.Title(),
		"entries":      lo.Map(sec.Entries, func(e *model.ChangeEntry, _ int) gin.H { return s.toEntry(e) }),
		"filesChanged": sec.FilesChanged,
		"insertions":   sec.Insertions,
		"deletions":    sec.Deletions,
		"createdAt":    encodeDate(sec.CreatedAt),
	}
}

func (s *server) toEntry(e *model.ChangeEntry) gin.H {
	return gin.H{
		"category":    e.Category.String(),
		"description": e.Description,
		"sources":     e.Sources,
	}
}
