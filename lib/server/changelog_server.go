package server

import (
	"github.com/gin-gonic/gin"

	"github.com/pescuma/scribe/lib/changelog"
	"github.com/pescuma/scribe/lib/importers/git"
)

type PreviewParams struct {
	Repo    string `form:"repo"`
	From    string `form:"from"`
	To      string `form:"to"`
	Version string `form:"version"`
	Date    string `form:"date"`
}

func (s *server) initChangelog(r *gin.Engine) {
	r.GET("/api/sections", getP[SectionsParams](s.sectionsList))
	r.GET("/api/preview", getP[PreviewParams](s.preview))
}

func (s *server) sectionsList(params *SectionsParams) (any, error) {
	sections, err := s.listSections(&params.Filters)
	if err != nil {
		return nil, err
	}

	total := len(sections)

	sections = paginate(sections, params.Offset, params.Limit)

	var result []gin.H
	for _, sec := range sections {
		result = append(result, s.toSection(sec))
	}

	return gin.H{
		"data":  result,
		"total": total,
	}, nil
}

// preview classifies a range of the repository history without recording the
// section. The extracted commits are cached the same way generate does it.
func (s *server) preview(params *PreviewParams) (any, error) {
	if params.From == "" {
		return nil, badRequest("from is required")
	}

	repo, err := s.findRepoOrDefault(params.Repo)
	if err != nil {
		return nil, err
	}

	source, err := git.NewHistorySource(s.console, s.repos, repo.RootDir)
	if err != nil {
		return nil, err
	}

	to := params.To
	if to == "" {
		to = "HEAD"
	}

	commits, err := source.ListCommits(params.From, to)
	if err != nil {
		return nil, err
	}

	fileChanges, err := source.ListFileChanges(params.From, to)
	if err != nil {
		return nil, err
	}

	section := s.generator.Generate(repo.ID, fileChanges, commits, params.Version, params.Date)
	section.FromRef = params.From
	section.ToRef = to

	err = s.storage.WriteRepository(repo)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"section":  s.toSection(section),
		"markdown": changelog.FormatSection(section),
	}, nil
}
