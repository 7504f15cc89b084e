package server

import (
	"github.com/gin-gonic/gin"
)

func (s *server) initRepos(r *gin.Engine) {
	r.GET("/api/repos", getP[ListParams](s.reposList))
	r.GET("/api/commits", getP[ListParams](s.commitsList))
}

func (s *server) reposList(params *ListParams) (any, error) {
	repos, err := s.listRepos(&params.Filters)
	if err != nil {
		return nil, err
	}

	err = s.sortRepos(repos, params.Sort, params.Asc)
	if err != nil {
		return nil, err
	}

	total := len(repos)

	repos = paginate(repos, params.Offset, params.Limit)

	var result []gin.H
	for _, r := range repos {
		result = append(result, s.toRepo(r))
	}

	return gin.H{
		"data":  result,
		"total": total,
	}, nil
}

func (s *server) commitsList(params *ListParams) (any, error) {
	commits, err := s.listReposAndCommits(&params.Filters)
	if err != nil {
		return nil, err
	}

	err = s.sortCommits(commits, params.Sort, params.Asc)
	if err != nil {
		return nil, err
	}

	total := len(commits)

	commits = paginate(commits, params.Offset, params.Limit)

	var result []gin.H
	for _, rc := range commits {
		result = append(result, s.toCommit(rc.Commit, rc.Repo))
	}

	return gin.H{
		"data":  result,
		"total": total,
	}, nil
}
