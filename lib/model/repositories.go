package model

import (
	"sort"

	"github.com/samber/lo"
)

type Repositories struct {
	reposByRootDir map[string]*Repository
	reposByID      map[UUID]*Repository
}

func NewRepositories() *Repositories {
	return &Repositories{
		reposByRootDir: map[string]*Repository{},
		reposByID:      map[UUID]*Repository{},
	}
}

func (rs *Repositories) GetOrCreate(rootDir string) *Repository {
	return rs.GetOrCreateEx(rootDir, nil)
}

func (rs *Repositories) GetOrCreateEx(rootDir string, id *UUID) *Repository {
	result, ok := rs.reposByRootDir[rootDir]

	if !ok {
		result = NewRepository(rootDir, id)
		rs.reposByRootDir[rootDir] = result
		rs.reposByID[result.ID] = result
	}

	return result
}

func (rs *Repositories) Get(rootDir string) *Repository {
	return rs.reposByRootDir[rootDir]
}

func (rs *Repositories) GetByID(id UUID) *Repository {
	return rs.reposByID[id]
}

func (rs *Repositories) GetByName(name string) *Repository {
	result, _ := lo.Find(lo.Values(rs.reposByRootDir), func(r *Repository) bool {
		return r.Name == name
	})
	return result
}

func (rs *Repositories) List() []*Repository {
	result := lo.Values(rs.reposByRootDir)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
