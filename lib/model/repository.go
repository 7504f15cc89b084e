package model

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

type Repository struct {
	ID      UUID
	Name    string
	RootDir string
	VCS     string
	Branch  string

	Data      map[string]string
	FirstSeen time.Time
	LastSeen  time.Time

	commitsByHash map[string]*Commit
}

func NewRepository(rootDir string, id *UUID) *Repository {
	var uuid UUID
	if id == nil {
		uuid = NewUUID("r")
	} else {
		uuid = *id
	}

	return &Repository{
		ID:            uuid,
		RootDir:       rootDir,
		Data:          map[string]string{},
		commitsByHash: map[string]*Commit{},
	}
}

func (r *Repository) GetCommit(hash string) *Commit {
	return r.commitsByHash[hash]
}

func (r *Repository) GetOrCreateCommit(hash string) *Commit {
	return r.GetOrCreateCommitEx(hash, nil)
}

func (r *Repository) GetOrCreateCommitEx(hash string, id *UUID) *Commit {
	result, ok := r.commitsByHash[hash]

	if !ok {
		result = NewCommit(hash, id)
		r.commitsByHash[hash] = result
	}

	return result
}

func (r *Repository) ContainsCommit(hash string) bool {
	_, ok := r.commitsByHash[hash]
	return ok
}

func (r *Repository) CountCommits() int {
	return len(r.commitsByHash)
}

func (r *Repository) ListCommits() []*Commit {
	result := lo.Values(r.commitsByHash)

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].Hash < result[j].Hash
		}
		return result[i].Date.After(result[j].Date)
	})

	return result
}

func (r *Repository) SeenAt(ts ...time.Time) {
	for _, t := range ts {
		t = t.UTC().Round(time.Second)

		if r.FirstSeen.IsZero() || r.FirstSeen.After(t) {
			r.FirstSeen = t
		}
		if r.LastSeen.IsZero() || r.LastSeen.Before(t) {
			r.LastSeen = t
		}
	}
}
