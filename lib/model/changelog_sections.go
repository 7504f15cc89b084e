package model

import (
	"sort"

	"github.com/samber/lo"
)

type ChangelogSections struct {
	sectionsByID map[UUID]*ChangelogSection
}

func NewChangelogSections() *ChangelogSections {
	return &ChangelogSections{
		sectionsByID: map[UUID]*ChangelogSection{},
	}
}

func (ss *ChangelogSections) Add(section *ChangelogSection) *ChangelogSection {
	ss.sectionsByID[section.ID] = section
	return section
}

func (ss *ChangelogSections) GetOrCreateEx(repositoryID UUID, id *UUID) *ChangelogSection {
	if id != nil {
		if result, ok := ss.sectionsByID[*id]; ok {
			return result
		}
	}

	result := NewChangelogSection(repositoryID, id)
	ss.sectionsByID[result.ID] = result
	return result
}

func (ss *ChangelogSections) GetByID(id UUID) *ChangelogSection {
	return ss.sectionsByID[id]
}

func (ss *ChangelogSections) CountSections() int {
	return len(ss.sectionsByID)
}

// List returns the sections newest first.
func (ss *ChangelogSections) List() []*ChangelogSection {
	result := lo.Values(ss.sectionsByID)

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

func (ss *ChangelogSections) ListForRepository(repositoryID UUID) []*ChangelogSection {
	return lo.Filter(ss.List(), func(s *ChangelogSection, _ int) bool {
		return s.RepositoryID == repositoryID
	})
}
