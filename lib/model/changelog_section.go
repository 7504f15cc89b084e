package model

import (
	"time"

	"github.com/samber/lo"
)

// ChangelogSection is one generated changelog section: the classified and
// de-duplicated entries for a range of the repository history, plus the
// change stats for the footer.
type ChangelogSection struct {
	ID           UUID
	RepositoryID UUID
	FromRef      string
	ToRef        string
	Version      string
	Date         string

	Entries []*ChangeEntry

	FilesChanged int
	Insertions   int
	Deletions    int

	CreatedAt time.Time
}

func NewChangelogSection(repositoryID UUID, id *UUID) *ChangelogSection {
	var uuid UUID
	if id == nil {
		uuid = NewUUID("s")
	} else {
		uuid = *id
	}

	return &ChangelogSection{
		ID:           uuid,
		RepositoryID: repositoryID,
	}
}

func (s *ChangelogSection) EntriesIn(category Category) []*ChangeEntry {
	return lo.Filter(s.Entries, func(e *ChangeEntry, _ int) bool {
		return e.Category == category
	})
}

func (s *ChangelogSection) CountEntries() int {
	return len(s.Entries)
}

func (s *ChangelogSection) Title() string {
	result := s.Version
	if result == "" {
		result = "Unreleased"
	}
	if s.Date != "" {
		result += " - " + s.Date
	}
	return result
}
