package orm

import (
	"time"

	"github.com/pescuma/scribe/lib/model"
)

type sqlChangelogSection struct {
	ID           model.UUID
	RepositoryID model.UUID `gorm:"index"`
	FromRef      string
	ToRef        string
	Version      string
	Date         string

	Entries []*model.ChangeEntry `gorm:"serializer:json"`

	FilesChanged int
	Insertions   int
	Deletions    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlChangelogSection(s *model.ChangelogSection) *sqlChangelogSection {
	return &sqlChangelogSection{
		ID:           s.ID,
		RepositoryID: s.RepositoryID,
		FromRef:      s.FromRef,
		ToRef:        s.ToRef,
		Version:      s.Version,
		Date:         s.Date,
		Entries:      s.Entries,
		FilesChanged: s.FilesChanged,
		Insertions:   s.Insertions,
		Deletions:    s.Deletions,
		CreatedAt:    s.CreatedAt,
	}
}

func (s *sqlChangelogSection) CacheKey() string {
	return string(s.ID)
}
