package orm

import (
	"time"

	"github.com/pescuma/scribe/lib/model"
)

type sqlCommitFile struct {
	CommitID model.UUID `gorm:"primaryKey"`
	Path     string     `gorm:"primaryKey"`
	OldPath  string
	Status   model.FileStatus

	Insertions *int
	Deletions  *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlCommitFile(c *model.Commit, f *model.FileChange) *sqlCommitFile {
	return &sqlCommitFile{
		CommitID:   c.ID,
		Path:       f.Path,
		OldPath:    f.OldPath,
		Status:     f.Status,
		Insertions: encodeMetric(f.Insertions),
		Deletions:  encodeMetric(f.Deletions),
	}
}

func (s *sqlCommitFile) CacheKey() string {
	return compositeKey(string(s.CommitID), s.Path)
}
