package orm

import (
	"time"

	"github.com/pescuma/scribe/lib/model"
)

type sqlCommit struct {
	ID           model.UUID
	RepositoryID model.UUID `gorm:"index"`
	Hash         string     `gorm:"index"`
	Subject      string
	Body         string
	Author       string
	Date         time.Time `gorm:"index"`

	Insertions *int
	Deletions  *int

	CreatedAt time.Time
	UpdatedAt time.Time

	Files []sqlCommitFile `gorm:"foreignKey:CommitID"`
}

func newSqlCommit(r *model.Repository, c *model.Commit) *sqlCommit {
	return &sqlCommit{
		ID:           c.ID,
		RepositoryID: r.ID,
		Hash:         c.Hash,
		Subject:      c.Subject,
		Body:         c.Body,
		Author:       c.Author,
		Date:         c.Date,
		Insertions:   encodeMetric(c.Insertions),
		Deletions:    encodeMetric(c.Deletions),
	}
}

func (s *sqlCommit) CacheKey() string {
	return string(s.ID)
}
