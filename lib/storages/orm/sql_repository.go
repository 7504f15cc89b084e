package orm

import (
	"time"

	"github.com/pescuma/scribe/lib/model"
)

type sqlRepository struct {
	ID      model.UUID
	Name    string
	RootDir string `gorm:"uniqueIndex"`
	VCS     string
	Branch  string

	CommitsTotal int

	Data      map[string]string `gorm:"serializer:json"`
	FirstSeen time.Time
	LastSeen  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Commits []sqlCommit `gorm:"foreignKey:RepositoryID"`
}

func newSqlRepository(r *model.Repository) *sqlRepository {
	return &sqlRepository{
		ID:           r.ID,
		Name:         r.Name,
		RootDir:      r.RootDir,
		VCS:          r.VCS,
		Branch:       r.Branch,
		CommitsTotal: r.CountCommits(),
		Data:         encodeMap(r.Data),
		FirstSeen:    r.FirstSeen,
		LastSeen:     r.LastSeen,
	}
}

func (s *sqlRepository) CacheKey() string {
	return string(s.ID)
}
