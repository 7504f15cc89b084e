package model

import "github.com/samber/lo"

// ChangeEntry is one line of a changelog section. Sources lists the
// identifiers of the records that contributed it: abbreviated commit hashes
// for commit entries, file paths for entries derived from file changes.
type ChangeEntry struct {
	Category    Category
	Description string
	Sources     []string
}

func NewChangeEntry(category Category, description string, sources ...string) *ChangeEntry {
	return &ChangeEntry{
		Category:    category,
		Description: description,
		Sources:     sources,
	}
}

func (e *ChangeEntry) AddSources(sources ...string) {
	e.Sources = lo.Uniq(append(e.Sources, sources...))
}
