package changelog

import (
	"strings"

	"github.com/pescuma/scribe/lib/model"
)

type dedupKey struct {
	category    model.Category
	description string
}

// Dedup merges entries with the same description (case-insensitive) inside
// a category. The first occurrence keeps its description and position, the
// contributing sources are unioned in order of first appearance. Entries
// come back grouped by category, categories in order of first appearance.
//
// The input is not mutated, and deduplicating twice gives the same result.
func Dedup(entries []*model.ChangeEntry) []*model.ChangeEntry {
	var categories []model.Category
	byCategory := map[model.Category][]*model.ChangeEntry{}
	byKey := map[dedupKey]*model.ChangeEntry{}

	for _, entry := range entries {
		key := dedupKey{entry.Category, strings.ToLower(entry.Description)}

		existing, ok := byKey[key]
		if ok {
			existing.AddSources(entry.Sources...)
			continue
		}

		merged := model.NewChangeEntry(entry.Category, entry.Description)
		merged.AddSources(entry.Sources...)
		byKey[key] = merged

		if _, ok := byCategory[entry.Category]; !ok {
			categories = append(categories, entry.Category)
		}
		byCategory[entry.Category] = append(byCategory[entry.Category], merged)
	}

	result := make([]*model.ChangeEntry, 0, len(byKey))
	for _, category := range categories {
		result = append(result, byCategory[category]...)
	}

	return result
}
