package model

import (
	"strings"

	"github.com/pkg/errors"
)

type Category int

const (
	CategoryNone Category = iota
	CategoryBreaking
	CategoryAdded
	CategoryChanged
	CategoryDeprecated
	CategoryRemoved
	CategoryFixed
	CategorySecurity
)

// Categories returns the renderable categories in the order their sections
// appear in a changelog.
func Categories() []Category {
	return []Category{
		CategoryBreaking,
		CategoryAdded,
		CategoryChanged,
		CategoryDeprecated,
		CategoryRemoved,
		CategoryFixed,
		CategorySecurity,
	}
}

func (c Category) String() string {
	switch c {
	case CategoryBreaking:
		return "Breaking"
	case CategoryAdded:
		return "Added"
	case CategoryChanged:
		return "Changed"
	case CategoryDeprecated:
		return "Deprecated"
	case CategoryRemoved:
		return "Removed"
	case CategoryFixed:
		return "Fixed"
	case CategorySecurity:
		return "Security"
	default:
		return "None"
	}
}

// Heading is the section title used when rendering markdown.
func (c Category) Heading() string {
	if c == CategoryBreaking {
		return "Breaking Changes"
	}
	return c.String()
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breaking":
		return CategoryBreaking, nil
	case "added":
		return CategoryAdded, nil
	case "changed":
		return CategoryChanged, nil
	case "deprecated":
		return CategoryDeprecated, nil
	case "removed":
		return CategoryRemoved, nil
	case "fixed":
		return CategoryFixed, nil
	case "security":
		return CategorySecurity, nil
	case "", "none":
		return CategoryNone, nil
	default:
		return CategoryNone, errors.Errorf("unknown category: %v", s)
	}
}
