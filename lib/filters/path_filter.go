package filters

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

type UsageType int

const (
	DontCare UsageType = iota
	Include
	Exclude // Exclude has preference over Include
)

func (u UsageType) Merge(other UsageType) UsageType {
	switch {
	case u == other:
		return u
	case u == Exclude || other == Exclude:
		return Exclude
	default: // One of them is Include, because they have 2 different values
		return Include
	}
}

func (u UsageType) DecideFor(usage UsageType) bool {
	switch {
	case u == Include:
		return true
	case u == Exclude:
		return false
	case u == DontCare && usage == Exclude:
		return true
	case u == DontCare && usage == Include:
		return false
	default:
		return true
	}
}

// PathFilter decides whether a repository relative path takes part in
// classification.
type PathFilter interface {
	Filter(path string) UsageType

	// Decide does not return DontCare, so it should decide what to do in this case
	Decide(u UsageType) bool
}

// ParsePathFilter builds a filter from doublestar globs. A glob starting
// with ! excludes the paths it matches. As soon as one plain glob is given,
// paths matching no glob are out; with only ! globs they stay in.
func ParsePathFilter(globs []string) (PathFilter, error) {
	result := make([]PathFilter, 0, len(globs))

	for _, g := range globs {
		usage := Include

		if strings.HasPrefix(g, "!") {
			usage = Exclude
			g = g[1:]
		}

		if !doublestar.ValidatePattern(g) {
			return nil, errors.Errorf("invalid glob: %v", g)
		}

		result = append(result, &pathGlobFilter{g, usage})
	}

	return GroupPathFilters(result...), nil
}

func GroupPathFilters(filters ...PathFilter) PathFilter {
	return &pathFilterGroup{filters}
}

type pathGlobFilter struct {
	pattern string
	usage   UsageType
}

func (f *pathGlobFilter) Filter(path string) UsageType {
	matched, err := doublestar.Match(f.pattern, path)
	if err != nil || !matched {
		return DontCare
	}

	return f.usage
}

func (f *pathGlobFilter) Decide(u UsageType) bool {
	return u.DecideFor(f.usage)
}

type pathFilterGroup struct {
	filters []PathFilter
}

func (g *pathFilterGroup) Filter(path string) UsageType {
	result := DontCare
	for _, f := range g.filters {
		result = result.Merge(f.Filter(path))
	}
	return result
}

func (g *pathFilterGroup) Decide(u UsageType) bool {
	switch u {
	case Include:
		return true
	case Exclude:
		return false
	default:
		result := true
		for _, f := range g.filters {
			result = result && f.Decide(u)
		}
		return result
	}
}
