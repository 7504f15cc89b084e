package changelog

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/pescuma/scribe/lib/model"
)

// PathCategorizer maps file paths to functional areas. Rules are evaluated
// in order over the lowercased slash-separated path, first match wins, and
// a path matching nothing falls back to AreaOther.
type PathCategorizer struct {
	rules []*compiledAreaRule
}

type compiledAreaRule struct {
	name     string
	patterns []glob.Glob
	except   []glob.Glob
}

func NewPathCategorizer(rules []AreaRule) (*PathCategorizer, error) {
	result := &PathCategorizer{}

	for _, rule := range rules {
		compiled := &compiledAreaRule{name: rule.Name}

		for _, pattern := range rule.Patterns {
			g, err := glob.Compile(strings.ToLower(pattern))
			if err != nil {
				return nil, errors.Wrapf(err, "invalid pattern %v in area %v", pattern, rule.Name)
			}

			compiled.patterns = append(compiled.patterns, g)
		}

		for _, pattern := range rule.Except {
			g, err := glob.Compile(strings.ToLower(pattern))
			if err != nil {
				return nil, errors.Wrapf(err, "invalid exception %v in area %v", pattern, rule.Name)
			}

			compiled.except = append(compiled.except, g)
		}

		result.rules = append(result.rules, compiled)
	}

	return result, nil
}

func (c *PathCategorizer) Categorize(path string) string {
	path = strings.ToLower(filepath.ToSlash(path))

	for _, rule := range c.rules {
		if rule.matches(path) {
			return rule.name
		}
	}

	return AreaOther
}

func (r *compiledAreaRule) matches(path string) bool {
	matched := false
	for _, g := range r.patterns {
		if g.Match(path) {
			matched = true
			break
		}
	}

	if !matched {
		return false
	}

	for _, g := range r.except {
		if g.Match(path) {
			return false
		}
	}

	return true
}

// Group splits file changes by functional area. Areas come back in rule
// order, with AreaOther last, so walking the result is deterministic.
func (c *PathCategorizer) Group(changes []*model.FileChange) ([]string, map[string][]*model.FileChange) {
	byArea := map[string][]*model.FileChange{}

	for _, change := range changes {
		area := c.Categorize(change.Path)
		byArea[area] = append(byArea[area], change)
	}

	var areas []string
	listed := map[string]bool{}
	for _, rule := range c.rules {
		if _, ok := byArea[rule.name]; ok && !listed[rule.name] {
			areas = append(areas, rule.name)
			listed[rule.name] = true
		}
	}
	if _, ok := byArea[AreaOther]; ok && !listed[AreaOther] {
		areas = append(areas, AreaOther)
	}

	return areas, byArea
}
