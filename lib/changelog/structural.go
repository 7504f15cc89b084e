package changelog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/model"
	"github.com/pescuma/scribe/lib/utils"
)

// StructuralAnalyzer derives changelog entries from the shape of a diff
// alone: which files appeared, disappeared, got renamed or churned, without
// looking at commit messages.
type StructuralAnalyzer struct {
	rules       *RuleSet
	categorizer *PathCategorizer
	contract    *regexp.Regexp
	id          *regexp.Regexp
}

func NewStructuralAnalyzer(rules *RuleSet, categorizer *PathCategorizer) (*StructuralAnalyzer, error) {
	contract, err := regexp.Compile(rules.ContractPattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid contract pattern %v", rules.ContractPattern)
	}

	id, err := regexp.Compile(rules.IDPattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid id pattern %v", rules.IDPattern)
	}

	return &StructuralAnalyzer{
		rules:       rules,
		categorizer: categorizer,
		contract:    contract,
		id:          id,
	}, nil
}

// Analyze runs all heuristics over the file changes. A heuristic that does
// not match simply contributes nothing, so this never fails.
func (a *StructuralAnalyzer) Analyze(changes []*model.FileChange) []*model.ChangeEntry {
	var result []*model.ChangeEntry

	contracts := set.New[string](10)

	for _, change := range changes {
		if change.Status != model.FileDeleted || !isSourceFile(change.Path) {
			continue
		}

		name := baseName(change.Path)
		if a.contract.MatchString(name) {
			contracts.Insert(name)
			result = append(result, model.NewChangeEntry(model.CategoryBreaking,
				fmt.Sprintf("Removed `%v` interface", name), change.Path))
		}
	}

	result = append(result, a.significantRenames(changes)...)
	result = append(result, a.movedCapabilities(changes, contracts)...)

	areas, byArea := a.categorizer.Group(changes)
	for _, area := range areas {
		files := byArea[area]

		result = append(result, a.themeEntries(area, files)...)

		if e := a.idEntry(area, files); e != nil {
			result = append(result, e)
		}
		if e := a.churnEntry(area, files); e != nil {
			result = append(result, e)
		}
	}

	return result
}

func (a *StructuralAnalyzer) significantRenames(changes []*model.FileChange) []*model.ChangeEntry {
	var result []*model.ChangeEntry

	for _, change := range changes {
		if !change.Renamed() || !isSourceFile(change.Path) {
			continue
		}

		oldName := baseName(change.OldPath)
		newName := baseName(change.Path)

		if oldName != newName && a.hasSignificantSuffix(oldName) {
			result = append(result, model.NewChangeEntry(model.CategoryChanged,
				fmt.Sprintf("`%v` renamed to `%v`", oldName, newName), change.Path))
		}
	}

	return result
}

func (a *StructuralAnalyzer) movedCapabilities(changes []*model.FileChange, contracts *set.Set[string]) []*model.ChangeEntry {
	var result []*model.ChangeEntry

	for _, change := range changes {
		if change.Status != model.FileDeleted || !isSourceFile(change.Path) {
			continue
		}
		if a.categorizer.Categorize(change.Path) != AreaCore {
			continue
		}

		name := baseName(change.Path)
		if contracts.Contains(name) || !a.hasSignificantSuffix(name) {
			continue
		}

		result = append(result, model.NewChangeEntry(model.CategoryRemoved,
			renderTemplate(a.rules.MovedDescription, map[string]string{"name": name}),
			change.Path))
	}

	return result
}

func (a *StructuralAnalyzer) themeEntries(area string, files []*model.FileChange) []*model.ChangeEntry {
	var result []*model.ChangeEntry

	for _, theme := range a.rules.Themes {
		if len(theme.Areas) > 0 && !lo.Contains(theme.Areas, area) {
			continue
		}

		var names []string
		var sources []string
		for _, file := range files {
			if file.Status != model.FileAdded || !isSourceFile(file.Path) {
				continue
			}

			name := baseName(file.Path)
			if strings.Contains(strings.ToLower(name), theme.Keyword) {
				names = append(names, "`"+name+"`")
				sources = append(sources, file.Path)
			}
		}

		if len(names) == 0 {
			continue
		}

		names = lo.Uniq(names)
		sort.Strings(names)

		result = append(result, model.NewChangeEntry(model.CategoryAdded,
			renderTemplate(theme.Description, map[string]string{
				"area":  area,
				"names": strings.Join(names, ", "),
			}),
			sources...))
	}

	return result
}

func (a *StructuralAnalyzer) idEntry(area string, files []*model.FileChange) *model.ChangeEntry {
	ids := set.New[string](10)
	var sources []string

	for _, file := range files {
		if file.Status != model.FileAdded {
			continue
		}

		if id := a.id.FindString(file.Path); id != "" {
			ids.Insert(id)
			sources = append(sources, file.Path)
		}
	}

	if ids.Empty() {
		return nil
	}

	sorted := ids.Slice()
	sort.Strings(sorted)

	return model.NewChangeEntry(model.CategoryAdded,
		renderTemplate(a.rules.IDDescription, map[string]string{
			"area": area,
			"ids":  strings.Join(sorted, ", "),
		}),
		sources...)
}

func (a *StructuralAnalyzer) churnEntry(area string, files []*model.FileChange) *model.ChangeEntry {
	modified := lo.Filter(files, func(f *model.FileChange, _ int) bool {
		return f.Status == model.FileModified
	})
	if len(modified) == 0 {
		return nil
	}

	churn := lo.SumBy(modified, func(f *model.FileChange) int {
		return f.Churn()
	})
	if churn <= a.rules.ChurnThreshold {
		return nil
	}

	insertions := lo.SumBy(modified, func(f *model.FileChange) int {
		return utils.Max(f.Insertions, 0)
	})
	deletions := lo.SumBy(modified, func(f *model.FileChange) int {
		return utils.Max(f.Deletions, 0)
	})

	return model.NewChangeEntry(model.CategoryChanged,
		renderTemplate(a.rules.ChurnDescription, map[string]string{
			"area":       area,
			"files":      strconv.Itoa(len(modified)),
			"insertions": strconv.Itoa(insertions),
			"deletions":  strconv.Itoa(deletions),
		}),
		lo.Map(modified, func(f *model.FileChange, _ int) string { return f.Path })...)
}

func (a *StructuralAnalyzer) hasSignificantSuffix(name string) bool {
	return lo.SomeBy(a.rules.SignificantSuffixes, func(suffix string) bool {
		return strings.Contains(name, suffix)
	})
}

func baseName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isSourceFile(path string) bool {
	for _, lang := range enry.GetLanguagesByExtension(path, nil, nil) {
		if enry.GetLanguageType(lang) == enry.Programming {
			return true
		}
	}
	return false
}

func renderTemplate(template string, vars map[string]string) string {
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
