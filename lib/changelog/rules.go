package changelog

import (
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	AreaCore      = "core"
	AreaGenerated = "generated"
	AreaOther     = "other"
)

// RuleSet holds the vocabularies driving classification. The defaults work
// for most repositories; projects with their own naming conventions can
// override any part of it from a YAML file.
type RuleSet struct {
	// Areas maps file paths to functional areas. Rules are tried in order
	// and the first match wins.
	Areas []AreaRule `yaml:"areas"`

	// ContractPattern matches base names of files that declare a public
	// contract, like C# interfaces (IFoo) or Go single-interface files.
	ContractPattern string `yaml:"contract_pattern"`

	// SignificantSuffixes mark a file name as part of the public surface,
	// so its rename or deletion is worth an entry.
	SignificantSuffixes []string `yaml:"significant_suffixes"`

	// Themes generate one Added entry per matched keyword over the base
	// names of added files in an area.
	Themes []ThemeRule `yaml:"themes"`

	// IDPattern collects rule/check identifiers embedded in added file
	// paths (like NDLR001) into a single entry per area.
	IDPattern     string `yaml:"id_pattern"`
	IDDescription string `yaml:"id_description"`

	// ChurnThreshold is the number of changed lines over which an area's
	// modifications collapse into one summarizing entry.
	ChurnThreshold   int    `yaml:"churn_threshold"`
	ChurnDescription string `yaml:"churn_description"`

	// MovedDescription renders the entry for a deleted core file matching
	// a significant suffix.
	MovedDescription string `yaml:"moved_description"`

	// BreakingIndicators are phrases that mark a commit as breaking when
	// found in its subject or body.
	BreakingIndicators []string `yaml:"breaking_indicators"`

	// Types maps conventional-commit types to category names. A type
	// mapped to "none" is excluded from the changelog.
	Types map[string]string `yaml:"types"`

	// Keywords drive the fallback scan over subjects without a recognized
	// type. Rules are tried in order, each word matched at a word start.
	Keywords []KeywordRule `yaml:"keywords"`

	// Exclusions are gitignore-style patterns for paths that are not
	// user-facing. A commit touching only such paths is left out.
	Exclusions []string `yaml:"exclusions"`
}

type AreaRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Except   []string `yaml:"except"`
}

type ThemeRule struct {
	Keyword     string   `yaml:"keyword"`
	Areas       []string `yaml:"areas"`
	Description string   `yaml:"description"`
}

type KeywordRule struct {
	Words    []string `yaml:"words"`
	Category string   `yaml:"category"`
}

func DefaultRules() *RuleSet {
	return &RuleSet{
		Areas: []AreaRule{
			{Name: "ci", Patterns: []string{"*.github/*", "*.gitlab-ci*", "*jenkinsfile*"}},
			{Name: "tests", Patterns: []string{"test*", "*/test*", "*_test.*", "*tests.*", "*.spec.*"}},
			{Name: "benchmarks", Patterns: []string{"*benchmark*"}},
			{Name: "examples", Patterns: []string{"*example*", "samples/*", "*/samples/*"}},
			{Name: "docs", Patterns: []string{"docs/*", "*/docs/*", "*.md", "*.rst"}, Except: []string{"src/*", "*/src/*"}},
			{Name: AreaGenerated, Patterns: []string{"*generated*", "*sourcegen*", "*.gen.*"}},
			{Name: "scripts", Patterns: []string{"scripts/*", "*/scripts/*", "tools/*", "*/tools/*"}},
			{Name: AreaCore, Patterns: []string{
				"src/*", "*/src/*", "lib/*", "*/lib/*", "internal/*", "*/internal/*",
				"pkg/*", "*/pkg/*", "cmd/*", "*/cmd/*",
			}},
		},

		ContractPattern: `^I[A-Z]`,
		SignificantSuffixes: []string{
			"Factory", "Provider", "Registrar", "Populator",
			"Loader", "Sorter", "Filterer", "Builder",
		},

		Themes: []ThemeRule{
			{Keyword: "provider", Areas: []string{AreaCore, AreaGenerated}, Description: "New providers: {names}"},
			{Keyword: "factory", Areas: []string{AreaCore, AreaGenerated}, Description: "New factories: {names}"},
			{Keyword: "bootstrap", Areas: []string{AreaCore, AreaGenerated}, Description: "Startup bootstrap support"},
		},

		IDPattern:     `[A-Z]{2,}\d+`,
		IDDescription: "New rules in {area}: {ids}",

		ChurnThreshold:   200,
		ChurnDescription: "Extensive changes in {area} (+{insertions}/-{deletions} lines)",

		MovedDescription: "`{name}` (moved or replaced)",

		BreakingIndicators: []string{
			"breaking change", "breaking-change", "breaking:",
			"removes", "deletes", "renames",
		},

		Types: map[string]string{
			"feat":     "added",
			"fix":      "fixed",
			"refactor": "changed",
			"perf":     "changed",
			"revert":   "changed",
			"style":    "none",
			"docs":     "none",
			"test":     "none",
			"chore":    "none",
			"ci":       "none",
			"build":    "none",
		},

		Keywords: []KeywordRule{
			{Words: []string{"add", "new", "create", "implement"}, Category: "added"},
			{Words: []string{"fix", "bug", "patch", "resolve"}, Category: "fixed"},
			{Words: []string{"remove", "delete", "drop"}, Category: "removed"},
			{Words: []string{"deprecate"}, Category: "deprecated"},
			{Words: []string{"security", "cve", "vulnerab"}, Category: "security"},
		},

		Exclusions: []string{
			"*.md",
			"*.rst",
			"docs/",
			"doc/",
			"test/",
			"tests/",
			"*_test.go",
			"*.spec.*",
			"*Tests.cs",
			".github/",
			".gitlab-ci.yml",
			".gitignore",
			".gitattributes",
			".editorconfig",
			"LICENSE",
			"CHANGELOG*",
		},
	}
}

// LoadRules reads a YAML rules file and overlays it on the defaults.
// Lists replace their default wholesale; the types map is merged per key.
func LoadRules(path string) (*RuleSet, error) {
	result := DefaultRules()

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading rules file %v", path)
	}

	var loaded RuleSet
	err = yaml.Unmarshal(contents, &loaded)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing rules file %v", path)
	}

	if len(loaded.Areas) > 0 {
		result.Areas = loaded.Areas
	}
	if loaded.ContractPattern != "" {
		result.ContractPattern = loaded.ContractPattern
	}
	if len(loaded.SignificantSuffixes) > 0 {
		result.SignificantSuffixes = loaded.SignificantSuffixes
	}
	if len(loaded.Themes) > 0 {
		result.Themes = loaded.Themes
	}
	if loaded.IDPattern != "" {
		result.IDPattern = loaded.IDPattern
	}
	if loaded.IDDescription != "" {
		result.IDDescription = loaded.IDDescription
	}
	if loaded.ChurnThreshold > 0 {
		result.ChurnThreshold = loaded.ChurnThreshold
	}
	if loaded.ChurnDescription != "" {
		result.ChurnDescription = loaded.ChurnDescription
	}
	if loaded.MovedDescription != "" {
		result.MovedDescription = loaded.MovedDescription
	}
	if len(loaded.BreakingIndicators) > 0 {
		result.BreakingIndicators = loaded.BreakingIndicators
	}
	if len(loaded.Types) > 0 {
		result.Types = lo.Assign(result.Types, loaded.Types)
	}
	if len(loaded.Keywords) > 0 {
		result.Keywords = loaded.Keywords
	}
	if len(loaded.Exclusions) > 0 {
		result.Exclusions = loaded.Exclusions
	}

	return result, nil
}
