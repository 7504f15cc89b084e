package changelog

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/scribe/lib/model"
)

// conventionalRe parses `type(scope)!: description` subjects.
var conventionalRe = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^)]*)\))?(!)?:\s*(.*)$`)

var wordRe = regexp.MustCompile(`^[a-z]+$`)

// CommitClassifier resolves the category of a commit from its message:
// conventional-commit type first, then breaking indicators, then a keyword
// scan as last resort.
type CommitClassifier struct {
	rules    *RuleSet
	types    map[string]model.Category
	breaking []*regexp.Regexp
	keywords []compiledKeywordRule
}

type compiledKeywordRule struct {
	pattern  *regexp.Regexp
	category model.Category
}

func NewCommitClassifier(rules *RuleSet) (*CommitClassifier, error) {
	result := &CommitClassifier{
		rules: rules,
		types: map[string]model.Category{},
	}

	for typ, name := range rules.Types {
		category, err := model.ParseCategory(name)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid category for commit type %v", typ)
		}

		result.types[strings.ToLower(typ)] = category
	}

	for _, indicator := range rules.BreakingIndicators {
		result.breaking = append(result.breaking, compileIndicator(indicator))
	}

	for _, rule := range rules.Keywords {
		category, err := model.ParseCategory(rule.Category)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid category for keywords %v", rule.Words)
		}
		if category == model.CategoryNone {
			return nil, errors.Errorf("keywords %v cannot map to none", rule.Words)
		}

		result.keywords = append(result.keywords, compiledKeywordRule{
			pattern:  compileKeywords(rule.Words),
			category: category,
		})
	}

	return result, nil
}

// Classify fills in the derived fields of the commit and returns the
// description to show for it: the subject with any recognized type prefix
// stripped and the first letter capitalized.
func (c *CommitClassifier) Classify(commit *model.Commit) string {
	description := commit.Subject

	if m := conventionalRe.FindStringSubmatch(commit.Subject); m != nil {
		commit.Type = strings.ToLower(m[1])
		commit.Scope = m[2]
		if m[3] == "!" {
			commit.IsBreaking = true
		}
		if strings.TrimSpace(m[4]) != "" {
			description = m[4]
		}
	}

	// The indicator scan runs even when the subject parsed cleanly: a
	// breaking change can be declared in the body alone.
	text := strings.ToLower(commit.Subject + "\n" + commit.Body)
	for _, indicator := range c.breaking {
		if indicator.MatchString(text) {
			commit.IsBreaking = true
			break
		}
	}

	commit.Category = c.categorize(commit)

	return capitalize(strings.TrimSpace(description))
}

func (c *CommitClassifier) categorize(commit *model.Commit) model.Category {
	if commit.IsBreaking {
		return model.CategoryBreaking
	}

	if commit.Type != "" {
		if category, ok := c.types[commit.Type]; ok {
			return category
		}
	}

	subject := strings.ToLower(commit.Subject)
	for _, rule := range c.keywords {
		if rule.pattern.MatchString(subject) {
			return rule.category
		}
	}

	return model.CategoryChanged
}

// compileIndicator turns one breaking indicator into a matcher over the
// lowercased message. Plain words match at word boundaries, anything with
// punctuation matches as a literal substring.
func compileIndicator(indicator string) *regexp.Regexp {
	indicator = strings.ToLower(indicator)

	if wordRe.MatchString(indicator) {
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(indicator) + `\b`)
	}
	return regexp.MustCompile(regexp.QuoteMeta(indicator))
}

// compileKeywords matches any of the words at a word start, so "add" also
// catches "adds" and "added".
func compileKeywords(words []string) *regexp.Regexp {
	quoted := lo.Map(words, func(w string, _ int) string {
		return regexp.QuoteMeta(strings.ToLower(w))
	})
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
