package changelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bloomberg/go-testgroup"
)

func TestRules(t *testing.T) {
	testgroup.RunInParallel(t, &RulesTests{})
}

type RulesTests struct {
}

func (g *RulesTests) DefaultsBuildAWorkingGenerator(t *testgroup.T) {
	generator, err := NewGenerator(nil)

	t.NoError(err)
	t.NotNil(generator)
}

func (g *RulesTests) LoadOverlaysOnDefaults(t *testgroup.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	err := os.WriteFile(path, []byte(`
churn_threshold: 50
significant_suffixes: [Widget]
types:
  feat: changed
`), 0o600)
	t.NoError(err)

	rules, err := LoadRules(path)
	t.NoError(err)

	t.Equal(50, rules.ChurnThreshold)
	t.Equal([]string{"Widget"}, rules.SignificantSuffixes)

	// The types map is merged per key, everything else keeps its default.
	t.Equal("changed", rules.Types["feat"])
	t.Equal("fixed", rules.Types["fix"])
	t.Equal(DefaultRules().Areas, rules.Areas)
}

func (g *RulesTests) LoadMissingFileFails(t *testgroup.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))

	t.NotNil(err)
}

func (g *RulesTests) LoadBadYamlFails(t *testgroup.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	err := os.WriteFile(path, []byte("areas: {not: [a, list"), 0o600)
	t.NoError(err)

	_, err = LoadRules(path)
	t.NotNil(err)
}

func (g *RulesTests) InvalidContractPatternFails(t *testgroup.T) {
	rules := DefaultRules()
	rules.ContractPattern = "("

	_, err := NewGenerator(rules)
	t.NotNil(err)
}

func (g *RulesTests) InvalidTypeCategoryFails(t *testgroup.T) {
	rules := DefaultRules()
	rules.Types["feat"] = "nonsense"

	_, err := NewGenerator(rules)
	t.NotNil(err)
}
