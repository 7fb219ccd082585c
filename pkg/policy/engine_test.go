package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiledEngine(t *testing.T, rules []Rule) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	require.NoError(t, e.Compile(rules))
	return e
}

func triggeredNames(verdicts []Verdict) []string {
	var names []string
	for _, v := range verdicts {
		if v.Triggered {
			names = append(names, v.Rule.Name)
		}
	}
	return names
}

func TestDefaultRulesCompile(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	assert.NoError(t, e.Compile(DefaultRules()))
}

func TestEvaluateBudgetExceeded(t *testing.T) {
	e := compiledEngine(t, DefaultRules())

	verdicts := e.Evaluate(Facts{
		SpendMTD:     500,
		Budget:       300,
		Environment:  "dev",
		MaxInstances: 5,
	})

	names := triggeredNames(verdicts)
	assert.Contains(t, names, "budget-exceeded")
	// Over budget means past the near-limit band, not inside it.
	assert.NotContains(t, names, "budget-near-limit")
}

func TestEvaluateNearLimit(t *testing.T) {
	e := compiledEngine(t, DefaultRules())

	verdicts := e.Evaluate(Facts{
		SpendMTD:     250,
		Budget:       300,
		Environment:  "dev",
		MaxInstances: 5,
	})

	names := triggeredNames(verdicts)
	assert.Equal(t, []string{"budget-near-limit"}, names)
}

func TestEvaluateInstanceCeiling(t *testing.T) {
	e := compiledEngine(t, DefaultRules())

	verdicts := e.Evaluate(Facts{
		SpendMTD:       10,
		Budget:         300,
		MaxInstances:   5,
		ResourceCounts: map[string]int{"EC2 Instances": 7},
	})
	assert.Contains(t, triggeredNames(verdicts), "instance-ceiling")

	// A snapshot without the count must not trip the rule or error out.
	verdicts = e.Evaluate(Facts{SpendMTD: 10, Budget: 300, MaxInstances: 5})
	assert.NotContains(t, triggeredNames(verdicts), "instance-ceiling")
	assert.Len(t, verdicts, len(DefaultRules()))
}

func TestEvaluateGuardrailsMissing(t *testing.T) {
	e := compiledEngine(t, DefaultRules())

	verdicts := e.Evaluate(Facts{
		SpendMTD:          10,
		Budget:            300,
		MaxInstances:      5,
		GuardrailsMissing: []string{"cost-alert lambda"},
	})
	assert.Contains(t, triggeredNames(verdicts), "guardrails-missing")
}

func TestCompileBadRule(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	err = e.Compile([]Rule{{Name: "broken", Expression: "spend_mtd >"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLint(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	diags := e.Lint([]Rule{
		{Name: "ok", Expression: "spend_mtd > budget"},
		{Name: "broken", Expression: "spend_mtd >"},
		{Name: "unknown-var", Expression: "nope > 1"},
	})

	require.Len(t, diags, 2)
	assert.Equal(t, "broken", diags[0].Rule)
	assert.Equal(t, "unknown-var", diags[1].Rule)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cost-rules.yaml")

	doc := `rules:
  - name: budget-exceeded
    description: spend over budget
    expression: spend_mtd > budget
    severity: critical
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "budget-exceeded", rules[0].Name)
	assert.Equal(t, SeverityCritical, rules[0].Severity)
}

func TestLoadRulesMissingExpression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cost-rules.yaml")

	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: empty\n"), 0644))

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
