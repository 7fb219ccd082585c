package scaffold

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/costforge/costforge/pkg/policy"
)

// renderPolicyFile emits the default CEL cost rules. Every expression is
// compiled first: an invalid rules file must never reach the bundle.
func renderPolicyFile(d *Document) ([]byte, error) {
	rules := policy.DefaultRules()

	engine, err := policy.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create policy engine: %w", err)
	}
	if diags := engine.Lint(rules); len(diags) > 0 {
		return nil, fmt.Errorf("default rule %s does not compile: %s", diags[0].Rule, diags[0].Issue)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Cost rules for %s. Evaluated by `costforge audit`.\n", d.ProjectName)
	buf.WriteString("# Variables: spend_mtd, budget, environment, max_instances,\n")
	buf.WriteString("# resource_counts, guardrails_missing.\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Rules []policy.Rule `yaml:"rules"`
	}{Rules: rules}); err != nil {
		return nil, fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize rules yaml: %w", err)
	}
	return buf.Bytes(), nil
}
