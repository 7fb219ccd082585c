// Package policy compiles and evaluates CEL cost rules against audit facts.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule severities.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Rule is one user-defined cost check loaded from YAML.
type Rule struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Expression  string `yaml:"expression"`
	Severity    string `yaml:"severity"`
}

// ruleFile is the on-disk shape of a rules document.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a cost-rules YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}

	for idx, r := range doc.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d has no name", idx)
		}
		if r.Expression == "" {
			return nil, fmt.Errorf("rule %q has no expression", r.Name)
		}
	}
	return doc.Rules, nil
}

// DefaultRules returns the rules written into a generated bundle. Every
// expression must compile against the engine's declarations; the scaffold
// refuses to emit a rules file that does not.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "budget-exceeded",
			Description: "Month-to-date spend is over the configured budget",
			Expression:  `spend_mtd > budget`,
			Severity:    SeverityCritical,
		},
		{
			Name:        "budget-near-limit",
			Description: "Month-to-date spend passed 80% of the budget",
			Expression:  `spend_mtd > budget * 0.8 && spend_mtd <= budget`,
			Severity:    SeverityWarning,
		},
		{
			Name:        "instance-ceiling",
			Description: "Running instance count is over the environment limit",
			Expression:  `"EC2 Instances" in resource_counts && resource_counts["EC2 Instances"] > max_instances`,
			Severity:    SeverityWarning,
		},
		{
			Name:        "guardrails-missing",
			Description: "Deployed cost guardrails are incomplete",
			Expression:  `size(guardrails_missing) > 0`,
			Severity:    SeverityWarning,
		},
	}
}
