package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvironmentLimits defines the guardrails generated for one deployment
// environment. The values are embedded verbatim into the bundle's config,
// scripts, and Lambda sources.
type EnvironmentLimits struct {
	// BudgetMultiplier scales the inspector's dev estimate for this environment.
	BudgetMultiplier int `yaml:"budget_multiplier"`
	// MaxInstances is the instance-count ceiling enforced by the generated checks.
	MaxInstances int `yaml:"max_instances"`
	// AllowedInstanceTypes is the whitelist embedded into the tag audit.
	AllowedInstanceTypes []string `yaml:"allowed_instance_types"`
	// RequiredTags must be present on every billable resource.
	RequiredTags []string `yaml:"required_tags"`
	// AutoStop enables the out-of-hours instance stop Lambda.
	AutoStop bool `yaml:"auto_stop"`
}

// EnvironmentNames is the fixed generation order for the limit tables.
var EnvironmentNames = []string{"dev", "staging", "prod"}

// DefaultEnvironments returns the built-in limit tables. The dev row always
// carries the raw inspector estimate (multiplier 1).
func DefaultEnvironments() map[string]EnvironmentLimits {
	return map[string]EnvironmentLimits{
		"dev": {
			BudgetMultiplier:     1,
			MaxInstances:         5,
			AllowedInstanceTypes: []string{"t3.micro", "t3.small", "t3.medium"},
			RequiredTags:         []string{"Project", "Environment", "Owner"},
			AutoStop:             true,
		},
		"staging": {
			BudgetMultiplier:     2,
			MaxInstances:         10,
			AllowedInstanceTypes: []string{"t3.micro", "t3.small", "t3.medium", "m5.large"},
			RequiredTags:         []string{"Project", "Environment", "Owner"},
			AutoStop:             true,
		},
		"prod": {
			BudgetMultiplier:     5,
			MaxInstances:         25,
			AllowedInstanceTypes: []string{"t3.medium", "m5.large", "m5.xlarge", "r5.large"},
			RequiredTags:         []string{"Project", "Environment", "Owner", "CostCenter"},
			AutoStop:             false,
		},
	}
}

// LoadEnvironments reads a limits override file and merges it over the
// built-in tables. Unknown environment names are rejected so a typo does
// not silently produce an unguarded config.
func LoadEnvironments(path string) (map[string]EnvironmentLimits, error) {
	envs := DefaultEnvironments()
	if path == "" {
		return envs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limits file: %w", err)
	}

	var overrides map[string]EnvironmentLimits
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse limits yaml: %w", err)
	}

	for name, limits := range overrides {
		if _, ok := envs[name]; !ok {
			return nil, fmt.Errorf("unknown environment %q in %s", name, path)
		}
		envs[name] = limits
	}
	return envs, nil
}
