package scaffold

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/costforge/costforge/pkg/config"
	"github.com/costforge/costforge/pkg/inspector"
)

// Document is the generated config.json: the inspector's profile plus the
// per-environment limit tables. It is the hand-off contract between the
// inspection and every other generated file.
type Document struct {
	ProjectName            string                      `json:"projectName"`
	Environment            string                      `json:"environment"`
	Budget                 int                         `json:"budget"`
	InfrastructurePatterns string                      `json:"infrastructurePatterns"`
	AlertEmail             string                      `json:"alertEmail"`
	Environments           map[string]EnvironmentEntry `json:"environments"`
}

// EnvironmentEntry is one limit table row with its derived budget.
type EnvironmentEntry struct {
	Budget               int      `json:"budget"`
	MaxInstances         int      `json:"maxInstances"`
	AllowedInstanceTypes []string `json:"allowedInstanceTypes"`
	RequiredTags         []string `json:"requiredTags"`
	AutoStop             bool     `json:"autoStop"`
}

// BuildDocument assembles the config document from a profile and the
// limit tables. Each environment's budget is the inspector estimate
// scaled by that environment's multiplier; the top-level budget is the
// selected environment's row.
func BuildDocument(p *inspector.Profile, environment string, limits map[string]config.EnvironmentLimits) (*Document, error) {
	selected, ok := limits[environment]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q", environment)
	}

	envs := make(map[string]EnvironmentEntry, len(limits))
	for name, l := range limits {
		envs[name] = EnvironmentEntry{
			Budget:               p.BudgetEstimateUSD * l.BudgetMultiplier,
			MaxInstances:         l.MaxInstances,
			AllowedInstanceTypes: l.AllowedInstanceTypes,
			RequiredTags:         l.RequiredTags,
			AutoStop:             l.AutoStop,
		}
	}

	return &Document{
		ProjectName:            p.ProjectName,
		Environment:            environment,
		Budget:                 p.BudgetEstimateUSD * selected.BudgetMultiplier,
		InfrastructurePatterns: p.PatternDisplay(),
		AlertEmail:             p.AlertEmail,
		Environments:           envs,
	}, nil
}

// Limits returns the selected environment's entry.
func (d *Document) Limits() EnvironmentEntry {
	return d.Environments[d.Environment]
}

// LoadDocument reads a previously generated config.json. The audit
// command uses it as its source of truth for budget and limits.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s (run `costforge init` first?): %w", path, err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if d.ProjectName == "" {
		return nil, fmt.Errorf("%s has no projectName; regenerate the bundle", path)
	}
	return &d, nil
}

// renderConfig marshals the document with two-space indentation and a
// trailing newline. encoding/json sorts the environment map keys, so the
// output is byte-stable for a given document.
func renderConfig(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append(data, '\n'), nil
}
