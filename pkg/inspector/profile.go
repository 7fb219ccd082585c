// Package inspector classifies a project directory and derives the
// cost-control profile used to seed the generated bundle.
package inspector

import "strings"

// ProjectType identifies the primary toolchain of the inspected project.
type ProjectType string

const (
	TypeCDKTypeScript ProjectType = "cdk-typescript"
	TypeNodeAWS       ProjectType = "nodejs-aws"
	TypeNode          ProjectType = "nodejs"
	TypeJavaMaven     ProjectType = "java-maven"
	TypePython        ProjectType = "python"
	TypeGo            ProjectType = "golang"
	TypeRust          ProjectType = "rust"
	TypeUnknown       ProjectType = "unknown"
)

// Pattern is an infrastructure-as-code toolchain detected in the project.
type Pattern string

const (
	PatternCDK            Pattern = "aws-cdk"
	PatternCloudFormation Pattern = "cloudformation"
	PatternTerraform      Pattern = "terraform"
	PatternServerless     Pattern = "serverless"
)

// NoneDetected is the display value for an empty pattern set.
const NoneDetected = "none-detected"

// Resource categories attached to mentions.
const (
	CategoryEC2    = "EC2 Instances"
	CategoryRDS    = "RDS Databases"
	CategoryS3     = "S3 Buckets"
	CategoryLambda = "Lambda Functions"
	CategoryELB    = "Load Balancers"
)

// Mention is a single textual match of a resource declaration syntax.
// One file yields at most one mention per category, but duplicates across
// files are kept.
type Mention struct {
	Category string `json:"category"`
	File     string `json:"file"`
}

// Profile is the derived configuration record for one run. It is built
// top to bottom in a single pass and discarded after generation.
type Profile struct {
	Root              string      `json:"root"`
	ProjectName       string      `json:"projectName"`
	ProjectType       ProjectType `json:"projectType"`
	Patterns          []Pattern   `json:"infrastructurePatterns"`
	Mentions          []Mention   `json:"resourceMentions"`
	BudgetEstimateUSD int         `json:"budgetEstimateUSD"`
	AlertEmail        string      `json:"alertEmail"`
}

// PatternDisplay returns the detected patterns comma-joined in detection
// order, or "none-detected" for an empty set.
func (p *Profile) PatternDisplay() string {
	if len(p.Patterns) == 0 {
		return NoneDetected
	}
	parts := make([]string, len(p.Patterns))
	for i, pat := range p.Patterns {
		parts[i] = string(pat)
	}
	return strings.Join(parts, ",")
}

// HasPattern reports whether a pattern was detected.
func (p *Profile) HasPattern(want Pattern) bool {
	for _, pat := range p.Patterns {
		if pat == want {
			return true
		}
	}
	return false
}

// MentionCounts aggregates the mention list per category, preserving the
// raw list (the budget heuristic depends on duplicates).
func (p *Profile) MentionCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range p.Mentions {
		counts[m.Category]++
	}
	return counts
}
