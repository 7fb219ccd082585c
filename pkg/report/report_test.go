package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/costforge/costforge/pkg/inspector"
	"github.com/costforge/costforge/pkg/policy"
	"github.com/costforge/costforge/pkg/providers/terraform"
)

func sampleProfile() *inspector.Profile {
	return &inspector.Profile{
		Root:        "/work/checkout-api",
		ProjectName: "checkout-api",
		ProjectType: inspector.TypeCDKTypeScript,
		Patterns:    []inspector.Pattern{inspector.PatternCDK},
		Mentions: []inspector.Mention{
			{Category: inspector.CategoryEC2, File: "src/stack.ts"},
			{Category: inspector.CategoryRDS, File: "src/stack.ts"},
			{Category: inspector.CategoryEC2, File: "lib/worker.ts"},
		},
		BudgetEstimateUSD: 150,
		AlertEmail:        "jane@corp.com",
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleProfile(), FormatJSON))

	var out exportProfile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "checkout-api", out.ProjectName)
	assert.Equal(t, "cdk-typescript", out.ProjectType)
	assert.Equal(t, 150, out.BudgetEstimateUSD)
	assert.Len(t, out.ResourceMentions, 3)
	assert.Equal(t, 2, out.MentionCounts[inspector.CategoryEC2])
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleProfile(), FormatYAML))

	var out exportProfile
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "aws-cdk", out.InfrastructurePatterns)
	assert.Equal(t, "jane@corp.com", out.AlertEmail)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleProfile(), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 mentions
	assert.Equal(t, []string{"Category", "File"}, records[0])
	assert.Equal(t, []string{inspector.CategoryEC2, "src/stack.ts"}, records[1])
}

func TestExportUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, sampleProfile(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRenderProfile(t *testing.T) {
	out := RenderProfile(sampleProfile(), nil, nil)

	assert.Contains(t, out, "checkout-api")
	assert.Contains(t, out, "cdk-typescript")
	assert.Contains(t, out, "$150/month")
	assert.Contains(t, out, inspector.CategoryEC2)
	assert.NotContains(t, out, "TERRAFORM STATE")
}

func TestRenderProfileTerraformSections(t *testing.T) {
	inv := &terraform.Inventory{
		Resources: []terraform.Resource{
			{Type: "aws_instance", Name: "web", File: "main.tf", Line: 1, Count: 2},
		},
	}
	st := &terraform.State{
		Resources: []terraform.StateResource{
			{Mode: "managed", Type: "aws_instance", Name: "web", Instances: make([]terraform.StateInstance, 2)},
			{Mode: "managed", Type: "aws_db_instance", Name: "db", Instances: make([]terraform.StateInstance, 1)},
			{Mode: "data", Type: "aws_ami", Name: "al2"},
		},
	}

	out := RenderProfile(sampleProfile(), inv, st)

	assert.Contains(t, out, "TERRAFORM INVENTORY")
	assert.Contains(t, out, "TERRAFORM STATE")
	assert.Contains(t, out, "aws_db_instance")
	// Data sources are not deployed resources.
	assert.NotContains(t, out, "aws_ami")
}

func TestRenderAudit(t *testing.T) {
	a := &Audit{
		Account:     "123456789012",
		Environment: "dev",
		SpendMTD:    312.50,
		Budget:      280,
		ResourceCounts: map[string]int{
			inspector.CategoryEC2: 3,
		},
		Missing: []string{"budget-alarm"},
		Verdicts: []policy.Verdict{
			{Rule: policy.Rule{Name: "budget-exceeded", Severity: policy.SeverityCritical, Description: "over budget"}, Triggered: true},
			{Rule: policy.Rule{Name: "instance-ceiling", Severity: policy.SeverityWarning}, Triggered: false},
		},
	}

	out := RenderAudit(a)
	assert.Contains(t, out, "123456789012")
	assert.Contains(t, out, "budget-exceeded")
	assert.Contains(t, out, "budget-alarm")
	assert.True(t, a.Triggered(policy.SeverityCritical))
	assert.False(t, a.Triggered(policy.SeverityWarning))
}

func TestRenderAuditGuardrailsDeployed(t *testing.T) {
	out := RenderAudit(&Audit{Account: "123", Environment: "dev"})
	assert.Contains(t, strings.ToLower(out), "deployed")
}
