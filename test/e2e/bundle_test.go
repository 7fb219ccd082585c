//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI returns stdout only; logs go to stderr and would pollute the
// JSON export assertions.
func runCLI(t *testing.T, bin, dir string, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("costforge %s failed: %v\n%s\n%s", strings.Join(args, " "), err, stdout.String(), stderr.String())
	}
	return stdout.String()
}

func TestInitWritesBundle(t *testing.T) {
	bin := GetBinaryPath(t)
	project := WriteProjectFixture(t)

	out := runCLI(t, bin, project, "init", "--yes")
	assert.Contains(t, out, "Bundle written")

	bundle := filepath.Join(project, "cost-control")
	for _, rel := range []string{
		"config.json",
		"scripts/cost-check.sh",
		"scripts/tag-audit.sh",
		"lambda/cost-alert.js",
		"lambda/auto-stop.js",
		"cdk/cost-control-stack.ts",
		"policy/cost-rules.yaml",
		"README.md",
	} {
		info, err := os.Stat(filepath.Join(bundle, rel))
		require.NoError(t, err, rel)
		if strings.HasSuffix(rel, ".sh") {
			assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), rel)
		}
	}

	var doc struct {
		ProjectName string `json:"projectName"`
		Budget      int    `json:"budget"`
	}
	data, err := os.ReadFile(filepath.Join(bundle, "config.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "checkout-api", doc.ProjectName)
	assert.Positive(t, doc.Budget)

	// Second run without --force leaves everything alone.
	out = runCLI(t, bin, project, "init", "--yes")
	assert.Contains(t, out, "Nothing new to write")
}

func TestInspectJSONExport(t *testing.T) {
	bin := GetBinaryPath(t)
	project := WriteProjectFixture(t)

	out := runCLI(t, bin, project, "inspect", "--format", "json")

	var profile struct {
		ProjectType       string `json:"project_type"`
		InfraPatterns     string `json:"infrastructure_patterns"`
		BudgetEstimateUSD int    `json:"budget_estimate_usd"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "cdk-typescript", profile.ProjectType)
	assert.Contains(t, profile.InfraPatterns, "aws-cdk")
	assert.Positive(t, profile.BudgetEstimateUSD)
}

func TestInitToS3Target(t *testing.T) {
	bin := GetBinaryPath(t)
	project := WriteProjectFixture(t)

	CreateBucket(t, s3.NewFromConfig(GetAWSConfig(t)), "costforge-e2e")

	out := runCLI(t, bin, project, "init", "--yes", "--output", "s3://costforge-e2e/checkout-api")
	assert.Contains(t, out, "s3://costforge-e2e/checkout-api")
	assert.Contains(t, out, "config.json")
}
