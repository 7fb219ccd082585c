package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costforge/costforge/pkg/config"
	"github.com/costforge/costforge/pkg/inspector"
	"github.com/costforge/costforge/pkg/policy"
	"github.com/costforge/costforge/pkg/storage"
)

func fixtureProfile() *inspector.Profile {
	mentions := []inspector.Mention{
		{Category: inspector.CategoryRDS, File: "src/db.ts"},
		{Category: inspector.CategoryELB, File: "src/lb.ts"},
	}
	for i := 0; i < 10; i++ {
		mentions = append(mentions, inspector.Mention{
			Category: inspector.CategoryEC2, File: "src/stack.ts",
		})
	}
	return &inspector.Profile{
		Root:              "/work/checkout-api",
		ProjectName:       "checkout-api",
		ProjectType:       inspector.TypeCDKTypeScript,
		Patterns:          []inspector.Pattern{inspector.PatternCDK, inspector.PatternTerraform},
		Mentions:          mentions,
		BudgetEstimateUSD: inspector.EstimateBudget(mentions),
		AlertEmail:        "jane@corp.com",
	}
}

func renderFixture(t *testing.T) map[string]File {
	t.Helper()
	files, err := Render(fixtureProfile(), "dev", config.DefaultEnvironments())
	require.NoError(t, err)

	byPath := make(map[string]File, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}
	return byPath
}

func TestRenderBundleContents(t *testing.T) {
	files := renderFixture(t)

	require.Len(t, files, 8)
	for _, path := range []string{
		"config.json",
		"scripts/cost-check.sh",
		"scripts/tag-audit.sh",
		"lambda/cost-alert.js",
		"lambda/auto-stop.js",
		"cdk/cost-control-stack.ts",
		"policy/cost-rules.yaml",
		"README.md",
	} {
		assert.Contains(t, files, path)
	}

	assert.Equal(t, os.FileMode(0755), files["scripts/cost-check.sh"].Mode)
	assert.Equal(t, os.FileMode(0755), files["scripts/tag-audit.sh"].Mode)
	assert.Equal(t, os.FileMode(0644), files["config.json"].Mode)
}

func TestRenderWithoutCDKPattern(t *testing.T) {
	p := fixtureProfile()
	p.Patterns = []inspector.Pattern{inspector.PatternTerraform}

	files, err := Render(p, "dev", config.DefaultEnvironments())
	require.NoError(t, err)

	for _, f := range files {
		assert.NotContains(t, f.Path, "cdk/")
	}
	require.Len(t, files, 7)
}

func TestConfigGolden(t *testing.T) {
	files := renderFixture(t)
	g := goldie.New(t)
	g.Assert(t, "config", files["config.json"].Data)
}

func TestCostCheckScriptGolden(t *testing.T) {
	files := renderFixture(t)
	g := goldie.New(t)
	g.Assert(t, "cost-check", files["scripts/cost-check.sh"].Data)
}

func TestReadmeGolden(t *testing.T) {
	files := renderFixture(t)
	g := goldie.New(t)
	g.Assert(t, "readme", files["README.md"].Data)
}

func TestBudgetLiteralDuplicatedAcrossBundle(t *testing.T) {
	// The bundle's contract: every artifact is self-contained, so the
	// same budget figure appears verbatim in each generated file.
	files := renderFixture(t)

	for _, path := range []string{
		"scripts/cost-check.sh",
		"lambda/cost-alert.js",
		"cdk/cost-control-stack.ts",
	} {
		content := string(files[path].Data)
		assert.Contains(t, content, "280", path)
		assert.Contains(t, content, "checkout-api", path)
	}
	assert.Contains(t, string(files["lambda/cost-alert.js"].Data), "jane@corp.com")
	assert.Contains(t, string(files["cdk/cost-control-stack.ts"].Data), "jane@corp.com")
}

func TestStagingBudgetMultiplier(t *testing.T) {
	files, err := Render(fixtureProfile(), "staging", config.DefaultEnvironments())
	require.NoError(t, err)

	var costCheck string
	for _, f := range files {
		if f.Path == "scripts/cost-check.sh" {
			costCheck = string(f.Data)
		}
	}
	// 280 estimate x2 for staging.
	assert.Contains(t, costCheck, "BUDGET=560")
}

func TestPolicyFileRoundTrip(t *testing.T) {
	files := renderFixture(t)

	path := filepath.Join(t.TempDir(), "cost-rules.yaml")
	require.NoError(t, os.WriteFile(path, files["policy/cost-rules.yaml"].Data, 0644))

	rules, err := policy.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, policy.DefaultRules(), rules)

	e, err := policy.NewEngine()
	require.NoError(t, err)
	assert.Empty(t, e.Lint(rules))
}

func TestGenerateWriteIfAbsent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	limits := config.DefaultEnvironments()

	gen := New(storage.NewLocal(dir))
	first, err := gen.Generate(ctx, fixtureProfile(), "dev", limits)
	require.NoError(t, err)
	assert.Len(t, first.Written, 8)
	assert.Empty(t, first.Skipped)

	// A second run without --force must leave everything alone.
	second, err := gen.Generate(ctx, fixtureProfile(), "dev", limits)
	require.NoError(t, err)
	assert.Empty(t, second.Written)
	assert.Len(t, second.Skipped, 8)
}

func TestGenerateForce(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	limits := config.DefaultEnvironments()

	_, err := New(storage.NewLocal(dir)).Generate(ctx, fixtureProfile(), "dev", limits)
	require.NoError(t, err)

	// Tamper with a file, then force-regenerate.
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tampered"), 0644))

	manifest, err := New(storage.NewLocal(dir), WithForce(true)).Generate(ctx, fixtureProfile(), "dev", limits)
	require.NoError(t, err)
	assert.Len(t, manifest.Written, 8)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))
}
