package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.OutputDir != "cost-control" {
		t.Errorf("Expected OutputDir cost-control, got %s", s.OutputDir)
	}

	if s.Environment != "dev" {
		t.Errorf("Expected Environment dev, got %s", s.Environment)
	}

	if s.Region != DefaultRegion {
		t.Errorf("Expected Region %s, got %s", DefaultRegion, s.Region)
	}
}

func TestDefaultEnvironments(t *testing.T) {
	envs := DefaultEnvironments()

	for _, name := range EnvironmentNames {
		if _, ok := envs[name]; !ok {
			t.Fatalf("missing environment table %q", name)
		}
	}

	if envs["dev"].BudgetMultiplier != 1 {
		t.Errorf("Expected dev multiplier 1, got %d", envs["dev"].BudgetMultiplier)
	}

	if envs["prod"].AutoStop {
		t.Error("prod must not auto-stop instances")
	}

	foundM5 := false
	for _, it := range envs["staging"].AllowedInstanceTypes {
		if it == "m5.large" {
			foundM5 = true
			break
		}
	}
	if !foundM5 {
		t.Error("Expected 'm5.large' to be allowed in staging")
	}

	foundCostCenter := false
	for _, tag := range envs["prod"].RequiredTags {
		if tag == "CostCenter" {
			foundCostCenter = true
			break
		}
	}
	if !foundCostCenter {
		t.Error("Expected 'CostCenter' to be required in prod")
	}
}

func TestLoadEnvironmentsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")

	override := `dev:
  budget_multiplier: 1
  max_instances: 3
  allowed_instance_types: ["t3.micro"]
  required_tags: ["Project"]
  auto_stop: true
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("failed to write limits file: %v", err)
	}

	envs, err := LoadEnvironments(path)
	if err != nil {
		t.Fatalf("LoadEnvironments failed: %v", err)
	}

	if envs["dev"].MaxInstances != 3 {
		t.Errorf("Expected dev override MaxInstances 3, got %d", envs["dev"].MaxInstances)
	}

	// Untouched environments keep their defaults.
	if envs["prod"].MaxInstances != 25 {
		t.Errorf("Expected prod MaxInstances 25, got %d", envs["prod"].MaxInstances)
	}
}

func TestLoadEnvironmentsUnknownName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")

	if err := os.WriteFile(path, []byte("qa:\n  max_instances: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write limits file: %v", err)
	}

	if _, err := LoadEnvironments(path); err == nil {
		t.Fatal("expected error for unknown environment name")
	}
}

func TestLoadEnvironmentsEmptyPath(t *testing.T) {
	envs, err := LoadEnvironments("")
	if err != nil {
		t.Fatalf("LoadEnvironments with empty path failed: %v", err)
	}
	if len(envs) != len(EnvironmentNames) {
		t.Errorf("Expected %d environments, got %d", len(EnvironmentNames), len(envs))
	}
}
