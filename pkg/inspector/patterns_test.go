package inspector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func detectFixture(t *testing.T, files map[string]string) *Profile {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, files)
	i := New(dir)
	walk := i.collectFiles(context.Background())
	return &Profile{Patterns: i.detectPatterns(walk)}
}

func TestDetectPatterns(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			"cdk config file",
			map[string]string{"cdk.json": `{"app":"npx ts-node bin/app.ts"}`},
			"aws-cdk",
		},
		{
			"cdk import in source",
			map[string]string{"src/stack.ts": `import { Stack } from 'aws-cdk-lib';`},
			"aws-cdk",
		},
		{
			"cdk python import",
			map[string]string{"src/app.py": "from aws_cdk import Stack\n"},
			"aws-cdk",
		},
		{
			"cloudformation root template",
			map[string]string{"template.yaml": "AWSTemplateFormatVersion: '2010-09-09'\n"},
			"cloudformation",
		},
		{
			"cloudformation nested template",
			map[string]string{"cloudformation/stack.yml": "AWSTemplateFormatVersion: '2010-09-09'\n"},
			"cloudformation",
		},
		{
			"terraform root file",
			map[string]string{"main.tf": `resource "aws_instance" "web" {}`},
			"terraform",
		},
		{
			"terraform nested file",
			map[string]string{"infrastructure/vpc.tf": `resource "aws_vpc" "main" {}`},
			"terraform",
		},
		{
			"terraform state file",
			map[string]string{"terraform.tfstate": `{"version":4}`},
			"terraform",
		},
		{
			"serverless config",
			map[string]string{"serverless.yml": "service: api\n"},
			"serverless",
		},
		{
			"nothing detected",
			map[string]string{"package.json": `{}`},
			NoneDetected,
		},
		{
			"all four",
			map[string]string{
				"cdk.json":       `{"app":"npx ts-node bin/app.ts"}`,
				"template.yaml":  "AWSTemplateFormatVersion: '2010-09-09'\n",
				"main.tf":        `resource "aws_instance" "web" {}`,
				"serverless.yml": "service: api\n",
			},
			"aws-cdk,cloudformation,terraform,serverless",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := detectFixture(t, tc.files)
			assert.Equal(t, tc.want, p.PatternDisplay())
		})
	}
}

func TestHasPattern(t *testing.T) {
	p := detectFixture(t, map[string]string{"cdk.json": `{}`})
	assert.True(t, p.HasPattern(PatternCDK))
	assert.False(t, p.HasPattern(PatternTerraform))
}
