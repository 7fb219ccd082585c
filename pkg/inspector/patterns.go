package inspector

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// cdkSourceRe matches CDK library usage in scanned sources, covering
	// the v2 package, the legacy scoped packages, and Python imports.
	cdkSourceRe = regexp.MustCompile(`aws-cdk-lib|@aws-cdk/|from aws_cdk import|from constructs import`)

	// cfnMarker is the template-format signature of CloudFormation files.
	cfnMarker = []byte("AWSTemplateFormatVersion")
)

// detectPatterns runs the four independent infrastructure checks in fixed
// order. Each successful check appends its label; the checks are not
// mutually exclusive.
func (i *Inspector) detectPatterns(walk walkResult) []Pattern {
	var out []Pattern
	if i.detectCDK(walk.files) {
		out = append(out, PatternCDK)
	}
	if i.detectCloudFormation(walk.files) {
		out = append(out, PatternCloudFormation)
	}
	if i.detectTerraform(walk.sawTerraform) {
		out = append(out, PatternTerraform)
	}
	if i.detectServerless() {
		out = append(out, PatternServerless)
	}
	return out
}

// detectCDK: cdk.json at the root, or CDK library usage in any scanned file.
func (i *Inspector) detectCDK(files []scannedFile) bool {
	if fileExists(filepath.Join(i.root, "cdk.json")) {
		return true
	}
	for _, f := range files {
		if cdkSourceRe.Match(f.data) {
			return true
		}
	}
	return false
}

// detectCloudFormation: the template-format marker in any scanned
// YAML/JSON file. Root-level templates arrive through the walk, which
// covers the root non-recursively.
func (i *Inspector) detectCloudFormation(files []scannedFile) bool {
	for _, f := range files {
		if !templateExt(f.rel) {
			continue
		}
		if bytes.Contains(f.data, cfnMarker) {
			return true
		}
	}
	return false
}

// detectTerraform: any .tf file seen during the walk or at the root, or a
// root-level state file.
func (i *Inspector) detectTerraform(sawTerraform bool) bool {
	if sawTerraform {
		return true
	}
	if fileExists(filepath.Join(i.root, "terraform.tfstate")) {
		return true
	}
	matches, err := filepath.Glob(filepath.Join(i.root, "*.tf"))
	return err == nil && len(matches) > 0
}

// detectServerless: a Serverless framework config at the root.
func (i *Inspector) detectServerless() bool {
	return fileExists(filepath.Join(i.root, "serverless.yml")) ||
		fileExists(filepath.Join(i.root, "serverless.yaml"))
}

func templateExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
