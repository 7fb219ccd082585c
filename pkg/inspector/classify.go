package inspector

import "path/filepath"

// CDK dependency keys that force cdk-typescript classification.
var cdkDependencyKeys = []string{"aws-cdk-lib", "aws-cdk"}

// markerProbes are checked in order once package.json is ruled out.
var markerProbes = []struct {
	marker string
	result ProjectType
}{
	{"pom.xml", TypeJavaMaven},
	{"requirements.txt", TypePython},
	{"go.mod", TypeGo},
	{"Cargo.toml", TypeRust},
}

// classify determines the project type. First match wins in a fixed
// priority order: CDK dependency, AWS SDK dependency, bare package.json,
// then the marker files in markerProbes order.
func classify(root string, m *packageManifest) ProjectType {
	if fileExists(filepath.Join(root, "package.json")) {
		for _, key := range cdkDependencyKeys {
			if m.hasDependency(key) {
				return TypeCDKTypeScript
			}
		}
		if m.hasDependencyPrefix("@aws-cdk/") {
			return TypeCDKTypeScript
		}
		if m.hasDependency("aws-sdk") || m.hasDependencyPrefix("@aws-sdk/") {
			return TypeNodeAWS
		}
		return TypeNode
	}

	for _, probe := range markerProbes {
		if fileExists(filepath.Join(root, probe.marker)) {
			return probe.result
		}
	}
	return TypeUnknown
}

// validProject is the single fatal precondition: at least one of the
// recognized manifests must exist before any detection runs.
func validProject(root string) bool {
	for _, name := range []string{"package.json", "pom.xml", "requirements.txt"} {
		if fileExists(filepath.Join(root, name)) {
			return true
		}
	}
	return false
}
