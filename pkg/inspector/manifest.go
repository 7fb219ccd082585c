package inspector

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// packageManifest mirrors the package.json fields the inspector acts on.
// The author field may be a string or an object; anything non-string is
// treated as absent.
type packageManifest struct {
	Name            string            `json:"name"`
	Author          any               `json:"author"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// loadManifest reads package.json under root. A missing or unparseable
// file yields nil: parse failures degrade to "signal absent", they never
// fail the run.
func loadManifest(root string) *packageManifest {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

// hasDependency checks both dependency maps for an exact key.
func (m *packageManifest) hasDependency(key string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Dependencies[key]; ok {
		return true
	}
	_, ok := m.DevDependencies[key]
	return ok
}

// hasDependencyPrefix checks both dependency maps for a scoped-package prefix.
func (m *packageManifest) hasDependencyPrefix(prefix string) bool {
	if m == nil {
		return false
	}
	for key := range m.Dependencies {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	for key := range m.DevDependencies {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// authorString returns the author field when it is a plain string.
func (m *packageManifest) authorString() string {
	if m == nil {
		return ""
	}
	if s, ok := m.Author.(string); ok {
		return s
	}
	return ""
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
