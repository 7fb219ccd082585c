package inspector

import (
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// execCmd is swapped in tests to avoid spawning a real git.
var execCmd = exec.Command

var (
	gitSuffixRe   = regexp.MustCompile(`\.git$`)
	authorEmailRe = regexp.MustCompile(`<([^<>@\s]+@[^<>\s]+)>`)
)

// FallbackAlertEmail is used when neither git nor the manifest yields one.
const FallbackAlertEmail = "admin@company.com"

// gitConfig returns a git config value for the project, or "" when git is
// absent, the key is unset, or the command fails. Resolution never fails
// on git errors.
func (i *Inspector) gitConfig(key string) string {
	cmd := execCmd("git", "config", "--get", key)
	cmd.Dir = i.root
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// resolveProjectName tries, in order: the manifest name field, the git
// remote URL basename with the trailing .git stripped, the directory
// basename. First non-empty wins.
func (i *Inspector) resolveProjectName(m *packageManifest) string {
	if m != nil && m.Name != "" {
		return m.Name
	}

	if remote := i.gitConfig("remote.origin.url"); remote != "" {
		base := path.Base(remote)
		base = gitSuffixRe.ReplaceAllString(base, "")
		if base != "" && base != "." && base != "/" {
			return base
		}
	}

	abs, err := filepath.Abs(i.root)
	if err != nil {
		return filepath.Base(i.root)
	}
	return filepath.Base(abs)
}

// resolveAlertEmail tries, in order: git user.email (accepted only when it
// contains an @), an email in angle brackets in the manifest author field,
// then the hardcoded fallback.
func (i *Inspector) resolveAlertEmail(m *packageManifest) string {
	if email := i.gitConfig("user.email"); strings.Contains(email, "@") {
		return email
	}

	if author := m.authorString(); author != "" {
		if match := authorEmailRe.FindStringSubmatch(author); match != nil {
			return match[1]
		}
	}

	return FallbackAlertEmail
}
