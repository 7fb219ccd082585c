package terraform

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State mirrors the subset of terraform.tfstate the report uses.
type State struct {
	Resources []StateResource `json:"resources"`
}

// StateResource is a state resource block.
type StateResource struct {
	Mode      string          `json:"mode"` // "managed" or "data"
	Type      string          `json:"type"` // e.g. "aws_s3_bucket"
	Name      string          `json:"name"`
	Instances []StateInstance `json:"instances"`
}

// StateInstance is one deployed instance of a resource.
type StateInstance struct {
	Attributes json.RawMessage `json:"attributes"`
}

// ReadState loads terraform.tfstate under root, if present. A missing or
// malformed state yields nil without error: state is an optional signal.
func ReadState(root string) *State {
	data, err := os.ReadFile(filepath.Join(root, "terraform.tfstate"))
	if err != nil {
		return nil
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil
	}
	return &st
}

// ManagedCounts aggregates managed (non-data) resources by type.
func (s *State) ManagedCounts() map[string]int {
	if s == nil {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range s.Resources {
		if r.Mode != "managed" {
			continue
		}
		n := len(r.Instances)
		if n == 0 {
			n = 1
		}
		counts[r.Type] += n
	}
	return counts
}
