// Package terraform inventories resources managed by Terraform
// configuration. The inventory is informational context for a profile
// report; it never feeds the budget estimate.
package terraform

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Resource is one resource block found in configuration.
type Resource struct {
	Type string `json:"type"`
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
	// Count is the literal count attribute when present, else 1. A count
	// expression that references variables stays 1: the inventory never
	// guesses.
	Count int `json:"count"`
	// InstanceType is the literal instance_type attribute, when present.
	InstanceType string `json:"instanceType,omitempty"`
}

// Inventory summarizes the resource blocks of one configuration tree.
type Inventory struct {
	Resources []Resource `json:"resources"`
}

// TypeCounts aggregates resources by type, weighted by count.
func (inv *Inventory) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range inv.Resources {
		counts[r.Type] += r.Count
	}
	return counts
}

// Total returns the weighted resource total.
func (inv *Inventory) Total() int {
	total := 0
	for _, r := range inv.Resources {
		total += r.Count
	}
	return total
}

// Scan walks root for .tf files and builds the inventory from the HCL
// AST. Files that fail to parse are skipped; the scan is best-effort.
func Scan(root string) (*Inventory, error) {
	inv := &Inventory{}
	parser := hclparse.NewParser()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			switch d.Name() {
			case ".terraform", ".git", "node_modules":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".tf") {
			return nil
		}

		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}

		body, ok := f.Body.(*hclsyntax.Body)
		if !ok {
			return nil
		}
		for _, block := range body.Blocks {
			if block.Type != "resource" || len(block.Labels) != 2 {
				continue
			}
			res := Resource{
				Type:  block.Labels[0],
				Name:  block.Labels[1],
				File:  filepath.ToSlash(relPath),
				Line:  block.Range().Start.Line,
				Count: 1,
			}
			if attr, ok := block.Body.Attributes["count"]; ok {
				if v, vd := attr.Expr.Value(nil); !vd.HasErrors() && v.Type().Equals(cty.Number) {
					if n, _ := v.AsBigFloat().Int64(); n >= 0 {
						res.Count = int(n)
					}
				}
			}
			if attr, ok := block.Body.Attributes["instance_type"]; ok {
				if v, vd := attr.Expr.Value(nil); !vd.HasErrors() && v.Type().Equals(cty.String) {
					res.InstanceType = v.AsString()
				}
			}
			inv.Resources = append(inv.Resources, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}
