// Package report renders inspection profiles and audit results for the
// terminal, and exports them in machine formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/costforge/costforge/pkg/inspector"
)

// Export formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// exportProfile is the wire shape shared by the JSON and YAML exports.
type exportProfile struct {
	ProjectName            string             `json:"project_name" yaml:"project_name"`
	ProjectType            string             `json:"project_type" yaml:"project_type"`
	InfrastructurePatterns string             `json:"infrastructure_patterns" yaml:"infrastructure_patterns"`
	BudgetEstimateUSD      int                `json:"budget_estimate_usd" yaml:"budget_estimate_usd"`
	AlertEmail             string             `json:"alert_email" yaml:"alert_email"`
	ResourceMentions       []exportMention    `json:"resource_mentions" yaml:"resource_mentions"`
	MentionCounts          map[string]int     `json:"mention_counts" yaml:"mention_counts"`
}

type exportMention struct {
	Category string `json:"category" yaml:"category"`
	File     string `json:"file" yaml:"file"`
}

func toExport(p *inspector.Profile) exportProfile {
	mentions := make([]exportMention, len(p.Mentions))
	for i, m := range p.Mentions {
		mentions[i] = exportMention{Category: m.Category, File: m.File}
	}
	return exportProfile{
		ProjectName:            p.ProjectName,
		ProjectType:            string(p.ProjectType),
		InfrastructurePatterns: p.PatternDisplay(),
		BudgetEstimateUSD:      p.BudgetEstimateUSD,
		AlertEmail:             p.AlertEmail,
		ResourceMentions:       mentions,
		MentionCounts:          p.MentionCounts(),
	}
}

// Export writes the profile to w in the requested format. CSV exports
// the raw mention list; JSON and YAML export the full profile.
func Export(w io.Writer, p *inspector.Profile, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(toExport(p), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err

	case FormatYAML:
		data, err := yaml.Marshal(toExport(p))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"Category", "File"}); err != nil {
			return err
		}
		for _, m := range p.Mentions {
			if err := cw.Write([]string{m.Category, m.File}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("unsupported export format %q (want json, yaml, or csv)", format)
	}
}
