package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/costforge/costforge/pkg/inspector"
	"github.com/costforge/costforge/pkg/providers/terraform"
	"github.com/costforge/costforge/pkg/report"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Inspect a project and print its cost profile",
	Long: `Runs the project inspection only: classify the project type, detect
infrastructure patterns, scan for resource mentions, and estimate a
monthly budget. Writes nothing.

Example:
  costforge inspect
  costforge inspect ../my-service --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		profile, err := inspector.New(root, inspector.WithLogger(slog.Default())).Run(cmd.Context())
		if err != nil {
			return err
		}

		if inspectFormat != report.FormatText {
			return report.Export(os.Stdout, profile, inspectFormat)
		}

		// The Terraform inventory and state are informational context
		// only; the budget estimate never reads them.
		var (
			inv *terraform.Inventory
			st  *terraform.State
		)
		if profile.HasPattern(inspector.PatternTerraform) {
			inv, err = terraform.Scan(root)
			if err != nil {
				slog.Warn("Terraform inventory failed", "error", err)
				inv = nil
			}
			st = terraform.ReadState(root)
		}

		fmt.Println(report.RenderProfile(profile, inv, st))
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", report.FormatText, "Output format: text, json, yaml, or csv")
	rootCmd.AddCommand(inspectCmd)
}
