package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costforge/costforge/pkg/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Work with cost rule files",
}

var policyLintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Check a cost rules file for CEL errors",
	Long: `Compiles every rule in the given cost-rules YAML file and reports each
expression that fails, without stopping at the first one. With no
argument the built-in rule set is checked.

Example:
  costforge policy lint cost-control/policy/cost-rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := policy.DefaultRules()
		source := "built-in rules"
		if len(args) == 1 {
			loaded, err := policy.LoadRules(args[0])
			if err != nil {
				return err
			}
			rules = loaded
			source = args[0]
		}

		engine, err := policy.NewEngine()
		if err != nil {
			return err
		}

		diags := engine.Lint(rules)
		if len(diags) == 0 {
			fmt.Printf("OK: %d rules compile (%s)\n", len(rules), source)
			return nil
		}

		for _, d := range diags {
			fmt.Printf("FAIL  %s: %s\n", d.Rule, d.Issue)
		}
		return fmt.Errorf("%d of %d rules failed to compile", len(diags), len(rules))
	},
}

func init() {
	policyCmd.AddCommand(policyLintCmd)
	rootCmd.AddCommand(policyCmd)
}
