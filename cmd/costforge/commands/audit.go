package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/spf13/cobra"

	"github.com/costforge/costforge/pkg/awsx"
	"github.com/costforge/costforge/pkg/policy"
	"github.com/costforge/costforge/pkg/report"
	"github.com/costforge/costforge/pkg/scaffold"
)

var auditMock bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compare live spend and resources against the generated bundle",
	Long: `Reads the generated cost-control bundle, queries month-to-date spend
and live resource counts, verifies the deployed guardrails, and
evaluates the bundle's cost rules.

Exits non-zero when a critical rule fires.

Example:
  costforge audit
  costforge audit --region eu-central-1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := scaffold.LoadDocument(filepath.Join(settings.OutputDir, "config.json"))
		if err != nil {
			return err
		}

		rules := policy.DefaultRules()
		rulesPath := filepath.Join(settings.OutputDir, "policy", "cost-rules.yaml")
		if loaded, err := policy.LoadRules(rulesPath); err == nil {
			rules = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Falling back to built-in rules", "path", rulesPath, "error", err)
		}

		audit := &report.Audit{
			Environment: doc.Environment,
			Budget:      float64(doc.Budget),
		}

		if auditMock {
			if err := collectMockFacts(cmd, audit, doc); err != nil {
				return err
			}
		} else {
			if err := collectLiveFacts(cmd, audit, doc); err != nil {
				return err
			}
		}

		engine, err := policy.NewEngine()
		if err != nil {
			return err
		}
		if err := engine.Compile(rules); err != nil {
			return fmt.Errorf("bundle rules are invalid: %w", err)
		}
		audit.Verdicts = engine.Evaluate(policy.Facts{
			SpendMTD:          audit.SpendMTD,
			Budget:            audit.Budget,
			Environment:       doc.Environment,
			MaxInstances:      doc.Limits().MaxInstances,
			ResourceCounts:    audit.ResourceCounts,
			GuardrailsMissing: audit.Missing,
		})

		fmt.Println(report.RenderAudit(audit))

		if audit.Triggered(policy.SeverityCritical) {
			return fmt.Errorf("audit failed: %s is over its $%.0f budget", doc.ProjectName, audit.Budget)
		}
		return nil
	},
}

func collectLiveFacts(cmd *cobra.Command, audit *report.Audit, doc *scaffold.Document) error {
	ctx := cmd.Context()

	client, err := awsx.NewClient(ctx, settings.Region)
	if err != nil {
		return err
	}
	identity, err := client.VerifyIdentity(ctx)
	if err != nil {
		if awsx.IsAccessDenied(err) {
			return fmt.Errorf("credentials lack sts:GetCallerIdentity: %w", err)
		}
		return err
	}
	audit.Account = identity.Account
	slog.Info("audit session verified", "account", identity.Account)

	spend, err := awsx.MonthToDateSpend(ctx, costexplorer.NewFromConfig(client.Config))
	if err != nil {
		if !awsx.IsAccessDenied(err) {
			return err
		}
		slog.Warn("Cost Explorer unavailable, spend unknown", "error", err)
	}
	audit.SpendMTD = spend

	counts, err := awsx.NewLive(client, slog.Default()).Counts(ctx)
	if err != nil {
		return err
	}
	audit.ResourceCounts = counts

	missing, err := awsx.NewGuardrails(client).Missing(ctx, doc.ProjectName)
	if err != nil {
		if !awsx.IsAccessDenied(err) {
			return err
		}
		slog.Warn("Guardrail check skipped, access denied", "error", err)
	} else {
		audit.Missing = missing
	}

	rates, err := awsx.NewRates(ctx, slog.Default(), settings.Region, "")
	if err != nil {
		audit.MonthlyRates = awsx.StaticRates()
	} else {
		audit.MonthlyRates = rates.Monthly(ctx)
	}
	return nil
}

func collectMockFacts(cmd *cobra.Command, audit *report.Audit, doc *scaffold.Document) error {
	ctx := cmd.Context()
	mock := awsx.NewMock()

	audit.Account = "123456789012"
	spend, err := awsx.MonthToDateSpend(ctx, mock)
	if err != nil {
		return err
	}
	audit.SpendMTD = spend

	counts, err := awsx.MockLive(mock).Counts(ctx)
	if err != nil {
		return err
	}
	audit.ResourceCounts = counts

	guardrails := &awsx.Guardrails{Lambda: mock, CloudWatch: mock}
	missing, err := guardrails.Missing(ctx, doc.ProjectName)
	if err != nil {
		return err
	}
	audit.Missing = missing
	audit.MonthlyRates = awsx.StaticRates()
	return nil
}

func init() {
	auditCmd.Flags().BoolVar(&auditMock, "mock", false, "Audit against an in-memory mock account")
	auditCmd.Flags().MarkHidden("mock")
	rootCmd.AddCommand(auditCmd)
}
