package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/costforge/costforge/pkg/awsx"
	"github.com/costforge/costforge/pkg/config"
	"github.com/costforge/costforge/pkg/inspector"
	"github.com/costforge/costforge/pkg/scaffold"
	"github.com/costforge/costforge/pkg/storage"
	"github.com/costforge/costforge/pkg/tui"
)

var (
	initForce  bool
	initOutput string
	initEnv    string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Inspect a project and write its cost-control bundle",
	Long: `Inspects the target project directory, estimates a monthly budget, and
writes the cost-control bundle (config, scripts, Lambda sources, CDK
stack, cost rules).

Interactive by default; --yes skips the confirmation and takes the
configured environment. Existing files are left alone unless --force.

Example:
  costforge init
  costforge init ../my-service --environment staging
  costforge init --yes --force --output s3://infra-bundles/my-service`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		environment := settings.Environment
		if initEnv != "" {
			environment = initEnv
		}

		limits, err := config.LoadEnvironments(settings.LimitsFile)
		if err != nil {
			return err
		}

		ins := inspector.New(root, inspector.WithLogger(slog.Default()))

		var profile *inspector.Profile
		if interactive() {
			result, err := tui.Confirm(config.EnvironmentNames, environment, func() (*inspector.Profile, error) {
				return ins.Run(cmd.Context())
			})
			if err != nil {
				return err
			}
			if !result.Accepted {
				fmt.Println("Aborted. Nothing written.")
				return nil
			}
			profile = result.Profile
			environment = result.Environment
		} else {
			profile, err = ins.Run(cmd.Context())
			if err != nil {
				return err
			}
		}

		output := initOutput
		if output == "" {
			output = settings.OutputDir
		}
		backend, err := buildBackend(cmd.Context(), output)
		if err != nil {
			return err
		}

		gen := scaffold.New(backend, scaffold.WithForce(initForce))
		manifest, err := gen.Generate(cmd.Context(), profile, environment, limits)
		if err != nil {
			return err
		}

		fmt.Printf("\nBundle written to %s (%s environment, $%d/month budget)\n",
			manifest.Root, environment, profile.BudgetEstimateUSD)
		for _, path := range manifest.Written {
			fmt.Printf("  + %s\n", path)
		}
		for _, path := range manifest.Skipped {
			fmt.Printf("  = %s (exists, use --force to overwrite)\n", path)
		}
		if len(manifest.Skipped) > 0 && len(manifest.Written) == 0 {
			fmt.Println("\nNothing new to write.")
		}
		return nil
	},
}

// interactive reports whether the confirmation UI should run: not in
// --yes mode, and only when stdout is a terminal.
func interactive() bool {
	if settings.NonInteractive {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// buildBackend picks the storage backend from the output value: an
// s3://bucket/prefix target needs an AWS session, anything else is a
// local directory.
func buildBackend(ctx context.Context, output string) (storage.Backend, error) {
	target := storage.ParseTarget(output)
	if !target.IsS3() {
		return storage.NewLocal(target.Path), nil
	}

	client, err := awsx.NewClient(ctx, settings.Region)
	if err != nil {
		return nil, fmt.Errorf("s3 output needs AWS credentials: %w", err)
	}
	if _, err := client.VerifyIdentity(ctx); err != nil {
		if awsx.IsAccessDenied(err) {
			return nil, errors.New("s3 output: credentials lack sts:GetCallerIdentity")
		}
		return nil, fmt.Errorf("s3 output preflight failed: %w", err)
	}
	return storage.NewS3(client.Config, target.Bucket, target.Prefix), nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing bundle files")
	initCmd.Flags().StringVar(&initOutput, "output", "", "Bundle destination: directory or s3://bucket/prefix (default cost-control)")
	initCmd.Flags().StringVar(&initEnv, "environment", "", "Target environment: dev, staging, or prod")
	rootCmd.AddCommand(initCmd)
}
