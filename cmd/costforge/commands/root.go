// Package commands wires the costforge CLI surface.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/costforge/costforge/pkg/config"
	"github.com/costforge/costforge/pkg/telemetry"
	"github.com/costforge/costforge/pkg/version"
)

var (
	cfgFile  string
	logLevel string
	debug    bool
	noColor  bool
	settings config.Settings

	shutdownTelemetry func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "costforge",
	Short: "Cost-control scaffolding for AWS projects",
	Long: `costforge - AWS Cost Guardrail Generator

Inspect. Estimate. Enforce.`,
	Version: version.Current,
	// Run: nil (forces help output).
	Run: nil,
}

func Execute() {
	defer func() {
		if shutdownTelemetry != nil {
			_ = shutdownTelemetry(context.Background())
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.costforge.yaml)")
	rootCmd.PersistentFlags().StringVar(&settings.Region, "region", config.DefaultRegion, "AWS region for audit calls")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Force debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")
	rootCmd.PersistentFlags().BoolVarP(&settings.NonInteractive, "yes", "y", false, "Skip interactive confirmation")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if noColor {
			// termenv (under lipgloss) honors NO_COLOR; set it before
			// any style renders.
			os.Setenv("NO_COLOR", "1")
		}
		setupLogging()

		shutdown, err := telemetry.Init(cmd.Context(), version.AppName, version.Current)
		if err != nil {
			slog.Warn("Telemetry disabled", "error", err)
		} else {
			shutdownTelemetry = shutdown
		}

		return nil
	}
}

// redactKeyRe matches attribute keys whose values never belong in logs.
var redactKeyRe = regexp.MustCompile(`(?i)(account|secret|token|credential|password)`)

func setupLogging() {
	level := slog.LevelInfo
	if env := os.Getenv("COSTFORGE_LOG"); env != "" {
		logLevel = env
	}
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if redactKeyRe.MatchString(a.Key) {
				a.Value = slog.StringValue("[REDACTED]")
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".costforge.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("COSTFORGE")
	viper.AutomaticEnv()
	viper.SetDefault("output_dir", config.DefaultOutputDir)
	viper.SetDefault("environment", config.DefaultEnvironment)
	viper.ReadInConfig()

	if settings.OutputDir == "" {
		settings.OutputDir = viper.GetString("output_dir")
	}
	if settings.Environment == "" {
		settings.Environment = viper.GetString("environment")
	}
	if viper.GetBool("non_interactive") {
		settings.NonInteractive = true
	}
	if viper.GetBool("skip_update_check") {
		settings.SkipUpdateCheck = true
	}
	if region := viper.GetString("region"); region != "" && !rootCmd.PersistentFlags().Changed("region") {
		settings.Region = region
	}
	if limits := viper.GetString("limits_file"); limits != "" {
		settings.LimitsFile = limits
	}
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)
	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("COSTFORGE %s", version.Current)))
	fmt.Println("Generate and audit cost guardrails for AWS projects.")
	fmt.Println("")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	fmt.Println("")

	fmt.Println(titleStyle.Render("EXAMPLES"))
	fmt.Println("  costforge init                      # Inspect and write the bundle (interactive)")
	fmt.Println("  costforge init --yes --force        # CI mode, overwrite existing files")
	fmt.Println("  costforge inspect --format json     # Profile only, machine-readable")
	fmt.Println("  costforge audit                     # Compare live spend against the bundle")
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(line))
	})
	fmt.Println("")
}
