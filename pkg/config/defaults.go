// Package config defines tool settings and the per-environment guardrail tables.
package config

// Settings holds user-tunable tool configuration, bound via flags,
// COSTFORGE_* env vars, and ~/.costforge.yaml.
type Settings struct {
	// OutputDir is where the generated bundle is written. May be an
	// "s3://bucket/prefix" target.
	OutputDir string `mapstructure:"output_dir"`
	// Environment selects the limit table used for generation.
	Environment string `mapstructure:"environment"`
	// Region overrides the AWS region for audit calls.
	Region string `mapstructure:"region"`
	// NonInteractive skips the confirmation UI.
	NonInteractive bool `mapstructure:"non_interactive"`
	// SkipUpdateCheck disables the release lookup in the update command.
	SkipUpdateCheck bool `mapstructure:"skip_update_check"`
	// LimitsFile optionally overrides the built-in environment tables.
	LimitsFile string `mapstructure:"limits_file"`
}

// Defaults.
const (
	DefaultRegion      = "us-east-1"
	DefaultOutputDir   = "cost-control"
	DefaultEnvironment = "dev"
)

// DefaultSettings returns default tool settings.
func DefaultSettings() Settings {
	return Settings{
		OutputDir:   DefaultOutputDir,
		Environment: DefaultEnvironment,
		Region:      DefaultRegion,
	}
}
