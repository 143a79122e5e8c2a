// Package cli defines the civiclens command tree: serving the API,
// migrating the schema, seeding reference data, and one-shot triage
// previews.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root cobra command with global flags and all
// subcommands mounted.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "civiclens",
		Short: "CivicLens — civic complaint triage engine",
		Long: "CivicLens derives jurisdiction, duplicate, severity, and SLA decisions\n" +
			"for citizen complaints and manages their lifecycle.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (CIVICLENS_* env vars when omitted)")
	pf.StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newTriageCommand(opts),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves configuration from the --config file or, when absent,
// from CIVICLENS_* environment variables alone.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// buildLogger constructs the process logger from configuration.
func buildLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(cfg.Log)
}
