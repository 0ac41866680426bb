// internal/cli/root.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azaky/cartserver/internal/infra/config"
	"github.com/azaky/cartserver/internal/infra/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the cartserver command. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cartserver",
		Short: "Cart relay and API server",
		Long: `cartserver watches the cart and order collections in Firestore and opens
the physical cart whenever one of them grows, closing it again after a delay.
It also serves the store catalog and manual cart control over HTTP.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file (env vars override it)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))

	return cmd
}

// boot loads configuration and builds the process logger.
func boot(opts *RootOptions) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if cfg.Papertrail.Enabled() {
		logOpts.PapertrailAddr = cfg.Papertrail.Addr()
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
