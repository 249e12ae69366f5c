package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/sprout/internal/config"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/platform/migrations"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every subcommand plus what the
// persistent pre-run derives from them.
type rootOptions struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// newRootCommand creates the sprout command tree.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "sprout",
		Short:         "Plant germination tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"path to a config file (default ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newTipsCommand(opts),
	)
	return rootCmd
}

// load reads configuration and sets up logging. Logs go to stderr so command
// output on stdout stays machine readable.
func (o *rootOptions) load(logOut io.Writer) error {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.logLevel != "" {
		cfg.Server.LogLevel = o.logLevel
	}

	level, ok := logger.ParseLevel(cfg.Server.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", cfg.Server.LogLevel)
	}
	o.cfg = cfg
	o.logger = logger.New(logOut, level)
	slog.SetDefault(o.logger)

	o.logger.Debug("configuration loaded",
		"port", cfg.Server.Port,
		"database_driver", cfg.Database.Driver,
		"llm_enabled", cfg.LLM.Enabled())
	return nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApplication(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.Run(ctx)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	commands := []string{
		migrations.CommandUp,
		migrations.CommandDown,
		migrations.CommandReset,
		migrations.CommandStatus,
		migrations.CommandVersion,
	}

	return &cobra.Command{
		Use:       "migrate [" + strings.Join(commands, "|") + "]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := openDatabase(ctx, opts.cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					opts.logger.Error("failed to close database", "error", err)
				}
			}()

			return migrations.Run(ctx, opts.cfg.Database.Driver, db, args[0], opts.logger)
		},
	}
}

func newTipsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tips <species>",
		Short: "Generate and print tips for a species",
		Long: "Calls the configured generator for the species and prints the tips, one per line.\n" +
			"Without a Gemini API key, or when generation fails, the static tips are printed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := generateTips(cmd.Context(), opts.cfg, opts.logger, args[0])
			if err != nil {
				return err
			}
			for _, line := range lines {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
