// Package main provides portalctl, the portal's administration CLI: it
// applies schema migrations and seeds the physician directory.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driven/sqlstore"
	"github.com/ericfisherdev/portalbonos/internal/config"
)

const appName = "portalctl"

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	databaseURL string
	logLevel    string
	logger      *slog.Logger
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Administration tasks for the benefits portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if opts.databaseURL == "" {
				opts.databaseURL = os.Getenv("DATABASE_URL")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Database URL (defaults to $DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(migrateCmd(opts), seedCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(cmd, opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlstore.RunMigrations(db); err != nil {
				return err
			}
			opts.logger.Info("migrations complete", "dialect", db.Dialect)
			return nil
		},
	}
}

func openDB(cmd *cobra.Command, opts *options) (*sqlstore.DB, error) {
	if opts.databaseURL == "" {
		return nil, fmt.Errorf("database URL required: set --database-url or DATABASE_URL")
	}
	return sqlstore.Open(cmd.Context(), opts.databaseURL)
}
