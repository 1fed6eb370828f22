// Package cmd provides CLI commands for cashdesk.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/cashdesk/config"
	"github.com/warp/cashdesk/register"
	"github.com/warp/cashdesk/store"
)

var (
	cfgFile     string
	debug       bool
	backendFlag string
	dsnFlag     string

	logLevel = new(slog.LevelVar)
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cashdesk",
	Short: "Daily cash register ledger",
	Long: `cashdesk keeps one ledger per calendar day: opening cash and card
balances, the sales rung up during the day, and a lock that finalizes it.

Only today's ledger can be changed, and only until it is locked. Every
other day is shown read-only.

Example:
  cashdesk open 100 50
  cashdesk sale add 30 cash --comment "two coffees"
  cashdesk show
  cashdesk lock`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel.Set(slog.LevelInfo)
		if debug {
			logLevel.Set(slog.LevelDebug)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment and .env are always read)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "persistence backend: memory, json, sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "db", "", "database path or DSN")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(daysCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(saleCmd)
	rootCmd.AddCommand(lockCmd)
}

// openLedger loads configuration, opens the backend and loads the ledger.
// The returned closer releases the backend.
func openLedger(ctx context.Context) (*register.Ledger, io.Closer, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if dsnFlag != "" {
		cfg.DSN = dsnFlag
	}
	if debug {
		cfg.Debug = true
	}
	// debug from YAML or CASHDESK_DEBUG is only known once config is loaded
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("Opening backend", "backend", cfg.Backend, "dsn", cfg.DSN)
	db, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}

	ledger, err := register.NewLedger(ctx, db, register.SystemClock{Location: loc})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return ledger, db, nil
}

// withLedger runs fn against a freshly opened ledger and prints the day it
// returns.
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, l *register.Ledger) (register.Date, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ledger, closer, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	date, err := fn(ctx, ledger)
	if err != nil {
		return describe(err)
	}
	return printDay(cmd.OutOrStdout(), ledger.GetDay(date), ledger.Editable(date))
}

// describe turns register errors into messages for the terminal.
func describe(err error) error {
	switch {
	case register.IsReadOnly(err):
		return fmt.Errorf("not changed: %w", err)
	case register.IsClientError(err), register.IsNotFound(err):
		return err
	}
	slog.Error("operation failed", "error", err)
	return err
}
