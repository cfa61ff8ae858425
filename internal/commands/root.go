// Package commands wires the ledgerkit CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/buildinfo"
	"github.com/ledgerkit-dev/ledgerkit/internal/config"
	"github.com/ledgerkit-dev/ledgerkit/internal/ledger"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage/memory"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage/postgres"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage/sqlite"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerkit",
		Short:   "Double-entry bookkeeping ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newPostCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newCheckCommand())

	return rootCmd
}

// openLedger loads the config, opens the configured backend, and returns
// the ledger plus a cleanup func.
func openLedger() (*ledger.Ledger, func() error, error) {
	// Optional .env overlay; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(config.DefaultFileName)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s (run `ledgerkit init` first): %w", config.DefaultFileName, err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(store), closeStore, nil
}

func openStore(cfg *config.Config) (storage.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Backend {
	case "", "memory":
		return memory.NewStore(), noop, nil
	case "sqlite":
		path := cfg.Storage.Path
		if path == "" {
			path = "ledger.db"
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "postgres":
		dsn := cfg.Storage.DSN
		if env := os.Getenv("LEDGERKIT_DSN"); env != "" {
			dsn = env
		}
		store, err := postgres.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
