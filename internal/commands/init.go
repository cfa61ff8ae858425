package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/config"
	"github.com/ledgerkit-dev/ledgerkit/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var name string
	var backend string
	var chart bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, name, backend, chart)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", "sqlite", "storage backend (memory, sqlite, postgres)")
	cmd.Flags().BoolVar(&chart, "chart", true, "create the standard chart of accounts")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, backend string, chart bool) error {
	cfg := config.Default(name)
	cfg.Storage.Backend = backend
	if backend == "sqlite" {
		cfg.Storage.Path = filepath.Join(dir, "ledger.db")
	}

	cfgPath := filepath.Join(dir, config.DefaultFileName)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", cfgPath)

	if !chart || backend == "memory" {
		return nil
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := ledger.New(store).SetupStandardChart(cmd.Context())
	if err != nil {
		return fmt.Errorf("creating chart of accounts: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d accounts\n", len(created))
	return nil
}
