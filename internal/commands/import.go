package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/importer"
)

func newImportCommand() *cobra.Command {
	var (
		format  string
		cash    string
		income  string
		expense string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a bank statement CSV as transactions",
		Long: `Import a bank statement CSV as balanced transactions.
Without a file argument, lists pending CSVs in the import/ directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				files, err := importer.Scan(".")
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending statement files in import/")
					return nil
				}
				for _, f := range files {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", f.Name, f.Size)
				}
				return nil
			}

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q", format)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			rows, err := parser.Parse(f)
			if err != nil {
				return err
			}
			txns, err := importer.Transactions(rows, importer.Accounts{
				Cash:    cash,
				Income:  income,
				Expense: expense,
			})
			if err != nil {
				return err
			}

			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			for _, txn := range txns {
				txn.ID = uuid.NewString()
				if err := led.RecordTransaction(cmd.Context(), txn); err != nil {
					return fmt.Errorf("recording %q: %w", txn.Description, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transaction(s)\n", len(txns))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "statement format")
	cmd.Flags().StringVar(&cash, "cash", "1000", "asset account mirroring the bank account")
	cmd.Flags().StringVar(&income, "income", "4000", "account credited for deposits")
	cmd.Flags().StringVar(&expense, "expense", "6000", "account debited for withdrawals")

	return cmd
}
