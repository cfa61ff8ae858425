package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/journal"
)

func newPostCommand() *cobra.Command {
	var (
		date      string
		debit     string
		credit    string
		amount    string
		reference string
	)

	cmd := &cobra.Command{
		Use:   "post <description>",
		Short: "Record a two-entry transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", date, err)
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}

			txn, err := journal.NewBuilder("", when, args[0]).
				Reference(reference).
				Debit(debit, amt, "").
				Credit(credit, amt, "").
				Build()
			if err != nil {
				return err
			}

			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := led.RecordTransaction(cmd.Context(), txn); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %s\n", txn.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&debit, "debit", "", "account to debit (required)")
	_ = cmd.MarkFlagRequired("debit")
	cmd.Flags().StringVar(&credit, "credit", "", "account to credit (required)")
	_ = cmd.MarkFlagRequired("credit")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&reference, "ref", "", "reference (invoice or check number)")

	return cmd
}
