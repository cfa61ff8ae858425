package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate ledger integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}

			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			report, err := led.ValidateIntegrity(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Valid {
				fmt.Fprintf(out, "OK: trial balance %s = %s, assets %s = liabilities + equity %s\n",
					report.TrialBalanceDebits.StringFixed(2), report.TrialBalanceCredits.StringFixed(2),
					report.BalanceSheetAssets.StringFixed(2), report.BalanceSheetLiabilitiesEquity.StringFixed(2))
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "FAIL: %s\n", issue)
			}
			return fmt.Errorf("integrity check failed with %d issue(s)", len(report.Issues))
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", time.Now().Format("2006-01-02"), "check date (YYYY-MM-DD)")
	return cmd
}
