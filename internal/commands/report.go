package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate financial reports",
	}
	cmd.AddCommand(newTrialBalanceCommand())
	cmd.AddCommand(newBalanceSheetCommand())
	cmd.AddCommand(newIncomeStatementCommand())
	cmd.AddCommand(newCashFlowCommand())
	return cmd
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", value, err)
	}
	return t, nil
}

func newTrialBalanceCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
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

			tb, err := led.TrialBalance(cmd.Context(), date)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tDEBIT\tCREDIT")
			for _, row := range tb.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", row.Account.ID, row.Debit.StringFixed(2), row.Credit.StringFixed(2))
			}
			fmt.Fprintf(w, "TOTAL\t%s\t%s\n", tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2))
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "balanced: %v\n", tb.Balanced)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", time.Now().Format("2006-01-02"), "report date (YYYY-MM-DD)")
	return cmd
}

func newBalanceSheetCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Print the balance sheet",
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

			sheet, err := led.BalanceSheet(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSection(out, "Assets", sheet.Assets)
			printSection(out, "Liabilities", sheet.Liabilities)
			printSection(out, "Equity", sheet.Equity)
			fmt.Fprintf(out, "Total assets: %s\n", sheet.TotalAssets.StringFixed(2))
			fmt.Fprintf(out, "Total liabilities + equity: %s\n",
				sheet.TotalLiabilities.Add(sheet.TotalEquity).StringFixed(2))
			fmt.Fprintf(out, "balanced: %v\n", sheet.Balanced)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", time.Now().Format("2006-01-02"), "report date (YYYY-MM-DD)")
	return cmd
}

func newIncomeStatementCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Print the income statement for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(start)
			if err != nil {
				return err
			}
			to, err := parseDate(end)
			if err != nil {
				return err
			}

			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			stmt, err := led.IncomeStatement(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSection(out, "Revenue", stmt.Revenue)
			printSection(out, "Expenses", stmt.Expenses)
			fmt.Fprintf(out, "Net income: %s\n", stmt.NetIncome.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "period start (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("start")
	cmd.Flags().StringVar(&end, "end", "", "period end (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newCashFlowCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "cash-flow",
		Short: "Print an approximate cash flow statement for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(start)
			if err != nil {
				return err
			}
			to, err := parseDate(end)
			if err != nil {
				return err
			}

			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			stmt, err := led.CashFlow(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printItems(out, "Operating", stmt.Operating, stmt.NetOperating)
			printItems(out, "Investing", stmt.Investing, stmt.NetInvesting)
			printItems(out, "Financing", stmt.Financing, stmt.NetFinancing)
			fmt.Fprintf(out, "Net cash flow: %s\n", stmt.NetCashFlow.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "period start (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("start")
	cmd.Flags().StringVar(&end, "end", "", "period end (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func printSection(w io.Writer, title string, rows []model.AccountBalance) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, row := range rows {
		fmt.Fprintf(w, "  %-30s %s\n", row.Account.Name, row.Amount().StringFixed(2))
	}
}

func printItems(w io.Writer, title string, items []model.CashFlowItem, net decimal.Decimal) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  %-30s %s\n", item.Description, item.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "  net: %s\n", net.StringFixed(2))
}
