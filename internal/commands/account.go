package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountAddCommand())
	cmd.AddCommand(newAccountListCommand())
	return cmd
}

func newAccountAddCommand() *cobra.Command {
	var accountType string
	var parentID string

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			account, err := led.CreateAccount(cmd.Context(), args[0], args[1], model.AccountType(accountType), parentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s)\n", account.ID, account.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "account type: asset, liability, equity, income, expense (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent account ID")

	return cmd
}

func newAccountListCommand() *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, closeStore, err := openLedger()
			if err != nil {
				return err
			}
			defer closeStore()

			accounts, err := led.ListAccountsByType(cmd.Context(), model.AccountType(accountType))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE")
			for _, account := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", account.ID, account.Name, account.Type, account.Balance.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "filter by account type")

	return cmd
}
