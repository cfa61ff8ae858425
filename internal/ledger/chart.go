package ledger

import (
	"context"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

type chartEntry struct {
	id   string
	name string
	typ  model.AccountType
}

var standardChart = []chartEntry{
	{"1000", "Cash", model.AccountTypeAsset},
	{"1200", "Accounts Receivable", model.AccountTypeAsset},
	{"1300", "Inventory", model.AccountTypeAsset},
	{"2000", "Accounts Payable", model.AccountTypeLiability},
	{"2100", "Loans Payable", model.AccountTypeLiability},
	{"3000", "Owner's Equity", model.AccountTypeEquity},
	{"3200", "Retained Earnings", model.AccountTypeEquity},
	{"4000", "Sales Revenue", model.AccountTypeIncome},
	{"4100", "Service Revenue", model.AccountTypeIncome},
	{"5000", "Cost of Goods Sold", model.AccountTypeExpense},
	{"6000", "Rent Expense", model.AccountTypeExpense},
	{"6100", "Utilities Expense", model.AccountTypeExpense},
}

// SetupStandardChart creates a standard small-business chart of accounts
// and returns the created accounts keyed by ID.
func (l *Ledger) SetupStandardChart(ctx context.Context) (map[string]*model.Account, error) {
	created := make(map[string]*model.Account, len(standardChart))
	for _, e := range standardChart {
		account, err := l.CreateAccount(ctx, e.id, e.name, e.typ, "")
		if err != nil {
			return nil, err
		}
		created[account.ID] = account
	}
	return created, nil
}
