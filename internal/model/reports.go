package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is one row of a trial balance: an account together with its
// point-in-time balance classified onto the debit or credit side. Exactly one
// of Debit/Credit is non-zero (both zero for a zero balance).
type AccountBalance struct {
	Account *Account
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// Amount returns the balance regardless of side.
func (b AccountBalance) Amount() decimal.Decimal {
	if !b.Debit.IsZero() {
		return b.Debit
	}
	return b.Credit
}

// TrialBalance is a derived snapshot of every account's balance as of a
// date. It is never persisted as authoritative state.
type TrialBalance struct {
	AsOf         time.Time
	Rows         []AccountBalance // sorted by account ID
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Balanced     bool
}

// BalanceSheet groups account balances into assets, liabilities, and equity
// as of a date. A non-zero net income for the period appears as a synthetic
// equity row so that the sheet balances.
type BalanceSheet struct {
	AsOf             time.Time
	Assets           []AccountBalance
	Liabilities      []AccountBalance
	Equity           []AccountBalance
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal
	Balanced         bool
}

// IncomeStatement reports revenue and expense activity for a period.
type IncomeStatement struct {
	Start         time.Time
	End           time.Time
	Revenue       []AccountBalance
	Expenses      []AccountBalance
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// CashFlowActivity buckets a transaction for the cash flow statement.
type CashFlowActivity string

const (
	ActivityOperating CashFlowActivity = "operating"
	ActivityInvesting CashFlowActivity = "investing"
	ActivityFinancing CashFlowActivity = "financing"
)

// CashFlowItem is one classified transaction in a cash flow statement.
type CashFlowItem struct {
	Description string
	Amount      decimal.Decimal
}

// CashFlowStatement is an approximate classification of period transactions
// into operating, investing, and financing activities. It is derived from
// the account types a transaction touches, not from a rigorous cash basis.
type CashFlowStatement struct {
	Start        time.Time
	End          time.Time
	Operating    []CashFlowItem
	Investing    []CashFlowItem
	Financing    []CashFlowItem
	NetOperating decimal.Decimal
	NetInvesting decimal.Decimal
	NetFinancing decimal.Decimal
	NetCashFlow  decimal.Decimal
}

// IntegrityReport is the result of cross-checking the trial balance against
// the balance sheet.
type IntegrityReport struct {
	AsOf                          time.Time
	Valid                         bool
	Issues                        []string
	TrialBalanceDebits            decimal.Decimal
	TrialBalanceCredits           decimal.Decimal
	BalanceSheetAssets            decimal.Decimal
	BalanceSheetLiabilitiesEquity decimal.Decimal
}
