// Package reports derives the financial statements from per-account
// balances: trial balance, balance sheet, income statement, and an
// approximate cash flow statement.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/balance"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

// NetIncomeAccountID identifies the synthetic equity row a balance sheet
// uses to absorb the period's result.
const NetIncomeAccountID = "net_income"

// Generator produces reports from a storage backend.
type Generator struct {
	store storage.Store
}

// NewGenerator creates a Generator.
func NewGenerator(store storage.Store) *Generator {
	return &Generator{store: store}
}

// TrialBalance lists every account's balance as of a date, split into debit
// and credit columns.
func (g *Generator) TrialBalance(ctx context.Context, asOf time.Time) (*model.TrialBalance, error) {
	return g.store.TrialBalance(ctx, asOf)
}

// BalanceSheet groups balances into assets, liabilities, and equity as of a
// date. Net income (income minus expenses) is folded into equity as a
// synthetic row when non-zero, so the sheet balances without closing
// entries.
func (g *Generator) BalanceSheet(ctx context.Context, asOf time.Time) (*model.BalanceSheet, error) {
	grouped, err := g.store.BalancesByType(ctx, asOf)
	if err != nil {
		return nil, err
	}

	sheet := &model.BalanceSheet{
		AsOf:        asOf,
		Assets:      grouped[model.AccountTypeAsset],
		Liabilities: grouped[model.AccountTypeLiability],
		Equity:      grouped[model.AccountTypeEquity],
	}

	totalIncome := sumRows(grouped[model.AccountTypeIncome])
	totalExpenses := sumRows(grouped[model.AccountTypeExpense])
	netIncome := totalIncome.Sub(totalExpenses)

	if !netIncome.IsZero() {
		row := model.AccountBalance{
			Account: model.NewAccount(NetIncomeAccountID, "Net Income", model.AccountTypeEquity, ""),
		}
		if netIncome.Sign() < 0 {
			row.Debit = netIncome.Abs()
		} else {
			row.Credit = netIncome
		}
		sheet.Equity = append(sheet.Equity, row)
	}

	sheet.TotalAssets = sumRows(sheet.Assets)
	sheet.TotalLiabilities = sumRows(sheet.Liabilities)
	sheet.TotalEquity = sumRows(sheet.Equity)
	sheet.Balanced = sheet.TotalAssets.Equal(sheet.TotalLiabilities.Add(sheet.TotalEquity))
	return sheet, nil
}

// IncomeStatement reports revenue and expense activity within [start, end].
// Each account's contribution is the net change from entries dated in the
// period, so prior-period balances do not leak into the statement.
func (g *Generator) IncomeStatement(ctx context.Context, start, end time.Time) (*model.IncomeStatement, error) {
	revenue, err := g.periodRows(ctx, model.AccountTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := g.periodRows(ctx, model.AccountTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	stmt := &model.IncomeStatement{
		Start:         start,
		End:           end,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  sumRows(revenue),
		TotalExpenses: sumRows(expenses),
	}
	stmt.NetIncome = stmt.TotalRevenue.Sub(stmt.TotalExpenses)
	return stmt, nil
}

func (g *Generator) periodRows(ctx context.Context, accountType model.AccountType, start, end time.Time) ([]model.AccountBalance, error) {
	accts, err := g.store.ListAccounts(ctx, accountType)
	if err != nil {
		return nil, err
	}
	sort.Slice(accts, func(i, j int) bool { return accts[i].ID < accts[j].ID })

	var rows []model.AccountBalance
	for _, account := range accts {
		activity, err := balance.Activity(ctx, g.store, account.ID, start, end)
		if err != nil {
			return nil, err
		}
		rows = append(rows, balance.Classify(account, activity))
	}
	return rows, nil
}

func sumRows(rows []model.AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount())
	}
	return total
}
