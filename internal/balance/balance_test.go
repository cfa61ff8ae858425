package balance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/balance"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	cash := model.NewAccount("cash", "Cash", model.AccountTypeAsset, "")
	cash.Balance = dec("49700.00")
	require.NoError(t, s.SaveAccount(ctx, cash))
	require.NoError(t, s.SaveAccount(ctx, model.NewAccount("equity", "Owner's Equity", model.AccountTypeEquity, "")))
	require.NoError(t, s.SaveAccount(ctx, model.NewAccount("rent", "Rent", model.AccountTypeExpense, "")))

	post := func(id string, day time.Time, debit, credit, amount string) {
		txn := model.NewTransaction(id, day, "seed")
		txn.AddEntry(model.DebitEntry(debit, dec(amount), ""))
		txn.AddEntry(model.CreditEntry(credit, dec(amount), ""))
		require.NoError(t, s.SaveTransaction(ctx, txn))
	}
	post("open", date(2025, 1, 5), "cash", "equity", "50000.00")
	post("rent-jan", date(2025, 1, 28), "rent", "cash", "100.00")
	post("rent-feb", date(2025, 2, 28), "rent", "cash", "200.00")
	return s
}

func TestAsOf_ZeroTimeUsesLiveBalance(t *testing.T) {
	s := seed(t)

	bal, err := balance.AsOf(context.Background(), s, "cash", time.Time{})
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("49700.00")))
}

func TestAsOf_ReplaysHistory(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	jan, err := balance.AsOf(ctx, s, "cash", date(2025, 1, 31))
	require.NoError(t, err)
	assert.True(t, jan.Equal(dec("49900.00")))

	feb, err := balance.AsOf(ctx, s, "cash", date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, feb.Equal(dec("49700.00")), "as-of replay must agree with the live balance")

	before, err := balance.AsOf(ctx, s, "cash", date(2025, 1, 1))
	require.NoError(t, err)
	assert.True(t, before.IsZero())
}

func TestAsOf_UnknownAccount(t *testing.T) {
	s := seed(t)

	_, err := balance.AsOf(context.Background(), s, "ghost", time.Time{})
	var nfe *model.AccountNotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestActivity_ExcludesPriorPeriods(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	feb, err := balance.Activity(ctx, s, "rent", date(2025, 2, 1), date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, feb.Equal(dec("200.00")), "February activity must not include January rent")

	all, err := balance.Activity(ctx, s, "rent", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, all.Equal(dec("300.00")))
}

func TestClassify(t *testing.T) {
	asset := model.NewAccount("cash", "Cash", model.AccountTypeAsset, "")
	income := model.NewAccount("sales", "Sales", model.AccountTypeIncome, "")

	row := balance.Classify(asset, dec("100.00"))
	assert.True(t, row.Debit.Equal(dec("100.00")))
	assert.True(t, row.Credit.IsZero())

	// Negative balance on a debit-normal account lands on the credit side.
	row = balance.Classify(asset, dec("-40.00"))
	assert.True(t, row.Debit.IsZero())
	assert.True(t, row.Credit.Equal(dec("40.00")))

	row = balance.Classify(income, dec("250.00"))
	assert.True(t, row.Credit.Equal(dec("250.00")))

	row = balance.Classify(income, decimal.Zero)
	assert.True(t, row.Debit.IsZero())
	assert.True(t, row.Credit.IsZero())
	assert.True(t, row.Amount().IsZero())
}

func TestTrialBalance_Balanced(t *testing.T) {
	s := seed(t)

	tb, err := balance.TrialBalance(context.Background(), s, date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebits.Equal(dec("50000.00")))
	assert.True(t, tb.TotalCredits.Equal(dec("50000.00")))

	// Rows come back sorted by account ID.
	require.Len(t, tb.Rows, 3)
	assert.Equal(t, "cash", tb.Rows[0].Account.ID)
	assert.Equal(t, "equity", tb.Rows[1].Account.ID)
	assert.Equal(t, "rent", tb.Rows[2].Account.ID)
	assert.True(t, tb.Rows[2].Debit.Equal(dec("300.00")))
}

func TestByType(t *testing.T) {
	s := seed(t)

	grouped, err := balance.ByType(context.Background(), s, date(2025, 2, 28))
	require.NoError(t, err)
	require.Len(t, grouped[model.AccountTypeAsset], 1)
	require.Len(t, grouped[model.AccountTypeEquity], 1)
	require.Len(t, grouped[model.AccountTypeExpense], 1)
	assert.True(t, grouped[model.AccountTypeEquity][0].Credit.Equal(dec("50000.00")))
}
