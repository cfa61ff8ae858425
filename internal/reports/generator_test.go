package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/journal"
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

type fixture struct {
	store   *memory.Store
	journal *journal.Service
	gen     *Generator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, a := range []struct {
		id string
		at model.AccountType
	}{
		{"cash", model.AccountTypeAsset},
		{"receivable", model.AccountTypeAsset},
		{"equipment", model.AccountTypeAsset},
		{"loan", model.AccountTypeLiability},
		{"tax_payable", model.AccountTypeLiability},
		{"equity", model.AccountTypeEquity},
		{"revenue", model.AccountTypeIncome},
		{"rent", model.AccountTypeExpense},
	} {
		require.NoError(t, store.SaveAccount(ctx, model.NewAccount(a.id, a.id, a.at, "")))
	}
	return &fixture{store: store, journal: journal.NewService(store), gen: NewGenerator(store)}
}

func (f *fixture) post(t *testing.T, id string, day time.Time, description string, entries ...model.Entry) {
	t.Helper()
	txn := model.NewTransaction(id, day, description)
	for _, e := range entries {
		txn.AddEntry(e)
	}
	require.NoError(t, f.journal.Record(context.Background(), txn))
}

func TestTrialBalance(t *testing.T) {
	f := newFixture(t)
	f.post(t, "open", date(2025, 1, 5), "Opening",
		model.DebitEntry("cash", dec("50000.00"), ""),
		model.CreditEntry("equity", dec("50000.00"), ""))
	f.post(t, "rent", date(2025, 1, 28), "Rent",
		model.DebitEntry("rent", dec("1200.00"), ""),
		model.CreditEntry("cash", dec("1200.00"), ""))

	tb, err := f.gen.TrialBalance(context.Background(), date(2025, 1, 31))
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebits.Equal(dec("50000.00")))
	assert.True(t, tb.TotalCredits.Equal(dec("50000.00")))
}

func TestBalanceSheet_NetIncomeRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.post(t, "open", date(2025, 1, 5), "Opening",
		model.DebitEntry("cash", dec("50000.00"), ""),
		model.CreditEntry("equity", dec("50000.00"), ""))
	f.post(t, "sale", date(2025, 1, 12), "Cash sale",
		model.DebitEntry("cash", dec("8000.00"), ""),
		model.CreditEntry("revenue", dec("8000.00"), ""))
	f.post(t, "rent", date(2025, 1, 28), "Rent",
		model.DebitEntry("rent", dec("1200.00"), ""),
		model.CreditEntry("cash", dec("1200.00"), ""))

	sheet, err := f.gen.BalanceSheet(ctx, date(2025, 1, 31))
	require.NoError(t, err)

	assert.True(t, sheet.Balanced)
	assert.True(t, sheet.TotalAssets.Equal(dec("56800.00")))
	assert.True(t, sheet.TotalEquity.Equal(dec("56800.00")))

	var netRow *model.AccountBalance
	for i := range sheet.Equity {
		if sheet.Equity[i].Account.ID == NetIncomeAccountID {
			netRow = &sheet.Equity[i]
		}
	}
	require.NotNil(t, netRow, "net income appears as an equity row")
	assert.True(t, netRow.Credit.Equal(dec("6800.00")))
}

func TestBalanceSheet_NetLossDebitsEquity(t *testing.T) {
	f := newFixture(t)
	f.post(t, "open", date(2025, 1, 5), "Opening",
		model.DebitEntry("cash", dec("10000.00"), ""),
		model.CreditEntry("equity", dec("10000.00"), ""))
	f.post(t, "rent", date(2025, 1, 28), "Rent",
		model.DebitEntry("rent", dec("700.00"), ""),
		model.CreditEntry("cash", dec("700.00"), ""))

	sheet, err := f.gen.BalanceSheet(context.Background(), date(2025, 1, 31))
	require.NoError(t, err)
	assert.True(t, sheet.Balanced)

	var netRow *model.AccountBalance
	for i := range sheet.Equity {
		if sheet.Equity[i].Account.ID == NetIncomeAccountID {
			netRow = &sheet.Equity[i]
		}
	}
	require.NotNil(t, netRow)
	assert.True(t, netRow.Debit.Equal(dec("700.00")), "a net loss sits on the debit side")
}

func TestIncomeStatement_PeriodBounds(t *testing.T) {
	f := newFixture(t)
	f.post(t, "jan-sale", date(2025, 1, 12), "January sale",
		model.DebitEntry("cash", dec("3000.00"), ""),
		model.CreditEntry("revenue", dec("3000.00"), ""))
	f.post(t, "feb-sale", date(2025, 2, 12), "February sale",
		model.DebitEntry("cash", dec("5000.00"), ""),
		model.CreditEntry("revenue", dec("5000.00"), ""))
	f.post(t, "feb-rent", date(2025, 2, 20), "February rent",
		model.DebitEntry("rent", dec("1200.00"), ""),
		model.CreditEntry("cash", dec("1200.00"), ""))

	stmt, err := f.gen.IncomeStatement(context.Background(), date(2025, 2, 1), date(2025, 2, 28))
	require.NoError(t, err)

	assert.True(t, stmt.TotalRevenue.Equal(dec("5000.00")), "January revenue must not leak into February")
	assert.True(t, stmt.TotalExpenses.Equal(dec("1200.00")))
	assert.True(t, stmt.NetIncome.Equal(dec("3800.00")))
}

func TestIncomeStatement_TaxedSale(t *testing.T) {
	f := newFixture(t)
	txn, err := journal.NewTaxedInvoice(journal.TaxedInvoiceParams{
		ID:           "inv-1",
		Date:         date(2025, 1, 10),
		Description:  "Consulting invoice",
		ReceivableID: "receivable",
		RevenueID:    "revenue",
		TaxPayableID: "tax_payable",
		BaseAmount:   dec("10000.00"),
		TaxAmount:    dec("1800.00"),
	})
	require.NoError(t, err)
	require.NoError(t, f.journal.Record(context.Background(), txn))

	stmt, err := f.gen.IncomeStatement(context.Background(), date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	assert.True(t, stmt.TotalRevenue.Equal(dec("10000.00")), "tax payable is not revenue")

	bal, err := f.store.Balance(context.Background(), "receivable", time.Time{})
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("11800.00")))

	tax, err := f.store.Balance(context.Background(), "tax_payable", time.Time{})
	require.NoError(t, err)
	assert.True(t, tax.Equal(dec("1800.00")))
}

func TestCashFlow_Classification(t *testing.T) {
	f := newFixture(t)
	f.post(t, "open", date(2025, 1, 5), "Owner investment",
		model.DebitEntry("cash", dec("50000.00"), ""),
		model.CreditEntry("equity", dec("50000.00"), ""))
	f.post(t, "equip", date(2025, 1, 10), "Equipment purchase",
		model.DebitEntry("equipment", dec("7000.00"), ""),
		model.CreditEntry("cash", dec("7000.00"), ""))
	f.post(t, "sale", date(2025, 1, 15), "Cash sale",
		model.DebitEntry("cash", dec("2000.00"), ""),
		model.CreditEntry("revenue", dec("2000.00"), ""))
	f.post(t, "loan", date(2025, 1, 20), "Bank loan",
		model.DebitEntry("cash", dec("10000.00"), ""),
		model.CreditEntry("loan", dec("10000.00"), ""))

	stmt, err := f.gen.CashFlow(context.Background(), date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)

	require.Len(t, stmt.Financing, 2, "equity and liability transactions are financing")
	require.Len(t, stmt.Investing, 1)
	require.Len(t, stmt.Operating, 1)
	assert.True(t, stmt.NetFinancing.Equal(dec("60000.00")))
	assert.True(t, stmt.NetInvesting.Equal(dec("7000.00")))
	assert.True(t, stmt.NetOperating.Equal(dec("2000.00")))
	assert.True(t, stmt.NetCashFlow.Equal(dec("69000.00")))
}

func TestCashFlow_MetadataOverride(t *testing.T) {
	f := newFixture(t)
	txn := model.NewTransaction("sale", date(2025, 1, 15), "Asset disposal proceeds")
	txn.Metadata[MetadataCategory] = string(model.ActivityInvesting)
	txn.AddEntry(model.DebitEntry("cash", dec("2000.00"), ""))
	txn.AddEntry(model.CreditEntry("revenue", dec("2000.00"), ""))
	require.NoError(t, f.journal.Record(context.Background(), txn))

	stmt, err := f.gen.CashFlow(context.Background(), date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	require.Len(t, stmt.Investing, 1)
	assert.Empty(t, stmt.Operating)
}

func TestValidateIntegrity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.post(t, "open", date(2025, 1, 5), "Opening",
		model.DebitEntry("cash", dec("50000.00"), ""),
		model.CreditEntry("equity", dec("50000.00"), ""))

	report, err := f.gen.ValidateIntegrity(ctx, date(2025, 1, 31))
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
	assert.True(t, report.TrialBalanceDebits.Equal(report.TrialBalanceCredits))
}

func TestValidateIntegrity_DetectsUnbalancedData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Bypass the recorder to plant a one-sided transaction.
	bad := model.NewTransaction("bad", date(2025, 1, 10), "Corrupt")
	bad.AddEntry(model.DebitEntry("cash", dec("100.00"), ""))
	require.NoError(t, f.store.SaveTransaction(ctx, bad))

	report, err := f.gen.ValidateIntegrity(ctx, date(2025, 1, 31))
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Issues)
	assert.Contains(t, report.Issues[0], "not balanced")
}
