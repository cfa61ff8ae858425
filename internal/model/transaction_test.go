package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestTransactionTotals(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "Office rent")
	txn.AddEntry(DebitEntry("rent", dec("1200.00"), ""))
	txn.AddEntry(CreditEntry("cash", dec("1200.00"), ""))

	assert.True(t, txn.TotalDebits().Equal(dec("1200.00")))
	assert.True(t, txn.TotalCredits().Equal(dec("1200.00")))
	assert.True(t, txn.Balanced())
}

func TestTransactionValidate(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "Sale")
	txn.AddEntry(DebitEntry("receivable", dec("11800.00"), ""))
	txn.AddEntry(CreditEntry("revenue", dec("10000.00"), ""))
	txn.AddEntry(CreditEntry("tax_payable", dec("1800.00"), ""))

	require.NoError(t, txn.Validate())
}

func TestTransactionValidate_Empty(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "Empty")

	err := txn.Validate()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "at least one entry")
}

func TestTransactionValidate_SingleEntry(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "One-sided")
	txn.AddEntry(DebitEntry("cash", dec("100.00"), ""))

	err := txn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two entries")
}

func TestTransactionValidate_Unbalanced(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "Lopsided")
	txn.AddEntry(DebitEntry("cash", dec("100.00"), ""))
	txn.AddEntry(CreditEntry("revenue", dec("90.00"), ""))

	err := txn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not balanced")
}

func TestTransactionValidate_NonPositiveAmount(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "Zero legs")
	txn.AddEntry(DebitEntry("cash", decimal.Zero, ""))
	txn.AddEntry(CreditEntry("revenue", decimal.Zero, ""))

	err := txn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestEntryTypeOpposite(t *testing.T) {
	assert.Equal(t, EntryTypeCredit, EntryTypeDebit.Opposite())
	assert.Equal(t, EntryTypeDebit, EntryTypeCredit.Opposite())
}

func TestTransactionClone(t *testing.T) {
	txn := NewTransaction("txn-1", date(2025, 1, 15), "Original")
	txn.AddEntry(DebitEntry("cash", dec("10.00"), ""))
	txn.AddEntry(CreditEntry("revenue", dec("10.00"), ""))
	txn.Metadata["category"] = "operating"

	c := txn.Clone()
	c.Entries[0].Amount = dec("99.00")
	c.Metadata["category"] = "financing"

	assert.True(t, txn.Entries[0].Amount.Equal(dec("10.00")))
	assert.Equal(t, "operating", txn.Metadata["category"])
}
