package journal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func strictTxn(description string) *model.Transaction {
	txn := model.NewTransaction("txn-1", date(2025, 1, 10), description)
	txn.AddEntry(model.DebitEntry("cash", dec("10.00"), ""))
	txn.AddEntry(model.CreditEntry("revenue", dec("10.00"), ""))
	return txn
}

func TestStrictValidator_EmptyDescription(t *testing.T) {
	err := StrictValidator{}.ValidateTransaction(strictTxn(""))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "description")
}

func TestStrictValidator_LongDescription(t *testing.T) {
	err := StrictValidator{}.ValidateTransaction(strictTxn(strings.Repeat("x", 501)))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestStrictValidator_BadAccountID(t *testing.T) {
	txn := model.NewTransaction("txn-1", date(2025, 1, 10), "Bad ID")
	txn.AddEntry(model.DebitEntry("cash!", dec("10.00"), ""))
	txn.AddEntry(model.CreditEntry("revenue", dec("10.00"), ""))

	var verr *model.ValidationError
	require.ErrorAs(t, StrictValidator{}.ValidateTransaction(txn), &verr)
}

func TestStrictValidator_DuplicateSide(t *testing.T) {
	txn := model.NewTransaction("txn-1", date(2025, 1, 10), "Doubled leg")
	txn.AddEntry(model.DebitEntry("cash", dec("10.00"), ""))
	txn.AddEntry(model.DebitEntry("cash", dec("5.00"), ""))
	txn.AddEntry(model.CreditEntry("revenue", dec("15.00"), ""))

	err := StrictValidator{}.ValidateTransaction(txn)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "multiple times")
}

func TestStrictValidator_SameAccountBothSidesAllowed(t *testing.T) {
	txn := model.NewTransaction("txn-1", date(2025, 1, 10), "Transfer through")
	txn.AddEntry(model.DebitEntry("cash", dec("10.00"), ""))
	txn.AddEntry(model.CreditEntry("cash", dec("10.00"), ""))

	require.NoError(t, StrictValidator{}.ValidateTransaction(txn))
}

func TestStrictValidator_References(t *testing.T) {
	s := newStoreWithAccounts(t, "cash")
	v := StrictValidator{Store: s}

	txn := strictTxn("Missing revenue account")
	var nfe *model.AccountNotFoundError
	require.ErrorAs(t, v.ValidateReferences(context.Background(), txn), &nfe)
	assert.Equal(t, "revenue", nfe.ID)
}

func TestDefaultValidator_SkipsReferences(t *testing.T) {
	require.NoError(t, DefaultValidator{}.ValidateReferences(context.Background(), strictTxn("x")))
}
