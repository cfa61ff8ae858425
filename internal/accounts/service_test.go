package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage/memory"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	account, err := svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "")
	require.NoError(t, err)
	assert.Equal(t, "cash", account.ID)
	assert.True(t, account.Balance.IsZero())

	got, err := svc.Get(ctx, "cash")
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)
}

func TestCreate_DuplicateID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "cash", "Cash Again", model.AccountTypeAsset, "")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreate_InvalidType(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "cash", "Cash", model.AccountType("revenue"), "")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreate_MissingParent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "petty_cash", "Petty Cash", model.AccountTypeAsset, "cash")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "parent")
}

func TestCreate_WithParent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "")
	require.NoError(t, err)
	child, err := svc.Create(ctx, "petty_cash", "Petty Cash", model.AccountTypeAsset, "cash")
	require.NoError(t, err)
	assert.Equal(t, "cash", child.ParentID)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	account, err := svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "")
	require.NoError(t, err)

	account.Name = "Cash on Hand"
	require.NoError(t, svc.Update(ctx, account))

	got, err := svc.Get(ctx, "cash")
	require.NoError(t, err)
	assert.Equal(t, "Cash on Hand", got.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	err := svc.Update(ctx, model.NewAccount("ghost", "Ghost", model.AccountTypeAsset, ""))
	var nfe *model.AccountNotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "cash"))

	_, err = svc.Get(ctx, "cash")
	var nfe *model.AccountNotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestDelete_StrictRefusesReferencedAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewServiceWithValidator(store, StrictValidator{Store: store})

	_, err := svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "")
	require.NoError(t, err)

	txn := model.NewTransaction("txn-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "opening")
	txn.AddEntry(model.DebitEntry("cash", decimal.NewFromInt(100), ""))
	txn.AddEntry(model.CreditEntry("equity", decimal.NewFromInt(100), ""))
	require.NoError(t, store.SaveTransaction(ctx, txn))

	err = svc.Delete(ctx, "cash")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "referenced")
}

func TestChildren(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "assets", "Assets", model.AccountTypeAsset, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "assets")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bank", "Bank", model.AccountTypeAsset, "assets")
	require.NoError(t, err)

	children, err := svc.Children(ctx, "assets")
	require.NoError(t, err)
	assert.Len(t, children, 2)
}

func TestPath(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.Create(ctx, "assets", "Assets", model.AccountTypeAsset, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "current", "Current Assets", model.AccountTypeAsset, "assets")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "cash", "Cash", model.AccountTypeAsset, "current")
	require.NoError(t, err)

	path, err := svc.Path(ctx, "cash")
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, "assets", path[0].ID)
	assert.Equal(t, "current", path[1].ID)
	assert.Equal(t, "cash", path[2].ID)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("cash-on_hand1"))
	assert.Error(t, ValidateID(""))
	assert.Error(t, ValidateID("no spaces"))
	assert.Error(t, ValidateID("bad/slash"))

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateID(string(long)))
}

func TestStrictValidator_NameLength(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	account := model.NewAccount("cash", string(long), model.AccountTypeAsset, "")

	err := StrictValidator{}.ValidateAccount(account)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}
