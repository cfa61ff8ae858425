// Package balance reconstructs account balances by replaying entries. It is
// the ground-truth computation behind historical queries: it never trusts
// the live running balance for a dated request, which also makes it a
// cross-check against drift in the incrementally maintained totals.
package balance

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Reader is the minimal storage surface needed to replay one account.
type Reader interface {
	GetAccount(ctx context.Context, accountID string) (*model.Account, error)
	AccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error)
}

// ListReader adds account listing, for whole-ledger reconstructions.
type ListReader interface {
	Reader
	ListAccounts(ctx context.Context, accountType model.AccountType) ([]*model.Account, error)
}

// AsOf returns an account's balance as of a date. A zero asOf returns the
// live running balance directly; otherwise the balance is recomputed from
// scratch by replaying every entry dated on or before asOf. Cost is linear
// in the account's transaction history.
func AsOf(ctx context.Context, r Reader, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := r.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if asOf.IsZero() {
		return account.Balance, nil
	}
	return replay(ctx, r, account, time.Time{}, asOf)
}

// Activity returns the net balance change an account accumulated from
// entries dated within [from, to]. Unlike AsOf it excludes prior-period
// contributions, which is what a period statement needs.
func Activity(ctx context.Context, r Reader, accountID string, from, to time.Time) (decimal.Decimal, error) {
	account, err := r.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return replay(ctx, r, account, from, to)
}

func replay(ctx context.Context, r Reader, account *model.Account, from, to time.Time) (decimal.Decimal, error) {
	txns, err := r.AccountTransactions(ctx, account.ID, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	normal := account.Type.NormalBalance()
	total := decimal.Zero
	for _, txn := range txns {
		for _, entry := range txn.Entries {
			if entry.AccountID != account.ID {
				continue
			}
			if entry.Type == normal {
				total = total.Add(entry.Amount)
			} else {
				total = total.Sub(entry.Amount)
			}
		}
	}
	return total, nil
}

// Classify places a signed balance on the debit or credit side relative to
// the account's normal side: a negative balance on a normally-debit account
// surfaces as a credit amount, and symmetrically.
func Classify(account *model.Account, bal decimal.Decimal) model.AccountBalance {
	row := model.AccountBalance{Account: account}
	switch {
	case bal.IsZero():
		// Neither side.
	case account.Type.NormalBalance() == model.EntryTypeDebit:
		if bal.Sign() > 0 {
			row.Debit = bal
		} else {
			row.Credit = bal.Abs()
		}
	default:
		if bal.Sign() > 0 {
			row.Credit = bal
		} else {
			row.Debit = bal.Abs()
		}
	}
	return row
}

// TrialBalance reconstructs every account's balance as of a date and
// accumulates the debit and credit columns. Rows are sorted by account ID
// for deterministic reporting.
func TrialBalance(ctx context.Context, r ListReader, asOf time.Time) (*model.TrialBalance, error) {
	accounts, err := r.ListAccounts(ctx, "")
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	tb := &model.TrialBalance{
		AsOf:         asOf,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, account := range accounts {
		bal, err := AsOf(ctx, r, account.ID, asOf)
		if err != nil {
			return nil, err
		}
		row := Classify(account, bal)
		tb.TotalDebits = tb.TotalDebits.Add(row.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.Balanced = tb.TotalDebits.Equal(tb.TotalCredits)
	return tb, nil
}

// ByType groups trial balance rows by account type.
func ByType(ctx context.Context, r ListReader, asOf time.Time) (map[model.AccountType][]model.AccountBalance, error) {
	tb, err := TrialBalance(ctx, r, asOf)
	if err != nil {
		return nil, err
	}
	grouped := make(map[model.AccountType][]model.AccountBalance)
	for _, row := range tb.Rows {
		grouped[row.Account.Type] = append(grouped[row.Account.Type], row)
	}
	return grouped, nil
}
