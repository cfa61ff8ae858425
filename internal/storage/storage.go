// Package storage defines the persistence contract consumed by the ledger
// core. Any backend can implement Store; the core never assumes a specific
// one.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Store is the persistence contract for accounts and transactions.
//
// Lookup methods return *model.AccountNotFoundError or
// *model.TransactionNotFoundError when the entity is absent. Date parameters
// use the zero time.Time to mean "unbounded".
//
// The three balance queries may be answered by replaying entries (see the
// balance package) or by a backend-maintained index, as long as the results
// match the replay semantics exactly.
type Store interface {
	// Account CRUD.
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, accountID string) (*model.Account, error)
	// ListAccounts returns all accounts, or only those of accountType when
	// it is non-empty.
	ListAccounts(ctx context.Context, accountType model.AccountType) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, accountID string) error

	// Transaction CRUD.
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error)
	// AccountTransactions returns transactions with at least one entry
	// referencing accountID, filtered to from <= date <= to.
	AccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error)
	// Transactions returns all transactions with from <= date <= to.
	Transactions(ctx context.Context, from, to time.Time) ([]*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, txnID string) error

	// Balance queries. Balance with a zero asOf returns the live running
	// balance; otherwise it reconstructs the balance from history.
	Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
	TrialBalance(ctx context.Context, asOf time.Time) (*model.TrialBalance, error)
	BalancesByType(ctx context.Context, asOf time.Time) (map[model.AccountType][]model.AccountBalance, error)
}
