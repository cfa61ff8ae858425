// Package ledger composes the account registry, transaction recorder, and
// report generator into one double-entry bookkeeping facade over a storage
// backend.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/accounts"
	"github.com/ledgerkit-dev/ledgerkit/internal/balance"
	"github.com/ledgerkit-dev/ledgerkit/internal/journal"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/reports"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

// Ledger is the top-level entry point for bookkeeping operations.
type Ledger struct {
	store    storage.Store
	accounts *accounts.Service
	journal  *journal.Service
	reports  *reports.Generator
}

// New creates a Ledger with the default validators.
func New(store storage.Store) *Ledger {
	return &Ledger{
		store:    store,
		accounts: accounts.NewService(store),
		journal:  journal.NewService(store),
		reports:  reports.NewGenerator(store),
	}
}

// NewWithValidators creates a Ledger with custom account and transaction
// validators.
func NewWithValidators(store storage.Store, av accounts.Validator, tv journal.Validator) *Ledger {
	return &Ledger{
		store:    store,
		accounts: accounts.NewServiceWithValidator(store, av),
		journal:  journal.NewServiceWithValidator(store, tv),
		reports:  reports.NewGenerator(store),
	}
}

// Account operations.

func (l *Ledger) CreateAccount(ctx context.Context, id, name string, accountType model.AccountType, parentID string) (*model.Account, error) {
	return l.accounts.Create(ctx, id, name, accountType, parentID)
}

func (l *Ledger) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	return l.accounts.Get(ctx, accountID)
}

func (l *Ledger) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return l.accounts.List(ctx, "")
}

func (l *Ledger) ListAccountsByType(ctx context.Context, accountType model.AccountType) ([]*model.Account, error) {
	return l.accounts.List(ctx, accountType)
}

func (l *Ledger) UpdateAccount(ctx context.Context, account *model.Account) error {
	return l.accounts.Update(ctx, account)
}

func (l *Ledger) DeleteAccount(ctx context.Context, accountID string) error {
	return l.accounts.Delete(ctx, accountID)
}

// ChildAccounts returns the direct children of an account.
func (l *Ledger) ChildAccounts(ctx context.Context, parentID string) ([]*model.Account, error) {
	return l.accounts.Children(ctx, parentID)
}

// AccountPath returns the hierarchy from the root down to an account.
func (l *Ledger) AccountPath(ctx context.Context, accountID string) ([]*model.Account, error) {
	return l.accounts.Path(ctx, accountID)
}

// Transaction operations.

func (l *Ledger) RecordTransaction(ctx context.Context, txn *model.Transaction) error {
	return l.journal.Record(ctx, txn)
}

func (l *Ledger) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	return l.journal.Get(ctx, txnID)
}

func (l *Ledger) AccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error) {
	return l.journal.AccountTransactions(ctx, accountID, from, to)
}

func (l *Ledger) Transactions(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	return l.journal.Transactions(ctx, from, to)
}

func (l *Ledger) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	return l.journal.Update(ctx, txn)
}

func (l *Ledger) DeleteTransaction(ctx context.Context, txnID string) error {
	return l.journal.Delete(ctx, txnID)
}

// Balance and reporting operations.

// AccountBalance returns the live balance when asOf is zero, or a replayed
// historical balance otherwise.
func (l *Ledger) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	return l.store.Balance(ctx, accountID, asOf)
}

// AccountActivity returns the net balance change within [from, to].
func (l *Ledger) AccountActivity(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error) {
	return balance.Activity(ctx, l.store, accountID, from, to)
}

func (l *Ledger) TrialBalance(ctx context.Context, asOf time.Time) (*model.TrialBalance, error) {
	return l.reports.TrialBalance(ctx, asOf)
}

func (l *Ledger) BalancesByType(ctx context.Context, asOf time.Time) (map[model.AccountType][]model.AccountBalance, error) {
	return l.store.BalancesByType(ctx, asOf)
}

func (l *Ledger) BalanceSheet(ctx context.Context, asOf time.Time) (*model.BalanceSheet, error) {
	return l.reports.BalanceSheet(ctx, asOf)
}

func (l *Ledger) IncomeStatement(ctx context.Context, start, end time.Time) (*model.IncomeStatement, error) {
	return l.reports.IncomeStatement(ctx, start, end)
}

func (l *Ledger) CashFlow(ctx context.Context, start, end time.Time) (*model.CashFlowStatement, error) {
	return l.reports.CashFlow(ctx, start, end)
}

func (l *Ledger) ValidateIntegrity(ctx context.Context, asOf time.Time) (*model.IntegrityReport, error) {
	return l.reports.ValidateIntegrity(ctx, asOf)
}
