// Package memory provides the reference in-memory storage backend. It is
// safe for concurrent use: the account map and the transaction map are each
// guarded by their own lock. It provides no cross-account atomicity; a
// multi-account mutation sequence that fails partway leaves earlier updates
// in place.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/balance"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

// Store keeps accounts and transactions in maps. All values are deep-copied
// on the way in and out, so callers never alias stored state.
type Store struct {
	accountsMu sync.RWMutex
	accounts   map[string]*model.Account

	txnsMu sync.RWMutex
	txns   map[string]*model.Transaction
}

var _ storage.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*model.Account),
		txns:     make(map[string]*model.Transaction),
	}
}

// Clear removes all data. Useful in tests.
func (s *Store) Clear() {
	s.accountsMu.Lock()
	s.accounts = make(map[string]*model.Account)
	s.accountsMu.Unlock()

	s.txnsMu.Lock()
	s.txns = make(map[string]*model.Transaction)
	s.txnsMu.Unlock()
}

func (s *Store) SaveAccount(_ context.Context, account *model.Account) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	s.accounts[account.ID] = account.Clone()
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID string) (*model.Account, error) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, &model.AccountNotFoundError{ID: accountID}
	}
	return account.Clone(), nil
}

func (s *Store) ListAccounts(_ context.Context, accountType model.AccountType) ([]*model.Account, error) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()
	var accounts []*model.Account
	for _, account := range s.accounts {
		if accountType != "" && account.Type != accountType {
			continue
		}
		accounts = append(accounts, account.Clone())
	}
	return accounts, nil
}

func (s *Store) UpdateAccount(_ context.Context, account *model.Account) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return &model.AccountNotFoundError{ID: account.ID}
	}
	s.accounts[account.ID] = account.Clone()
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, accountID string) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return &model.AccountNotFoundError{ID: accountID}
	}
	delete(s.accounts, accountID)
	return nil
}

func (s *Store) SaveTransaction(_ context.Context, txn *model.Transaction) error {
	s.txnsMu.Lock()
	defer s.txnsMu.Unlock()
	s.txns[txn.ID] = txn.Clone()
	return nil
}

func (s *Store) GetTransaction(_ context.Context, txnID string) (*model.Transaction, error) {
	s.txnsMu.RLock()
	defer s.txnsMu.RUnlock()
	txn, ok := s.txns[txnID]
	if !ok {
		return nil, &model.TransactionNotFoundError{ID: txnID}
	}
	return txn.Clone(), nil
}

func (s *Store) AccountTransactions(_ context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error) {
	s.txnsMu.RLock()
	defer s.txnsMu.RUnlock()
	var txns []*model.Transaction
	for _, txn := range s.txns {
		if !inRange(txn.Date, from, to) {
			continue
		}
		for _, entry := range txn.Entries {
			if entry.AccountID == accountID {
				txns = append(txns, txn.Clone())
				break
			}
		}
	}
	sortByDate(txns)
	return txns, nil
}

func (s *Store) Transactions(_ context.Context, from, to time.Time) ([]*model.Transaction, error) {
	s.txnsMu.RLock()
	defer s.txnsMu.RUnlock()
	var txns []*model.Transaction
	for _, txn := range s.txns {
		if inRange(txn.Date, from, to) {
			txns = append(txns, txn.Clone())
		}
	}
	sortByDate(txns)
	return txns, nil
}

func (s *Store) UpdateTransaction(_ context.Context, txn *model.Transaction) error {
	s.txnsMu.Lock()
	defer s.txnsMu.Unlock()
	if _, ok := s.txns[txn.ID]; !ok {
		return &model.TransactionNotFoundError{ID: txn.ID}
	}
	s.txns[txn.ID] = txn.Clone()
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, txnID string) error {
	s.txnsMu.Lock()
	defer s.txnsMu.Unlock()
	if _, ok := s.txns[txnID]; !ok {
		return &model.TransactionNotFoundError{ID: txnID}
	}
	delete(s.txns, txnID)
	return nil
}

// The balance queries delegate to the shared replay logic.

func (s *Store) Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	return balance.AsOf(ctx, s, accountID, asOf)
}

func (s *Store) TrialBalance(ctx context.Context, asOf time.Time) (*model.TrialBalance, error) {
	return balance.TrialBalance(ctx, s, asOf)
}

func (s *Store) BalancesByType(ctx context.Context, asOf time.Time) (map[model.AccountType][]model.AccountBalance, error) {
	return balance.ByType(ctx, s, asOf)
}

func inRange(date, from, to time.Time) bool {
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}

func sortByDate(txns []*model.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].Date.Equal(txns[j].Date) {
			return txns[i].ID < txns[j].ID
		}
		return txns[i].Date.Before(txns[j].Date)
	})
}
