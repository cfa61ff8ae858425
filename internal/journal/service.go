// Package journal implements the transaction recorder: validation and
// posting of balanced transactions, with reversal-by-flip for updates and
// deletes. Posting and un-posting share one balance-update rule, so there is
// no separate undo path to drift from the posting logic.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

// Service provides transaction recording over a storage backend.
type Service struct {
	store     storage.Store
	validator Validator
}

// NewService creates a Service with the default validator.
func NewService(store storage.Store) *Service {
	return &Service{store: store, validator: DefaultValidator{}}
}

// NewServiceWithValidator creates a Service with a custom validator.
func NewServiceWithValidator(store storage.Store, validator Validator) *Service {
	return &Service{store: store, validator: validator}
}

// Record validates and posts a transaction, then applies each entry to the
// referenced account's running balance. Validation, including the existence
// of every referenced account and the uniqueness of the transaction ID,
// completes before any state is mutated.
//
// The per-account balance updates are not atomic as a group: a storage
// failure partway through leaves earlier accounts updated. Backends needing
// stronger guarantees must wrap the sequence in their own transaction.
func (s *Service) Record(ctx context.Context, txn *model.Transaction) error {
	if err := s.validator.ValidateTransaction(txn); err != nil {
		return err
	}
	if err := s.validator.ValidateReferences(ctx, txn); err != nil {
		return err
	}
	if err := s.checkAccountsExist(ctx, txn.Entries); err != nil {
		return err
	}

	if _, err := s.store.GetTransaction(ctx, txn.ID); err == nil {
		return &model.ValidationError{Reason: fmt.Sprintf("transaction with ID %q already exists", txn.ID)}
	} else if !isTransactionNotFound(err) {
		return err
	}

	txn.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}

	return s.applyEntries(ctx, txn.Entries, false)
}

// Get returns a transaction by ID.
func (s *Service) Get(ctx context.Context, txnID string) (*model.Transaction, error) {
	return s.store.GetTransaction(ctx, txnID)
}

// AccountTransactions returns transactions touching an account within a
// date range. Zero bounds are unbounded.
func (s *Service) AccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error) {
	return s.store.AccountTransactions(ctx, accountID, from, to)
}

// Transactions returns all transactions within a date range.
func (s *Service) Transactions(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	return s.store.Transactions(ctx, from, to)
}

// Update replaces a stored transaction. Validation, including the existence
// of every account the new entries reference, completes before anything is
// reversed. Then every entry of the old transaction is reversed before every
// entry of the new one is applied, account by account, so an account
// appearing in both ends at the net-correct balance. The new transaction is
// persisted last.
func (s *Service) Update(ctx context.Context, txn *model.Transaction) error {
	old, err := s.store.GetTransaction(ctx, txn.ID)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateTransaction(txn); err != nil {
		return err
	}
	if err := s.validator.ValidateReferences(ctx, txn); err != nil {
		return err
	}
	if err := s.checkAccountsExist(ctx, txn.Entries); err != nil {
		return err
	}

	if err := s.applyEntries(ctx, old.Entries, true); err != nil {
		return err
	}
	if err := s.applyEntries(ctx, txn.Entries, false); err != nil {
		return err
	}

	txn.UpdatedAt = time.Now().UTC()
	return s.store.UpdateTransaction(ctx, txn)
}

// Delete reverses a transaction's effect on every referenced account, then
// removes it from storage.
func (s *Service) Delete(ctx context.Context, txnID string) error {
	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		return err
	}

	if err := s.applyEntries(ctx, txn.Entries, true); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, txnID)
}

// checkAccountsExist verifies every entry's account before any balance is
// touched, so a missing account can never strand a half-applied mutation.
func (s *Service) checkAccountsExist(ctx context.Context, entries []model.Entry) error {
	for _, entry := range entries {
		if _, err := s.store.GetAccount(ctx, entry.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// applyEntries loads each entry's account, applies the balance-update rule
// (flipped when reversing), and persists the account. Entries are visited
// in order; the account is re-read per entry so repeated references
// accumulate correctly.
func (s *Service) applyEntries(ctx context.Context, entries []model.Entry, reverse bool) error {
	for _, entry := range entries {
		account, err := s.store.GetAccount(ctx, entry.AccountID)
		if err != nil {
			return err
		}
		entryType := entry.Type
		if reverse {
			entryType = entryType.Opposite()
		}
		account.ApplyEntry(entryType, entry.Amount)
		if err := s.store.UpdateAccount(ctx, account); err != nil {
			return fmt.Errorf("updating account %s: %w", account.ID, err)
		}
	}
	return nil
}

func isTransactionNotFound(err error) bool {
	var nf *model.TransactionNotFoundError
	return errors.As(err, &nf)
}
