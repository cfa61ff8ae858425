package journal

import (
	"context"
	"fmt"

	"github.com/ledgerkit-dev/ledgerkit/internal/accounts"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

const maxDescriptionLength = 500

// Validator is the pluggable transaction validation strategy.
type Validator interface {
	// ValidateTransaction checks the transaction's internal invariants.
	ValidateTransaction(txn *model.Transaction) error
	// ValidateReferences checks entry account references. Implementations
	// may skip the check when storage already guarantees it; the recorder
	// verifies existence again before mutating.
	ValidateReferences(ctx context.Context, txn *model.Transaction) error
}

// DefaultValidator enforces only the double-entry invariants and leaves
// reference checking to the recorder.
type DefaultValidator struct{}

func (DefaultValidator) ValidateTransaction(txn *model.Transaction) error {
	return txn.Validate()
}

func (DefaultValidator) ValidateReferences(context.Context, *model.Transaction) error {
	return nil
}

// StrictValidator adds field-level checks: transaction description and
// entry account ID constraints, and no account appearing twice with the
// same entry type. When Store is set, references are verified eagerly.
type StrictValidator struct {
	Store storage.Store
}

func (v StrictValidator) ValidateTransaction(txn *model.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}
	if txn.Description == "" {
		return &model.ValidationError{Reason: "transaction description cannot be empty"}
	}
	if len(txn.Description) > maxDescriptionLength {
		return &model.ValidationError{Reason: fmt.Sprintf("transaction description cannot exceed %d characters", maxDescriptionLength)}
	}

	type sideRef struct {
		accountID string
		entryType model.EntryType
	}
	seen := make(map[sideRef]bool)
	for _, entry := range txn.Entries {
		if err := accounts.ValidateID(entry.AccountID); err != nil {
			return err
		}
		ref := sideRef{entry.AccountID, entry.Type}
		if seen[ref] {
			return &model.ValidationError{Reason: fmt.Sprintf(
				"account %q appears multiple times with the same entry type", entry.AccountID)}
		}
		seen[ref] = true
	}
	return nil
}

func (v StrictValidator) ValidateReferences(ctx context.Context, txn *model.Transaction) error {
	if v.Store == nil {
		return nil
	}
	for _, entry := range txn.Entries {
		if _, err := v.Store.GetAccount(ctx, entry.AccountID); err != nil {
			return err
		}
	}
	return nil
}
