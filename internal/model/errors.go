package model

import "fmt"

// ValidationError reports malformed input: empty identifiers, non-positive
// amounts, unbalanced or too-small transactions.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// AccountNotFoundError reports a missing account.
type AccountNotFoundError struct {
	ID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.ID)
}

// TransactionNotFoundError reports a missing transaction.
type TransactionNotFoundError struct {
	ID string
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("transaction not found: %s", e.ID)
}

// StorageError wraps a backend failure. The cause is opaque to the ledger
// core; recovery is the caller's responsibility.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
