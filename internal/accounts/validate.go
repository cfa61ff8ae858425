package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

const (
	maxIDLength   = 50
	maxNameLength = 100
)

// Validator is the pluggable account validation strategy: field checks on
// save plus a deletion policy.
type Validator interface {
	ValidateAccount(account *model.Account) error
	ValidateDeletion(ctx context.Context, accountID string) error
}

// DefaultValidator enforces only the basics: non-empty ID and name, a known
// account type. Deletion is always allowed.
type DefaultValidator struct{}

func (DefaultValidator) ValidateAccount(account *model.Account) error {
	if strings.TrimSpace(account.ID) == "" {
		return &model.ValidationError{Reason: "account ID cannot be empty"}
	}
	if strings.TrimSpace(account.Name) == "" {
		return &model.ValidationError{Reason: "account name cannot be empty"}
	}
	if !account.Type.Valid() {
		return &model.ValidationError{Reason: fmt.Sprintf("unknown account type %q", account.Type)}
	}
	return nil
}

func (DefaultValidator) ValidateDeletion(context.Context, string) error {
	return nil
}

// StrictValidator tightens the rules: ID charset and length limits, name
// length limits, and deletion refused while transactions still reference
// the account.
type StrictValidator struct {
	// Store, when set, is consulted to reject deletion of referenced
	// accounts.
	Store storage.Store
}

func (v StrictValidator) ValidateAccount(account *model.Account) error {
	if err := (DefaultValidator{}).ValidateAccount(account); err != nil {
		return err
	}
	if err := ValidateID(account.ID); err != nil {
		return err
	}
	if len(account.Name) > maxNameLength {
		return &model.ValidationError{Reason: fmt.Sprintf("account name cannot exceed %d characters", maxNameLength)}
	}
	return nil
}

func (v StrictValidator) ValidateDeletion(ctx context.Context, accountID string) error {
	if v.Store == nil {
		return nil
	}
	txns, err := v.Store.AccountTransactions(ctx, accountID, time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	if len(txns) > 0 {
		return &model.ValidationError{Reason: fmt.Sprintf("account %q is referenced by %d transaction(s)", accountID, len(txns))}
	}
	return nil
}

// ValidateID checks the account ID charset and length: alphanumerics,
// dashes, and underscores only.
func ValidateID(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return &model.ValidationError{Reason: "account ID cannot be empty"}
	}
	if len(accountID) > maxIDLength {
		return &model.ValidationError{Reason: fmt.Sprintf("account ID cannot exceed %d characters", maxIDLength)}
	}
	for _, r := range accountID {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return &model.ValidationError{Reason: "account ID can only contain alphanumerics, dashes, and underscores"}
	}
	return nil
}
