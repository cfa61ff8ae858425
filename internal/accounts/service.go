// Package accounts implements the account registry: CRUD over the chart of
// accounts with pluggable validation. The registry is stateless logic over
// the storage interface.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

// Service provides account registry operations.
type Service struct {
	store     storage.Store
	validator Validator
}

// NewService creates a Service with the default permissive validator.
func NewService(store storage.Store) *Service {
	return &Service{store: store, validator: DefaultValidator{}}
}

// NewServiceWithValidator creates a Service with a custom validator.
func NewServiceWithValidator(store storage.Store, validator Validator) *Service {
	return &Service{store: store, validator: validator}
}

// Create registers a new account. It fails if the ID is taken, the parent
// does not resolve, or field validation rejects the account.
func (s *Service) Create(ctx context.Context, id, name string, accountType model.AccountType, parentID string) (*model.Account, error) {
	account := model.NewAccount(id, name, accountType, parentID)

	if err := s.validator.ValidateAccount(account); err != nil {
		return nil, err
	}

	if _, err := s.store.GetAccount(ctx, account.ID); err == nil {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("account with ID %q already exists", account.ID)}
	} else if !isAccountNotFound(err) {
		return nil, err
	}

	if account.ParentID != "" {
		if _, err := s.store.GetAccount(ctx, account.ParentID); err != nil {
			if isAccountNotFound(err) {
				return nil, &model.ValidationError{Reason: fmt.Sprintf("parent account %q does not exist", account.ParentID)}
			}
			return nil, err
		}
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	return account, nil
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, accountID string) (*model.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

// List returns every account, or only those of accountType when non-empty.
func (s *Service) List(ctx context.Context, accountType model.AccountType) ([]*model.Account, error) {
	return s.store.ListAccounts(ctx, accountType)
}

// Update replaces a stored account. The account must already exist.
func (s *Service) Update(ctx context.Context, account *model.Account) error {
	if err := s.validator.ValidateAccount(account); err != nil {
		return err
	}
	if _, err := s.store.GetAccount(ctx, account.ID); err != nil {
		return err
	}
	return s.store.UpdateAccount(ctx, account)
}

// Delete removes an account. The deletion validator decides whether removal
// is allowed; the default policy is permissive.
func (s *Service) Delete(ctx context.Context, accountID string) error {
	if err := s.validator.ValidateDeletion(ctx, accountID); err != nil {
		return err
	}
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return s.store.DeleteAccount(ctx, accountID)
}

// Children returns all direct children of an account.
func (s *Service) Children(ctx context.Context, parentID string) ([]*model.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, "")
	if err != nil {
		return nil, err
	}
	var children []*model.Account
	for _, account := range accounts {
		if account.ParentID == parentID {
			children = append(children, account)
		}
	}
	return children, nil
}

// Path returns the accounts from the hierarchy root down to accountID.
func (s *Service) Path(ctx context.Context, accountID string) ([]*model.Account, error) {
	var path []*model.Account
	seen := make(map[string]bool)
	current := accountID
	for current != "" {
		if seen[current] {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("account hierarchy cycle at %q", current)}
		}
		seen[current] = true
		account, err := s.store.GetAccount(ctx, current)
		if err != nil {
			return nil, err
		}
		path = append([]*model.Account{account}, path...)
		current = account.ParentID
	}
	return path, nil
}

func isAccountNotFound(err error) bool {
	var nf *model.AccountNotFoundError
	return errors.As(err, &nf)
}
