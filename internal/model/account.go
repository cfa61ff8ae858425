package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpense,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// NormalBalance returns the entry type that increases an account of this
// type. Assets and expenses carry debit balances; liabilities, equity, and
// income carry credit balances.
func (t AccountType) NormalBalance() EntryType {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return EntryTypeDebit
	default:
		return EntryTypeCredit
	}
}

// Account is a single account in the chart of accounts. Balance is the live
// running total maintained by the transaction recorder.
type Account struct {
	ID        string
	Name      string
	Type      AccountType
	ParentID  string // empty = top-level
	Balance   decimal.Decimal
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an account with a zero balance.
func NewAccount(id, name string, accountType AccountType, parentID string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        id,
		Name:      name,
		Type:      accountType,
		ParentID:  parentID,
		Balance:   decimal.Zero,
		Metadata:  map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyEntry adjusts the running balance for one entry. An entry on the
// account's normal side increases the balance; the opposite side decreases
// it. The same rule, with the entry type flipped, reverses a prior posting.
func (a *Account) ApplyEntry(entryType EntryType, amount decimal.Decimal) {
	if a.Type.NormalBalance() == entryType {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
	a.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy, so callers can mutate the result without
// aliasing storage-owned state.
func (a *Account) Clone() *Account {
	c := *a
	if a.Metadata != nil {
		c.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
