package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the side of a double-entry posting.
type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// Opposite returns the flipped side. Reversing a posting means reapplying
// each of its entries with the opposite type.
func (t EntryType) Opposite() EntryType {
	if t == EntryTypeDebit {
		return EntryTypeCredit
	}
	return EntryTypeDebit
}

// Entry is one side of a transaction. Entries have no identity outside
// their parent transaction.
type Entry struct {
	AccountID   string
	Type        EntryType
	Amount      decimal.Decimal
	Description string
}

// DebitEntry creates a debit entry.
func DebitEntry(accountID string, amount decimal.Decimal, description string) Entry {
	return Entry{AccountID: accountID, Type: EntryTypeDebit, Amount: amount, Description: description}
}

// CreditEntry creates a credit entry.
func CreditEntry(accountID string, amount decimal.Decimal, description string) Entry {
	return Entry{AccountID: accountID, Type: EntryTypeCredit, Amount: amount, Description: description}
}

// Transaction is an ordered set of entries that must balance. It exclusively
// owns its entries; insertion order is preserved for deterministic reporting.
type Transaction struct {
	ID          string
	Date        time.Time
	Entries     []Entry
	Description string
	Reference   string
	Metadata    map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTransaction creates an empty transaction.
func NewTransaction(id string, date time.Time, description string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Metadata:    map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddEntry appends an entry.
func (t *Transaction) AddEntry(entry Entry) {
	t.Entries = append(t.Entries, entry)
	t.UpdatedAt = time.Now().UTC()
}

// TotalDebits sums the debit entries.
func (t *Transaction) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		if e.Type == EntryTypeDebit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalCredits sums the credit entries.
func (t *Transaction) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		if e.Type == EntryTypeCredit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Balanced reports whether debits equal credits exactly.
func (t *Transaction) Balanced() bool {
	return t.TotalDebits().Equal(t.TotalCredits())
}

// Validate enforces the double-entry invariants: at least two entries,
// strictly positive amounts, and debits equal to credits.
func (t *Transaction) Validate() error {
	if len(t.Entries) == 0 {
		return &ValidationError{Reason: "transaction must have at least one entry"}
	}
	if len(t.Entries) < 2 {
		return &ValidationError{Reason: "transaction must have at least two entries for double-entry bookkeeping"}
	}
	if !t.Balanced() {
		return &ValidationError{Reason: "transaction is not balanced: debits = " +
			t.TotalDebits().String() + ", credits = " + t.TotalCredits().String()}
	}
	for _, e := range t.Entries {
		if e.Amount.Sign() <= 0 {
			return &ValidationError{Reason: "entry amounts must be positive"}
		}
	}
	return nil
}

// Clone returns a deep copy of the transaction and its entries.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.Entries != nil {
		c.Entries = make([]Entry, len(t.Entries))
		copy(c.Entries, t.Entries)
	}
	if t.Metadata != nil {
		c.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
