package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Builder assembles a transaction entry by entry. Build validates the
// double-entry invariants before handing the transaction back.
type Builder struct {
	txn *model.Transaction
}

// NewBuilder starts a transaction. An empty id gets a generated UUID.
func NewBuilder(id string, date time.Time, description string) *Builder {
	if id == "" {
		id = uuid.NewString()
	}
	return &Builder{txn: model.NewTransaction(id, date, description)}
}

// Reference sets the transaction reference (invoice number, check number).
func (b *Builder) Reference(reference string) *Builder {
	b.txn.Reference = reference
	return b
}

// Metadata sets a metadata key.
func (b *Builder) Metadata(key, value string) *Builder {
	b.txn.Metadata[key] = value
	return b
}

// Debit adds a debit entry.
func (b *Builder) Debit(accountID string, amount decimal.Decimal, description string) *Builder {
	b.txn.AddEntry(model.DebitEntry(accountID, amount, description))
	return b
}

// Credit adds a credit entry.
func (b *Builder) Credit(accountID string, amount decimal.Decimal, description string) *Builder {
	b.txn.AddEntry(model.CreditEntry(accountID, amount, description))
	return b
}

// Entry adds a prebuilt entry.
func (b *Builder) Entry(entry model.Entry) *Builder {
	b.txn.AddEntry(entry)
	return b
}

// Build validates and returns the transaction.
func (b *Builder) Build() (*model.Transaction, error) {
	if err := b.txn.Validate(); err != nil {
		return nil, err
	}
	return b.txn, nil
}
