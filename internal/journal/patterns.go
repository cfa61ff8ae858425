package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Common posting patterns. Each returns a validated transaction ready for
// Record.

// NewExpensePayment debits an expense account and credits cash.
func NewExpensePayment(id string, date time.Time, description, expenseID, cashID string, amount decimal.Decimal) (*model.Transaction, error) {
	return NewBuilder(id, date, description).
		Debit(expenseID, amount, "").
		Credit(cashID, amount, "").
		Build()
}

// NewSale debits cash or receivables and credits revenue.
func NewSale(id string, date time.Time, description, cashOrReceivableID, revenueID string, amount decimal.Decimal) (*model.Transaction, error) {
	return NewBuilder(id, date, description).
		Debit(cashOrReceivableID, amount, "").
		Credit(revenueID, amount, "").
		Build()
}

// NewAssetPurchase debits an asset account and credits cash or payables.
func NewAssetPurchase(id string, date time.Time, description, assetID, cashOrPayableID string, amount decimal.Decimal) (*model.Transaction, error) {
	return NewBuilder(id, date, description).
		Debit(assetID, amount, "").
		Credit(cashOrPayableID, amount, "").
		Build()
}

// TaxedInvoiceParams describes an invoice whose total splits into a revenue
// component and a tax-payable component.
type TaxedInvoiceParams struct {
	ID           string
	Date         time.Time
	Description  string
	ReceivableID string
	RevenueID    string
	TaxPayableID string
	BaseAmount   decimal.Decimal
	TaxAmount    decimal.Decimal
}

// NewTaxedInvoice debits receivables for the tax-inclusive total and credits
// revenue and tax payable separately.
func NewTaxedInvoice(p TaxedInvoiceParams) (*model.Transaction, error) {
	total := p.BaseAmount.Add(p.TaxAmount)
	return NewBuilder(p.ID, p.Date, p.Description).
		Debit(p.ReceivableID, total, "total including tax").
		Credit(p.RevenueID, p.BaseAmount, "revenue amount").
		Credit(p.TaxPayableID, p.TaxAmount, "tax payable").
		Build()
}

// TaxedBillParams describes a bill whose total splits into an expense
// component and a recoverable tax component.
type TaxedBillParams struct {
	ID               string
	Date             time.Time
	Description      string
	ExpenseID        string
	TaxRecoverableID string
	CashOrPayableID  string
	BaseAmount       decimal.Decimal
	TaxAmount        decimal.Decimal
}

// NewTaxedBillPayment debits the expense and the recoverable tax and credits
// cash or payables for the total.
func NewTaxedBillPayment(p TaxedBillParams) (*model.Transaction, error) {
	total := p.BaseAmount.Add(p.TaxAmount)
	return NewBuilder(p.ID, p.Date, p.Description).
		Debit(p.ExpenseID, p.BaseAmount, "expense amount").
		Debit(p.TaxRecoverableID, p.TaxAmount, "tax recoverable").
		Credit(p.CashOrPayableID, total, "total payment").
		Build()
}

// NewLoanReceived debits cash and credits a loan payable.
func NewLoanReceived(id string, date time.Time, description, cashID, loanPayableID string, amount decimal.Decimal) (*model.Transaction, error) {
	return NewBuilder(id, date, description).
		Debit(cashID, amount, "cash received from loan").
		Credit(loanPayableID, amount, "loan payable").
		Build()
}

// NewOwnerInvestment debits cash and credits an equity account.
func NewOwnerInvestment(id string, date time.Time, description, cashID, equityID string, amount decimal.Decimal) (*model.Transaction, error) {
	return NewBuilder(id, date, description).
		Debit(cashID, amount, "cash invested by owner").
		Credit(equityID, amount, "owner's equity contribution").
		Build()
}
