package tax

import "github.com/shopspring/decimal"

// LineItem is one invoice line with its GST breakdown.
type LineItem struct {
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal // before GST
	GST          Calculation
	TotalWithGST decimal.Decimal
}

// NewLineItem builds a line item and calculates its GST.
func NewLineItem(description string, quantity, unitPrice decimal.Decimal, rate Rate) (LineItem, error) {
	lineTotal := quantity.Mul(unitPrice)
	calc, err := Calculate(lineTotal, rate)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		Description:  description,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		LineTotal:    lineTotal,
		GST:          calc,
		TotalWithGST: calc.TotalAmount,
	}, nil
}

// Invoice aggregates line items and their GST totals.
type Invoice struct {
	LineItems      []LineItem
	TotalBeforeGST decimal.Decimal
	TotalCGST      decimal.Decimal
	TotalSGST      decimal.Decimal
	TotalIGST      decimal.Decimal
	TotalGST       decimal.Decimal
	GrandTotal     decimal.Decimal
}

// NewInvoice builds an invoice from line items.
func NewInvoice(items []LineItem) Invoice {
	inv := Invoice{
		LineItems:      items,
		TotalBeforeGST: decimal.Zero,
		TotalCGST:      decimal.Zero,
		TotalSGST:      decimal.Zero,
		TotalIGST:      decimal.Zero,
	}
	for _, item := range items {
		inv.TotalBeforeGST = inv.TotalBeforeGST.Add(item.LineTotal)
		inv.TotalCGST = inv.TotalCGST.Add(item.GST.CGSTAmount)
		inv.TotalSGST = inv.TotalSGST.Add(item.GST.SGSTAmount)
		inv.TotalIGST = inv.TotalIGST.Add(item.GST.IGSTAmount)
	}
	inv.TotalGST = inv.TotalCGST.Add(inv.TotalSGST).Add(inv.TotalIGST)
	inv.GrandTotal = inv.TotalBeforeGST.Add(inv.TotalGST)
	return inv
}

// AddLineItem appends a line item and recalculates the totals.
func (inv *Invoice) AddLineItem(item LineItem) {
	*inv = NewInvoice(append(inv.LineItems, item))
}
