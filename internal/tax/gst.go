// Package tax implements GST calculation for Indian tax compliance: rate
// structures with CGST/SGST/IGST components, category rates, and forward
// and reverse calculations. Everything here is pure arithmetic over
// decimals; posting the results to the ledger is the caller's job.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RateError reports an invalid GST rate structure.
type RateError struct {
	Reason string
}

func (e *RateError) Error() string {
	return "invalid GST rate: " + e.Reason
}

// Rate is a GST rate split into its components. Intra-state transactions
// split the total evenly into CGST and SGST; inter-state transactions carry
// the whole total as IGST.
type Rate struct {
	Total decimal.Decimal
	CGST  decimal.Decimal
	SGST  decimal.Decimal
	IGST  decimal.Decimal
}

// IntraState builds a rate with the total halved into CGST and SGST.
func IntraState(total decimal.Decimal) Rate {
	half := total.Div(decimal.NewFromInt(2))
	return Rate{Total: total, CGST: half, SGST: half, IGST: decimal.Zero}
}

// InterState builds a rate carried entirely as IGST.
func InterState(total decimal.Decimal) Rate {
	return Rate{Total: total, CGST: decimal.Zero, SGST: decimal.Zero, IGST: total}
}

// Validate checks that the components add up to the total and that the
// intra-/inter-state structure is consistent.
func (r Rate) Validate() error {
	sum := r.CGST.Add(r.SGST).Add(r.IGST)
	if !sum.Equal(r.Total) {
		return &RateError{Reason: fmt.Sprintf("components don't add up to total rate: %s != %s", sum, r.Total)}
	}
	if r.IGST.IsZero() && !r.CGST.Equal(r.SGST) {
		return &RateError{Reason: "CGST and SGST rates must be equal for intra-state transactions"}
	}
	if r.IGST.Sign() > 0 && (r.CGST.Sign() > 0 || r.SGST.Sign() > 0) {
		return &RateError{Reason: "only IGST should be applicable for inter-state transactions"}
	}
	return nil
}

// Calculation is a GST breakdown for one base amount.
type Calculation struct {
	BaseAmount  decimal.Decimal
	Rate        Rate
	CGSTAmount  decimal.Decimal
	SGSTAmount  decimal.Decimal
	IGSTAmount  decimal.Decimal
	TotalGST    decimal.Decimal
	TotalAmount decimal.Decimal
}

// Calculate derives the GST amounts for a base amount.
func Calculate(baseAmount decimal.Decimal, rate Rate) (Calculation, error) {
	if err := rate.Validate(); err != nil {
		return Calculation{}, err
	}

	cgst := baseAmount.Mul(rate.CGST).Div(hundred)
	sgst := baseAmount.Mul(rate.SGST).Div(hundred)
	igst := baseAmount.Mul(rate.IGST).Div(hundred)
	totalGST := cgst.Add(sgst).Add(igst)

	return Calculation{
		BaseAmount:  baseAmount,
		Rate:        rate,
		CGSTAmount:  cgst,
		SGSTAmount:  sgst,
		IGSTAmount:  igst,
		TotalGST:    totalGST,
		TotalAmount: baseAmount.Add(totalGST),
	}, nil
}

// ReverseCalculate derives the base amount from a GST-inclusive total:
// base = total * 100 / (100 + rate).
func ReverseCalculate(totalAmount decimal.Decimal, rate Rate) (Calculation, error) {
	if err := rate.Validate(); err != nil {
		return Calculation{}, err
	}
	base := totalAmount.Mul(hundred).Div(hundred.Add(rate.Total))
	return Calculate(base, rate)
}

// Category is a standard GST rate slab.
type Category string

const (
	CategoryEssential Category = "essential" // 0%
	CategoryReduced   Category = "reduced"   // 5%
	CategoryStandard  Category = "standard"  // 12%
	CategoryHigher    Category = "higher"    // 18%
	CategoryLuxury    Category = "luxury"    // 28%
)

// Percent returns the category's total rate percentage.
func (c Category) Percent() decimal.Decimal {
	switch c {
	case CategoryReduced:
		return decimal.NewFromInt(5)
	case CategoryStandard:
		return decimal.NewFromInt(12)
	case CategoryHigher:
		return decimal.NewFromInt(18)
	case CategoryLuxury:
		return decimal.NewFromInt(28)
	default:
		return decimal.Zero
	}
}

// IntraStateRate returns the category's rate split for intra-state use.
func (c Category) IntraStateRate() Rate {
	return IntraState(c.Percent())
}

// InterStateRate returns the category's rate for inter-state use.
func (c Category) InterStateRate() Rate {
	return InterState(c.Percent())
}

// Calculator resolves rates by category or product code.
type Calculator struct {
	customRates       map[string]Rate
	defaultInterState bool
}

// NewCalculator creates a Calculator. defaultInterState selects which rate
// structure applies when a calculation does not say.
func NewCalculator(defaultInterState bool) *Calculator {
	return &Calculator{
		customRates:       make(map[string]Rate),
		defaultInterState: defaultInterState,
	}
}

// SetCustomRate registers a product-specific rate.
func (c *Calculator) SetCustomRate(productCode string, rate Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	c.customRates[productCode] = rate
	return nil
}

func (c *Calculator) categoryRate(category Category, interState *bool) Rate {
	inter := c.defaultInterState
	if interState != nil {
		inter = *interState
	}
	if inter {
		return category.InterStateRate()
	}
	return category.IntraStateRate()
}

// ByCategory calculates GST for a base amount using a category slab. A nil
// interState uses the calculator default.
func (c *Calculator) ByCategory(baseAmount decimal.Decimal, category Category, interState *bool) (Calculation, error) {
	return Calculate(baseAmount, c.categoryRate(category, interState))
}

// ByProduct calculates GST using a registered product rate.
func (c *Calculator) ByProduct(baseAmount decimal.Decimal, productCode string) (Calculation, error) {
	rate, ok := c.customRates[productCode]
	if !ok {
		return Calculation{}, fmt.Errorf("product not found: %s", productCode)
	}
	return Calculate(baseAmount, rate)
}

// ReverseByCategory derives the base amount from a GST-inclusive total
// using a category slab.
func (c *Calculator) ReverseByCategory(totalAmount decimal.Decimal, category Category, interState *bool) (Calculation, error) {
	return ReverseCalculate(totalAmount, c.categoryRate(category, interState))
}
