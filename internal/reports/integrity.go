package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// ValidateIntegrity cross-checks the trial balance and balance sheet as of
// a date. It is read-only; a failing report names the mismatched totals.
func (g *Generator) ValidateIntegrity(ctx context.Context, asOf time.Time) (*model.IntegrityReport, error) {
	tb, err := g.TrialBalance(ctx, asOf)
	if err != nil {
		return nil, err
	}
	sheet, err := g.BalanceSheet(ctx, asOf)
	if err != nil {
		return nil, err
	}

	var issues []string
	if !tb.Balanced {
		issues = append(issues, fmt.Sprintf(
			"trial balance is not balanced: debits = %s, credits = %s",
			tb.TotalDebits, tb.TotalCredits))
	}

	liabilitiesEquity := sheet.TotalLiabilities.Add(sheet.TotalEquity)
	if !sheet.Balanced {
		issues = append(issues, fmt.Sprintf(
			"balance sheet is not balanced: assets = %s, liabilities + equity = %s",
			sheet.TotalAssets, liabilitiesEquity))
	}

	return &model.IntegrityReport{
		AsOf:                          asOf,
		Valid:                         len(issues) == 0,
		Issues:                        issues,
		TrialBalanceDebits:            tb.TotalDebits,
		TrialBalanceCredits:           tb.TotalCredits,
		BalanceSheetAssets:            sheet.TotalAssets,
		BalanceSheetLiabilitiesEquity: liabilitiesEquity,
	}, nil
}
