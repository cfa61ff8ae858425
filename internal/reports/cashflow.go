package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// MetadataCategory is the transaction metadata key that overrides cash flow
// classification. Valid values are "operating", "investing", "financing".
const MetadataCategory = "category"

// CashFlow buckets the period's transactions into operating, investing, and
// financing activities. Classification is an approximation derived from the
// account types a transaction touches, not a rigorous cash-basis
// derivation:
//
//   - a declared category metadata value wins;
//   - any liability or equity entry makes the transaction financing;
//   - a transaction moving value between two or more asset accounts is
//     investing;
//   - everything else is operating.
func (g *Generator) CashFlow(ctx context.Context, start, end time.Time) (*model.CashFlowStatement, error) {
	txns, err := g.store.Transactions(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stmt := &model.CashFlowStatement{
		Start:        start,
		End:          end,
		NetOperating: decimal.Zero,
		NetInvesting: decimal.Zero,
		NetFinancing: decimal.Zero,
	}

	for _, txn := range txns {
		activity, err := g.classify(ctx, txn)
		if err != nil {
			return nil, err
		}
		item := model.CashFlowItem{Description: txn.Description, Amount: txn.TotalDebits()}
		switch activity {
		case model.ActivityFinancing:
			stmt.Financing = append(stmt.Financing, item)
			stmt.NetFinancing = stmt.NetFinancing.Add(item.Amount)
		case model.ActivityInvesting:
			stmt.Investing = append(stmt.Investing, item)
			stmt.NetInvesting = stmt.NetInvesting.Add(item.Amount)
		default:
			stmt.Operating = append(stmt.Operating, item)
			stmt.NetOperating = stmt.NetOperating.Add(item.Amount)
		}
	}

	stmt.NetCashFlow = stmt.NetOperating.Add(stmt.NetInvesting).Add(stmt.NetFinancing)
	return stmt, nil
}

func (g *Generator) classify(ctx context.Context, txn *model.Transaction) (model.CashFlowActivity, error) {
	switch model.CashFlowActivity(txn.Metadata[MetadataCategory]) {
	case model.ActivityOperating:
		return model.ActivityOperating, nil
	case model.ActivityInvesting:
		return model.ActivityInvesting, nil
	case model.ActivityFinancing:
		return model.ActivityFinancing, nil
	}

	assetAccounts := make(map[string]bool)
	hasFinancing := false
	hasNonAsset := false
	for _, entry := range txn.Entries {
		account, err := g.store.GetAccount(ctx, entry.AccountID)
		if err != nil {
			return "", err
		}
		switch account.Type {
		case model.AccountTypeLiability, model.AccountTypeEquity:
			hasFinancing = true
		case model.AccountTypeAsset:
			assetAccounts[account.ID] = true
		default:
			hasNonAsset = true
		}
	}

	switch {
	case hasFinancing:
		return model.ActivityFinancing, nil
	case !hasNonAsset && len(assetAccounts) >= 2:
		return model.ActivityInvesting, nil
	default:
		return model.ActivityOperating, nil
	}
}
