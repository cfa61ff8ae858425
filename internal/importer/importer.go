// Package importer converts bank statement CSV exports into balanced
// transactions ready for the journal. Deposits debit the cash account and
// credit an uncategorized income account; withdrawals debit an uncategorized
// expense account and credit cash. Reclassification happens later by
// updating the posted transaction.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// StatementRow is one bank statement line. Amount is signed: positive for
// deposits, negative for withdrawals.
type StatementRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}

// Parser converts a statement CSV file into StatementRows.
type Parser interface {
	Parse(r io.Reader) ([]StatementRow, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&GenericParser{})
	return r
}

// Accounts names the ledger accounts statement rows post to.
type Accounts struct {
	// Cash is the asset account mirroring the bank account.
	Cash string
	// Income receives the credit side of deposits.
	Income string
	// Expense receives the debit side of withdrawals.
	Expense string
}

// Transactions converts statement rows into balanced transactions. Rows
// with a zero amount are skipped. Transaction IDs are left empty for the
// caller to assign.
func Transactions(rows []StatementRow, accts Accounts) ([]*model.Transaction, error) {
	var txns []*model.Transaction
	for _, row := range rows {
		if row.Amount.IsZero() {
			continue
		}
		txn := model.NewTransaction("", row.Date, row.Description)
		txn.Reference = row.Reference
		amount := row.Amount.Abs()
		if row.Amount.Sign() > 0 {
			txn.AddEntry(model.DebitEntry(accts.Cash, amount, ""))
			txn.AddEntry(model.CreditEntry(accts.Income, amount, ""))
		} else {
			txn.AddEntry(model.DebitEntry(accts.Expense, amount, ""))
			txn.AddEntry(model.CreditEntry(accts.Cash, amount, ""))
		}
		if err := txn.Validate(); err != nil {
			return nil, fmt.Errorf("row %q: %w", row.Description, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// importDir is the subdirectory for statement CSVs awaiting import.
const importDir = "import"

// processedDir is the subdirectory for imported CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
