// Package sqlite provides a SQLite-backed storage implementation. The
// database opens in WAL mode with foreign keys enabled; entries cascade
// with their parent transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/ledgerkit-dev/ledgerkit/internal/balance"
	"github.com/ledgerkit-dev/ledgerkit/internal/model"
	"github.com/ledgerkit-dev/ledgerkit/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    parent_id  TEXT NOT NULL DEFAULT '',
    balance    TEXT NOT NULL,
    metadata   TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id          TEXT PRIMARY KEY,
    date        TEXT NOT NULL,
    description TEXT NOT NULL,
    reference   TEXT NOT NULL DEFAULT '',
    metadata    TEXT NOT NULL DEFAULT '{}',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    seq            INTEGER NOT NULL,
    account_id     TEXT NOT NULL,
    type           TEXT NOT NULL,
    amount         TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (transaction_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

// Store is a SQLite-backed storage.Store.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) a SQLite ledger database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveAccount(ctx context.Context, account *model.Account) error {
	meta, err := encodeMetadata(account.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO accounts (id, name, type, parent_id, balance, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.Name, string(account.Type), account.ParentID,
		account.Balance.String(), meta, fmtTime(account.CreatedAt), fmtTime(account.UpdatedAt))
	if err != nil {
		return &model.StorageError{Op: "save account", Err: err}
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, parent_id, balance, metadata, created_at, updated_at
		FROM accounts WHERE id = ?`, accountID)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, &model.AccountNotFoundError{ID: accountID}
	}
	if err != nil {
		return nil, &model.StorageError{Op: "get account", Err: err}
	}
	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context, accountType model.AccountType) ([]*model.Account, error) {
	query := `SELECT id, name, type, parent_id, balance, metadata, created_at, updated_at FROM accounts`
	args := []any{}
	if accountType != "" {
		query += ` WHERE type = ?`
		args = append(args, string(accountType))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &model.StorageError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, &model.StorageError{Op: "list accounts", Err: err}
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list accounts", Err: err}
	}
	return accounts, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account *model.Account) error {
	meta, err := encodeMetadata(account.Metadata)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ?, parent_id = ?, balance = ?, metadata = ?, updated_at = ?
		WHERE id = ?`,
		account.Name, string(account.Type), account.ParentID,
		account.Balance.String(), meta, fmtTime(account.UpdatedAt), account.ID)
	if err != nil {
		return &model.StorageError{Op: "update account", Err: err}
	}
	return requireAffected(res, &model.AccountNotFoundError{ID: account.ID}, "update account")
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
	if err != nil {
		return &model.StorageError{Op: "delete account", Err: err}
	}
	return requireAffected(res, &model.AccountNotFoundError{ID: accountID}, "delete account")
}

func (s *Store) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	return s.writeTransaction(ctx, txn, false)
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	exists, err := s.transactionExists(ctx, txn.ID)
	if err != nil {
		return err
	}
	if !exists {
		return &model.TransactionNotFoundError{ID: txn.ID}
	}
	return s.writeTransaction(ctx, txn, true)
}

// writeTransaction stores the transaction row and its entries in one SQL
// transaction so a half-written entry set is never visible.
func (s *Store) writeTransaction(ctx context.Context, txn *model.Transaction, replace bool) error {
	meta, err := encodeMetadata(txn.Metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE transaction_id = ?`, txn.ID); err != nil {
			return &model.StorageError{Op: "clear entries", Err: err}
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO transactions (id, date, description, reference, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, fmtTime(txn.Date), txn.Description, txn.Reference, meta,
		fmtTime(txn.CreatedAt), fmtTime(txn.UpdatedAt)); err != nil {
		return &model.StorageError{Op: "save transaction", Err: err}
	}
	for i, entry := range txn.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entries (transaction_id, seq, account_id, type, amount, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			txn.ID, i, entry.AccountID, string(entry.Type), entry.Amount.String(), entry.Description); err != nil {
			return &model.StorageError{Op: "save entry", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &model.StorageError{Op: "commit transaction", Err: err}
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	txns, err := s.queryTransactions(ctx, `WHERE t.id = ?`, txnID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, &model.TransactionNotFoundError{ID: txnID}
	}
	return txns[0], nil
}

func (s *Store) AccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error) {
	where := `WHERE t.id IN (SELECT transaction_id FROM entries WHERE account_id = ?)`
	args := []any{accountID}
	where, args = appendDateBounds(where, args, from, to)
	return s.queryTransactions(ctx, where, args...)
}

func (s *Store) Transactions(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	where, args := appendDateBounds("", nil, from, to)
	return s.queryTransactions(ctx, where, args...)
}

func (s *Store) DeleteTransaction(ctx context.Context, txnID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, txnID)
	if err != nil {
		return &model.StorageError{Op: "delete transaction", Err: err}
	}
	return requireAffected(res, &model.TransactionNotFoundError{ID: txnID}, "delete transaction")
}

// The balance queries delegate to the shared replay logic.

func (s *Store) Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	return balance.AsOf(ctx, s, accountID, asOf)
}

func (s *Store) TrialBalance(ctx context.Context, asOf time.Time) (*model.TrialBalance, error) {
	return balance.TrialBalance(ctx, s, asOf)
}

func (s *Store) BalancesByType(ctx context.Context, asOf time.Time) (map[model.AccountType][]model.AccountBalance, error) {
	return balance.ByType(ctx, s, asOf)
}

func (s *Store) transactionExists(ctx context.Context, txnID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM transactions WHERE id = ?`, txnID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &model.StorageError{Op: "check transaction", Err: err}
	}
	return true, nil
}

func (s *Store) queryTransactions(ctx context.Context, where string, args ...any) ([]*model.Transaction, error) {
	query := `SELECT t.id, t.date, t.description, t.reference, t.metadata, t.created_at, t.updated_at
		FROM transactions t ` + where + ` ORDER BY t.date, t.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &model.StorageError{Op: "list transactions", Err: err}
	}
	defer rows.Close()

	var txns []*model.Transaction
	for rows.Next() {
		var (
			txn                    model.Transaction
			date, created, updated string
			meta                   string
		)
		if err := rows.Scan(&txn.ID, &date, &txn.Description, &txn.Reference, &meta, &created, &updated); err != nil {
			return nil, &model.StorageError{Op: "scan transaction", Err: err}
		}
		if txn.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if txn.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if txn.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		if txn.Metadata, err = decodeMetadata(meta); err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: "list transactions", Err: err}
	}
	rows.Close()

	for _, txn := range txns {
		if txn.Entries, err = s.loadEntries(ctx, txn.ID); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

func (s *Store) loadEntries(ctx context.Context, txnID string) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, type, amount, description FROM entries
		WHERE transaction_id = ? ORDER BY seq`, txnID)
	if err != nil {
		return nil, &model.StorageError{Op: "list entries", Err: err}
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var (
			entry             model.Entry
			entryType, amount string
		)
		if err := rows.Scan(&entry.AccountID, &entryType, &amount, &entry.Description); err != nil {
			return nil, &model.StorageError{Op: "scan entry", Err: err}
		}
		entry.Type = model.EntryType(entryType)
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, &model.StorageError{Op: "parse amount", Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		account          model.Account
		typ, bal, meta   string
		created, updated string
	)
	if err := row.Scan(&account.ID, &account.Name, &typ, &account.ParentID, &bal, &meta, &created, &updated); err != nil {
		return nil, err
	}
	account.Type = model.AccountType(typ)

	var err error
	if account.Balance, err = decimal.NewFromString(bal); err != nil {
		return nil, err
	}
	if account.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if account.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if account.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return &account, nil
}

// appendDateBounds extends a WHERE clause with inclusive date bounds. Times
// are stored as RFC 3339 UTC strings, so string comparison matches time
// comparison.
func appendDateBounds(where string, args []any, from, to time.Time) (string, []any) {
	clause := func(cond string, arg any) {
		if where == "" {
			where = "WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, arg)
	}
	if !from.IsZero() {
		clause("t.date >= ?", fmtTime(from))
	}
	if !to.IsZero() {
		clause("t.date <= ?", fmtTime(to))
	}
	return where, args
}

// fmtTime uses second-precision RFC 3339 UTC so stored strings have a fixed
// width and compare lexicographically like times.
func fmtTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &model.StorageError{Op: "parse time", Err: err}
	}
	return t, nil
}

func encodeMetadata(meta map[string]string) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", &model.StorageError{Op: "encode metadata", Err: err}
	}
	return string(b), nil
}

func decodeMetadata(raw string) (map[string]string, error) {
	meta := map[string]string{}
	if raw == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, &model.StorageError{Op: "decode metadata", Err: err}
	}
	return meta, nil
}

func requireAffected(res sql.Result, notFound error, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &model.StorageError{Op: op, Err: err}
	}
	if n == 0 {
		return notFound
	}
	return nil
}
