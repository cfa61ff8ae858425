// Package postgres provides a PostgreSQL-backed storage implementation.
// Mutating ledger sequences remain non-atomic across calls, matching the
// storage contract; each individual call commits on its own.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
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
    balance    NUMERIC NOT NULL,
    metadata   JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id          TEXT PRIMARY KEY,
    date        TIMESTAMPTZ NOT NULL,
    description TEXT NOT NULL,
    reference   TEXT NOT NULL DEFAULT '',
    metadata    JSONB NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    transaction_id TEXT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    seq            INTEGER NOT NULL,
    account_id     TEXT NOT NULL,
    type           TEXT NOT NULL,
    amount         NUMERIC NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (transaction_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open connects to PostgreSQL and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
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

// NewStore wraps an existing database handle. The caller owns the handle
// and its schema.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
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
		INSERT INTO accounts (id, name, type, parent_id, balance, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, type = EXCLUDED.type, parent_id = EXCLUDED.parent_id,
			balance = EXCLUDED.balance, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		account.ID, account.Name, string(account.Type), account.ParentID,
		account.Balance.String(), meta, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return &model.StorageError{Op: "save account", Err: err}
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, parent_id, balance, metadata, created_at, updated_at
		FROM accounts WHERE id = $1`, accountID)
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
		query += ` WHERE type = $1`
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
		UPDATE accounts SET name = $1, type = $2, parent_id = $3, balance = $4, metadata = $5, updated_at = $6
		WHERE id = $7`,
		account.Name, string(account.Type), account.ParentID,
		account.Balance.String(), meta, account.UpdatedAt, account.ID)
	if err != nil {
		return &model.StorageError{Op: "update account", Err: err}
	}
	return requireAffected(res, &model.AccountNotFoundError{ID: account.ID}, "update account")
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return &model.StorageError{Op: "delete account", Err: err}
	}
	return requireAffected(res, &model.AccountNotFoundError{ID: accountID}, "delete account")
}

func (s *Store) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	return s.writeTransaction(ctx, txn)
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	exists, err := s.transactionExists(ctx, txn.ID)
	if err != nil {
		return err
	}
	if !exists {
		return &model.TransactionNotFoundError{ID: txn.ID}
	}
	return s.writeTransaction(ctx, txn)
}

func (s *Store) writeTransaction(ctx context.Context, txn *model.Transaction) error {
	meta, err := encodeMetadata(txn.Metadata)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE transaction_id = $1`, txn.ID); err != nil {
		return &model.StorageError{Op: "clear entries", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, reference, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date, description = EXCLUDED.description, reference = EXCLUDED.reference,
			metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		txn.ID, txn.Date, txn.Description, txn.Reference, meta, txn.CreatedAt, txn.UpdatedAt); err != nil {
		return &model.StorageError{Op: "save transaction", Err: err}
	}
	for i, entry := range txn.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entries (transaction_id, seq, account_id, type, amount, description)
			VALUES ($1, $2, $3, $4, $5, $6)`,
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
	txns, err := s.queryTransactions(ctx, `WHERE t.id = $1`, txnID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, &model.TransactionNotFoundError{ID: txnID}
	}
	return txns[0], nil
}

func (s *Store) AccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]*model.Transaction, error) {
	where := `WHERE t.id IN (SELECT transaction_id FROM entries WHERE account_id = $1)`
	args := []any{accountID}
	where, args = appendDateBounds(where, args, from, to)
	return s.queryTransactions(ctx, where, args...)
}

func (s *Store) Transactions(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	where, args := appendDateBounds("", nil, from, to)
	return s.queryTransactions(ctx, where, args...)
}

func (s *Store) DeleteTransaction(ctx context.Context, txnID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, txnID)
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
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM transactions WHERE id = $1`, txnID).Scan(&one)
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
			txn  model.Transaction
			meta []byte
		)
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Description, &txn.Reference, &meta, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
			return nil, &model.StorageError{Op: "scan transaction", Err: err}
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
		WHERE transaction_id = $1 ORDER BY seq`, txnID)
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
		account  model.Account
		typ, bal string
		meta     []byte
	)
	if err := row.Scan(&account.ID, &account.Name, &typ, &account.ParentID, &bal, &meta, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, err
	}
	account.Type = model.AccountType(typ)

	var err error
	if account.Balance, err = decimal.NewFromString(bal); err != nil {
		return nil, err
	}
	if account.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return &account, nil
}

// appendDateBounds extends a WHERE clause with inclusive date bounds,
// numbering placeholders after the ones already present.
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
		clause(fmt.Sprintf("t.date >= $%d", len(args)+1), from)
	}
	if !to.IsZero() {
		clause(fmt.Sprintf("t.date <= $%d", len(args)+1), to)
	}
	return where, args
}

func encodeMetadata(meta map[string]string) ([]byte, error) {
	if len(meta) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, &model.StorageError{Op: "encode metadata", Err: err}
	}
	return b, nil
}

func decodeMetadata(raw []byte) (map[string]string, error) {
	meta := map[string]string{}
	if len(raw) == 0 {
		return meta, nil
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
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
