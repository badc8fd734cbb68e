package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"timebox/internal/modules/syncapi/domain"
	syncapiout "timebox/internal/modules/syncapi/port/out"
	apperrors "timebox/internal/platform/errors"
	"timebox/internal/platform/tx"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps sync accounts and their records. It also acts as the
// transaction manager for both: stores called inside Within share its
// transaction through the context.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create server db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var (
	_ syncapiout.AccountStore = (*SQLiteStore)(nil)
	_ syncapiout.RecordStore  = (*SQLiteStore)(nil)
	_ tx.Manager              = (*SQLiteStore)(nil)
)

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sync_accounts (
  id TEXT PRIMARY KEY,
  label TEXT,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  last_seen_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS storage_records (
  account_id TEXT NOT NULL,
  data_key TEXT NOT NULL,
  data_value TEXT NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (account_id, data_key),
  FOREIGN KEY (account_id) REFERENCES sync_accounts(id) ON DELETE CASCADE
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sync api tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) conn(ctx context.Context) tx.Conn {
	return tx.SQL{DB: s.db}.Conn(ctx)
}

// Within runs fn in one transaction. Nested calls join the outer one.
func (s *SQLiteStore) Within(ctx context.Context, fn func(context.Context) error) error {
	return tx.SQL{DB: s.db}.Within(ctx, fn)
}

func (s *SQLiteStore) Create(ctx context.Context, account domain.Account) error {
	var label any
	if account.Label != "" {
		label = account.Label
	}
	const stmt = `
INSERT INTO sync_accounts (id, label, created_at, updated_at, last_seen_at)
VALUES (?, ?, ?, ?, ?);
`
	if _, err := s.conn(ctx).ExecContext(ctx, stmt, account.ID, label, account.CreatedAt, account.UpdatedAt, account.LastSeenAt); err != nil {
		return fmt.Errorf("insert sync account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	var found int
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM sync_accounts WHERE id = ? LIMIT 1`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup sync account: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Touch(ctx context.Context, id string, at int64) error {
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE sync_accounts SET updated_at = ?, last_seen_at = ? WHERE id = ?`, at, at, id)
	if err != nil {
		return fmt.Errorf("touch sync account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, accountID string) ([]domain.StoredRecord, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
SELECT data_key, data_value, updated_at
FROM storage_records
WHERE account_id = ?
ORDER BY data_key ASC;
`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list storage records: %w", err)
	}
	defer rows.Close()

	out := []domain.StoredRecord{}
	for rows.Next() {
		var (
			record domain.StoredRecord
			value  string
		)
		if err := rows.Scan(&record.Key, &value, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan storage record: %w", err)
		}
		record.Value = json.RawMessage(value)
		if !json.Valid(record.Value) {
			record.Value = json.RawMessage("null")
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate storage records: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, accountID string, records []domain.StoredRecord) error {
	const stmt = `
INSERT INTO storage_records (account_id, data_key, data_value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(account_id, data_key) DO UPDATE SET
  data_value=excluded.data_value,
  updated_at=excluded.updated_at;
`
	conn := s.conn(ctx)
	for _, record := range records {
		value := string(record.Value)
		if value == "" {
			value = "null"
		}
		if _, err := conn.ExecContext(ctx, stmt, accountID, record.Key, value, record.UpdatedAt); err != nil {
			return fmt.Errorf("upsert storage record %s: %w", record.Key, err)
		}
	}
	return nil
}
