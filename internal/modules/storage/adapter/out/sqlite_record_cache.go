package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"timebox/internal/modules/storage/domain"
	storageout "timebox/internal/modules/storage/port/out"
	apperrors "timebox/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteRecordCache keeps the last written copy of every blob together with
// the time it was recorded.
type SQLiteRecordCache struct {
	db *sql.DB
}

func NewSQLiteRecordCache(dbPath string) (*SQLiteRecordCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	cache := &SQLiteRecordCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

var _ storageout.RecordCache = (*SQLiteRecordCache)(nil)

func (c *SQLiteRecordCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS record_cache (
  data_key TEXT PRIMARY KEY,
  data_value BLOB NOT NULL,
  recorded_at INTEGER NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create record_cache table: %w", err)
	}
	return nil
}

func (c *SQLiteRecordCache) Put(ctx context.Context, record domain.CachedRecord) error {
	const stmt = `
INSERT INTO record_cache (data_key, data_value, recorded_at)
VALUES (?, ?, ?)
ON CONFLICT(data_key) DO UPDATE SET
  data_value=excluded.data_value,
  recorded_at=excluded.recorded_at;
`
	if _, err := c.db.ExecContext(ctx, stmt, string(record.Key), record.Value, record.RecordedAt.UnixMilli()); err != nil {
		return fmt.Errorf("upsert cached record: %w", err)
	}
	return nil
}

func (c *SQLiteRecordCache) Get(ctx context.Context, key domain.Key) (domain.CachedRecord, error) {
	var (
		value      []byte
		recordedAt int64
	)
	err := c.db.QueryRowContext(ctx, `SELECT data_value, recorded_at FROM record_cache WHERE data_key = ?`, string(key)).Scan(&value, &recordedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CachedRecord{}, apperrors.ErrNotFound
		}
		return domain.CachedRecord{}, fmt.Errorf("read cached record: %w", err)
	}
	return domain.CachedRecord{Key: key, Value: value, RecordedAt: time.UnixMilli(recordedAt)}, nil
}

func (c *SQLiteRecordCache) Delete(ctx context.Context, key domain.Key) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM record_cache WHERE data_key = ?`, string(key)); err != nil {
		return fmt.Errorf("delete cached record: %w", err)
	}
	return nil
}

func (c *SQLiteRecordCache) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM record_cache WHERE recorded_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune record cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune record cache: %w", err)
	}
	return int(n), nil
}

func (c *SQLiteRecordCache) Close() error {
	return c.db.Close()
}
