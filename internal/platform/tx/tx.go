package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Manager wraps transactional boundaries for multi-store operations. Stores
// that take part look up the active transaction from the context they get.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// NoopManager runs fn directly, for stores without transactions.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Conn is the query surface shared by *sql.DB and *sql.Tx.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlTxKey struct{}

// SQL is a Manager over a database handle. Nested Within calls join the
// outer transaction.
type SQL struct {
	DB *sql.DB
}

func (m SQL) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	sqlTx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, sqlTxKey{}, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Conn returns the transaction carried by ctx, or the database itself.
func (m SQL) Conn(ctx context.Context) Conn {
	if sqlTx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok {
		return sqlTx
	}
	return m.DB
}
