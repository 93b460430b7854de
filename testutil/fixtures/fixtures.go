package fixtures

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/stretchr/testify/require"
)

const (
	DriverSQLite3 = "sqlite3"
	MemoryDSN     = ":memory:"
)

const (
	insertCategory  = `INSERT INTO categories (id, name) VALUES (:id, :name)`
	insertProduct   = `INSERT INTO products (id, name, description, price, category_id) VALUES (:id, :name, :description, :price, :category_id)`
	insertOrder     = `INSERT INTO orders (id, status, note) VALUES (:id, :status, :note)`
	insertOrderItem = `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price) VALUES (:id, :order_id, :product_id, :quantity, :unit_price)`
)

// OpenSQLite opens a SQLite database. An in-memory database lives per connection, so the pool is
// limited to one connection.
func OpenSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverSQLite3, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", pingErr)
	}

	return db, nil
}

// Load creates the shop tables and inserts the fixture rows.
func Load(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, insert := range []struct {
		query string
		rows  []any
	}{
		{insertCategory, toAny(Categories)},
		{insertProduct, toAny(Products)},
		{insertOrder, toAny(Orders)},
		{insertOrderItem, toAny(OrderItems)},
	} {
		for _, row := range insert.rows {
			if _, execErr := tx.NamedExecContext(ctx, insert.query, row); execErr != nil {
				return fmt.Errorf("inserting fixture row %+v: %w", row, execErr)
			}
		}
	}

	return tx.Commit()
}

// NewSQLiteDB opens an in-memory database loaded with the fixtures, closed when the test ends.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()

	db, err := OpenSQLite(ctx, MemoryDSN)
	require.NoError(t, err, "error in arranging test data")

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Load(ctx, db), "error in arranging test data")

	return db
}

func toAny[R any](rows []R) []any {
	result := make([]any, 0, len(rows))
	for _, row := range rows {
		result = append(result, row)
	}

	return result
}
