package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
)

var ErrNoSQLXConnection = errors.New("database was not opened through sqlx")

// Database is an opened connection together with the engine running on it.
type Database struct {
	Engine sqlengine.Engine

	sqlx  *sqlx.DB
	close func()
}

// SQLX returns the sqlx connection, which only exists for the sqlx.db adapter type.
func (d *Database) SQLX() (*sqlx.DB, error) {
	if d.sqlx == nil {
		return nil, ErrNoSQLXConnection
	}

	return d.sqlx, nil
}

// Close closes the underlying connection.
func (d *Database) Close() {
	d.close()
}

// Open connects as cfg describes and creates the engine. cfg.Dialect, if set, is passed on as WithDialect
// in front of options. A sql.DB does not expose its driver, so there the driver name is the dialect.
func Open(ctx context.Context, cfg DatabaseConfig, options ...sqlengine.Option) (*Database, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dialect := cfg.Dialect
	if dialect == "" && cfg.AdapterType == AdapterSQLDB {
		dialect = cfg.Driver
	}

	if dialect != "" {
		options = append([]sqlengine.Option{sqlengine.WithDialect(dialect)}, options...)
	}

	switch cfg.AdapterType {
	case AdapterPGXPool:
		pool, err := OpenPGXPool(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}

		engine, err := sqlengine.NewEngineFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating engine: %w", err)
		}

		return &Database{Engine: engine, close: pool.Close}, nil

	case AdapterSQLDB:
		db, err := OpenSQLDB(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}

		engine, err := sqlengine.NewEngineFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating engine: %w", err)
		}

		return &Database{Engine: engine, close: func() { _ = db.Close() }}, nil

	default:
		db, err := OpenSQLX(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}

		engine, err := sqlengine.NewEngineFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating engine: %w", err)
		}

		return &Database{Engine: engine, sqlx: db, close: func() { _ = db.Close() }}, nil
	}
}
