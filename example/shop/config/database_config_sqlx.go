package config

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// OpenSQLX opens a configured *sqlx.DB with the same pool settings as OpenSQLDB.
func OpenSQLX(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := OpenSQLDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, driver), nil
}
