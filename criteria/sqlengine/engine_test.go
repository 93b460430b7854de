package sqlengine_test

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
	"github.com/AntonStoeckl/query-criteria-go/testutil/fixtures"
)

func Test_Factory_Functions_Reject_Nil_Connections(t *testing.T) {
	t.Run("NewEngineFromPGXPool", func(t *testing.T) {
		_, err := sqlengine.NewEngineFromPGXPool(nil)
		assert.ErrorIs(t, err, sqlengine.ErrNilDatabaseConnection)
	})

	t.Run("NewEngineFromPGXPoolWithReplica", func(t *testing.T) {
		_, err := sqlengine.NewEngineFromPGXPoolWithReplica(nil, (*pgxpool.Pool)(nil))
		assert.ErrorIs(t, err, sqlengine.ErrNilDatabaseConnection)
	})

	t.Run("NewEngineFromSQLDB", func(t *testing.T) {
		_, err := sqlengine.NewEngineFromSQLDB((*sql.DB)(nil))
		assert.ErrorIs(t, err, sqlengine.ErrNilDatabaseConnection)
	})

	t.Run("NewEngineFromSQLX", func(t *testing.T) {
		_, err := sqlengine.NewEngineFromSQLX((*sqlx.DB)(nil))
		assert.ErrorIs(t, err, sqlengine.ErrNilDatabaseConnection)
	})
}

func Test_NewEngineFromSQLX_Derives_The_Dialect_From_The_Driver(t *testing.T) {
	// arrange
	db := fixtures.NewSQLiteDB(t)

	// act
	engine, err := sqlengine.NewEngineFromSQLX(db)

	// assert
	require.NoError(t, err)
	assert.Equal(t, sqlengine.DialectSQLite3, engine.Dialect())
}

func Test_NewEngineFromSQLDB_Defaults_To_Postgres(t *testing.T) {
	// arrange
	db := fixtures.NewSQLiteDB(t)

	// act
	engine, err := sqlengine.NewEngineFromSQLDB(db.DB)

	// assert
	require.NoError(t, err)
	assert.Equal(t, sqlengine.DialectPostgres, engine.Dialect())
}

func Test_Options_Are_Validated(t *testing.T) {
	db := fixtures.NewSQLiteDB(t)

	testCases := []struct {
		name        string
		option      sqlengine.Option
		expectedErr error
	}{
		{name: "unknown dialect", option: sqlengine.WithDialect("oracle"), expectedErr: sqlengine.ErrUnsupportedDialect},
		{name: "empty dialect", option: sqlengine.WithDialect(""), expectedErr: sqlengine.ErrUnsupportedDialect},
		{name: "empty root alias", option: sqlengine.WithRootAlias(""), expectedErr: sqlengine.ErrEmptyRootAlias},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := sqlengine.NewEngineFromSQLX(db, tc.option)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_WithDialect_Overrides_The_Derived_Dialect(t *testing.T) {
	// arrange
	db := fixtures.NewSQLiteDB(t)

	// act
	engine, err := sqlengine.NewEngineFromSQLX(db, sqlengine.WithDialect(sqlengine.DialectMySQL))

	// assert
	require.NoError(t, err)
	assert.Equal(t, sqlengine.DialectMySQL, engine.Dialect())
}

func Test_WithRootAlias_Renames_The_Root_Alias(t *testing.T) {
	// arrange
	engine := givenPostgresDialectEngine(t, sqlengine.WithRootAlias("p"))
	repo := givenProductRepository(t, engine)

	// act
	sqlQuery, _, err := repo.Query(func(p *productParams) {
		p.PriceGt(100)
	}).SQL()

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "products" AS "p"`)
	assert.Contains(t, sqlQuery, `"p"."price" > $1`)
	assert.NotContains(t, sqlQuery, `"this_"`)
}
