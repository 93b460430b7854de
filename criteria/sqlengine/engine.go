package sqlengine

import (
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine/internal/adapters"
)

// Engine is the entity store the repositories query through. It owns the database adapter,
// the SQL dialect and the observability collaborators. It is safe for concurrent use.
type Engine struct {
	db               adapters.DBAdapter
	dialect          string
	rootAlias        string
	logger           criteria.Logger
	contextualLogger criteria.ContextualLogger
	metricsCollector criteria.MetricsCollector
	tracingCollector criteria.TracingCollector
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), DialectPostgres, options...)
}

// NewEngineFromPGXPoolWithReplica creates a new Engine that sends every query to the replica pool.
func NewEngineFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Engine, error) {
	if db == nil || replica == nil {
		return Engine{}, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapterWithReplica(db, replica), DialectPostgres, options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
// The dialect defaults to postgres; use WithDialect for other databases.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), DialectPostgres, options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
// The dialect is derived from the driver name when it is known, e.g. "sqlite3" or "pgx".
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), dialectForDriver(db.DriverName()), options...)
}

func newEngine(db adapters.DBAdapter, dialect string, options ...Option) (Engine, error) {
	e := Engine{
		db:        db,
		dialect:   dialect,
		rootAlias: defaultRootAlias,
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Engine{}, err
		}
	}

	return e, nil
}

// Dialect returns the name of the SQL dialect in use.
func (e Engine) Dialect() string {
	return e.dialect
}

func (e Engine) builder() goqu.DialectWrapper {
	return goqu.Dialect(e.dialect)
}

func isSupportedDialect(dialect string) bool {
	switch dialect {
	case DialectPostgres, DialectSQLite3, DialectMySQL:
		return true
	default:
		return false
	}
}

func dialectForDriver(driverName string) string {
	switch driverName {
	case "sqlite3", "sqlite":
		return DialectSQLite3
	case "mysql":
		return DialectMySQL
	default:
		return DialectPostgres
	}
}
