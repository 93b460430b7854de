package sqlengine

import (
	"errors"
)

var ErrNilDatabaseConnection = errors.New("database connection is nil")
var ErrNilEntity = errors.New("entity is nil")
var ErrNilParamsFactory = errors.New("parameter contract factory is nil")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")
var ErrEmptyRootAlias = errors.New("empty root alias supplied")
var ErrUnknownField = errors.New("unknown entity field")
var ErrUnknownRelation = errors.New("unknown entity relation")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrQueryingFailed = errors.New("querying the database failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrDecodingEntityFailed = errors.New("decoding entity failed")

const (
	DialectPostgres = "postgres"
	DialectSQLite3  = "sqlite3"
	DialectMySQL    = "mysql"
)

const defaultRootAlias = "this_"
