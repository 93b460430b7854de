// Package adapters provide the database adapters the sqlengine reads through.
//
// pgxpool.Pool, sql.DB and sqlx.DB are supported. All of them present the same DBAdapter interface,
// so the engine compiles a query once and runs it against whichever connection type the caller owns.
package adapters
