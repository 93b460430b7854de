// Package config provides database and observability configuration for the shop example.
//
// Settings are read with viper from an optional shopquery.yaml and from CRITERIA_* environment
// variables; without either, the example runs on an in-memory SQLite database opened through sqlx.
// Connection pools for pgx.Pool and sql.DB are configured with fixed defaults.
package config
