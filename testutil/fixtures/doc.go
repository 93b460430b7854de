// Package fixtures provides the shop schema and data (categories, products, orders, order items)
// the query tests and the shopquery CLI run against, loaded into SQLite through sqlx.
package fixtures
