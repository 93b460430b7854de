// Package sqlengine executes the criteria declared with package criteria against a relational database.
//
// An Engine wraps a pgxpool.Pool, a sql.DB or a sqlx.DB and generates SQL with goqu for the configured
// dialect (postgres, sqlite3, mysql). Entities map tables to the field and relation names criteria use.
// A Repository ties an Entity, a criteria.Registry and a parameter contract together:
//
//	engine, err := sqlengine.NewEngineFromSQLX(db, sqlengine.WithLogger(slog.Default()))
//	repo, err := sqlengine.NewRepository(engine, Product, productRegistry, NewProductParams)
//
//	products, err := repo.Query(func(p *ProductParams) {
//		p.CategoryName("Electronics")
//		p.SortByName(criteria.Desc)
//		p.FetchCategory()
//	}).List(ctx)
//
// Query execution:
//   - every captured filter becomes a condition, all of them conjoined; dotted fields join the
//     relations in front of them, each relation path at most once per query
//   - captured sorts become ORDER BY terms in capture order
//   - the primary query loads the root entities, then one query per captured fetch loads the
//     relationship path and attaches it to the records already loaded, so the result is never
//     multiplied by a fetched to-many relation
//
// The queried entity is aliased "this_" (see WithRootAlias); relations joined for filters and sorts
// are aliased after their path, e.g. "category_" or "items_product_".
package sqlengine
