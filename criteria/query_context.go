package criteria

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Path is a reference to an entity inside a query, either the root entity or a joined one.
type Path interface {
	// Alias is the SQL alias the entity is selected under.
	Alias() string

	// Col resolves an entity field to a qualified column identifier.
	// Unknown fields are used verbatim as column names.
	Col(field string) exp.IdentifierExpression
}

// QueryContext is handed to custom predicates. It exposes the predicate builder (the goqu dialect,
// which also creates subqueries), the query being built and its root entity.
type QueryContext interface {
	Dialect() goqu.DialectWrapper
	Query() *goqu.SelectDataset
	Root() Path
}

// CustomPredicate builds a condition outside the built-in Operations, e.g. an EXISTS subquery.
// The returned expression is conjoined with every other active filter.
type CustomPredicate func(qc QueryContext, value any) (exp.Expression, error)
