package sqlengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

const fetchAliasPrefix = "f_"

type joinKind int

const (
	innerJoin joinKind = iota
	leftJoin
)

// entityPath is an entity as it appears in a query: the root or a joined relation.
type entityPath struct {
	entity *Entity
	alias  string
}

// Alias implements criteria.Path.
func (p entityPath) Alias() string {
	return p.alias
}

// Col implements criteria.Path. Unknown fields are used verbatim as column names.
func (p entityPath) Col(field string) exp.IdentifierExpression {
	column, ok := p.entity.Column(field)
	if !ok {
		column = field
	}

	return goqu.T(p.alias).Col(column)
}

// selection returns all declared columns of the entity, in field order.
func (p entityPath) selection() []any {
	fields := p.entity.Fields()
	selection := make([]any, 0, len(fields))

	for _, field := range fields {
		column, _ := p.entity.Column(field)
		selection = append(selection, goqu.T(p.alias).Col(column))
	}

	return selection
}

func (p entityPath) keyCol() (exp.IdentifierExpression, error) {
	column, err := p.entity.keyColumn()
	if err != nil {
		return nil, err
	}

	return goqu.T(p.alias).Col(column), nil
}

// compiler turns resolved criteria into one goqu SelectDataset.
// It is created per compilation, so its join cache never outlives a single query.
type compiler struct {
	builder    goqu.DialectWrapper
	root       entityPath
	ds         *goqu.SelectDataset
	joins      map[string]entityPath
	fetchJoins map[string]entityPath
	toMany     bool
	sortCols   []any
}

func newCompiler(e Engine, root *Entity) *compiler {
	builder := e.builder()

	return &compiler{
		builder:    builder,
		root:       entityPath{entity: root, alias: e.rootAlias},
		ds:         builder.From(goqu.T(root.table).As(e.rootAlias)),
		joins:      make(map[string]entityPath),
		fetchJoins: make(map[string]entityPath),
	}
}

/***** criteria.QueryContext *****/

func (c *compiler) Dialect() goqu.DialectWrapper {
	return c.builder
}

func (c *compiler) Query() *goqu.SelectDataset {
	return c.ds
}

func (c *compiler) Root() criteria.Path {
	return c.root
}

/***** Joins *****/

// joinPath joins every relation along path that is not in cache yet and returns the last joined entity.
// A shorter path joined earlier is reused by longer paths sharing its prefix.
func (c *compiler) joinPath(
	path string,
	kind joinKind,
	aliasPrefix string,
	cache map[string]entityPath,
) (entityPath, error) {

	relations, err := c.root.entity.walk(path)
	if err != nil {
		return entityPath{}, err
	}

	segments := strings.Split(path, ".")
	parent := c.root

	for i, relation := range relations {
		prefix := strings.Join(segments[:i+1], ".")

		if joined, ok := cache[prefix]; ok {
			parent = joined
			continue
		}

		joined := entityPath{
			entity: relation.target,
			alias:  aliasPrefix + strings.ReplaceAll(prefix, ".", "_") + "_",
		}

		on, condErr := joinCondition(parent, joined, relation)
		if condErr != nil {
			return entityPath{}, condErr
		}

		table := goqu.T(relation.target.table).As(joined.alias)

		switch kind {
		case leftJoin:
			c.ds = c.ds.LeftJoin(table, goqu.On(on))
		default:
			c.ds = c.ds.InnerJoin(table, goqu.On(on))
		}

		if relation.kind == ToMany && aliasPrefix == "" {
			c.toMany = true
		}

		cache[prefix] = joined
		parent = joined
	}

	return parent, nil
}

func joinCondition(parent, joined entityPath, relation Relation) (exp.Expression, error) {
	switch relation.kind {
	case ToMany:
		parentKey, err := parent.keyCol()
		if err != nil {
			return nil, err
		}

		return goqu.T(joined.alias).Col(relation.column).Eq(parentKey), nil

	default:
		targetKey, err := joined.keyCol()
		if err != nil {
			return nil, err
		}

		return targetKey.Eq(goqu.T(parent.alias).Col(relation.column)), nil
	}
}

// column resolves a (possibly dotted) field path, joining the relations in front of the field.
func (c *compiler) column(fieldPath string, kind joinKind) (exp.IdentifierExpression, error) {
	relationPath, field := splitFieldPath(fieldPath)
	path := c.root

	if relationPath != "" {
		joined, err := c.joinPath(relationPath, kind, "", c.joins)
		if err != nil {
			return nil, err
		}

		path = joined
	}

	column, ok := path.entity.Column(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q (in %q) on entity %q", ErrUnknownField, field, fieldPath, path.entity.name)
	}

	return goqu.T(path.alias).Col(column), nil
}

/***** Filters and ordering *****/

func (c *compiler) applyFilters(filters []criteria.ResolvedFilter) error {
	for _, filter := range filters {
		condition, err := c.filterCondition(filter)
		if err != nil {
			return err
		}

		c.ds = c.ds.Where(condition)
	}

	return nil
}

func (c *compiler) filterCondition(filter criteria.ResolvedFilter) (exp.Expression, error) {
	entry := filter.Entry

	if entry.IsCustom() {
		condition, err := entry.Custom()(c, filter.Value)
		if err != nil {
			return nil, fmt.Errorf("custom filter %q: %w", entry.Name(), err)
		}

		if condition == nil {
			return nil, fmt.Errorf("%w: custom filter %q returned no condition", ErrBuildingQueryFailed, entry.Name())
		}

		return condition, nil
	}

	col, err := c.column(entry.Field(), innerJoin)
	if err != nil {
		return nil, err
	}

	condition, err := predicate(col, entry.Operation(), filter.Value)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", entry.Name(), err)
	}

	return condition, nil
}

func (c *compiler) applySorts(sorts []criteria.ResolvedSort) error {
	if len(sorts) == 0 {
		return nil
	}

	orders := make([]exp.OrderedExpression, 0, len(sorts))

	for _, sort := range sorts {
		col, err := c.column(sort.Entry.Field(), leftJoin)
		if err != nil {
			return err
		}

		c.sortCols = append(c.sortCols, col)

		if sort.Order == criteria.Desc {
			orders = append(orders, col.Desc())
		} else {
			orders = append(orders, col.Asc())
		}
	}

	c.ds = c.ds.Order(orders...)

	return nil
}

/***** Statements *****/

// statement is a compiled query ready for the adapter.
type statement struct {
	sql     string
	args    []any
	columns int
}

func (c *compiler) toStatement(columns int) (statement, error) {
	sqlQuery, args, err := c.ds.Prepared(true).ToSQL()
	if err != nil {
		return statement{}, errors.Join(ErrBuildingQueryFailed, err)
	}

	return statement{sql: sqlQuery, args: args, columns: columns}, nil
}

// window is the slice of the primary result to load; zero limit means all rows.
type window struct {
	limit  uint
	offset uint
}

// compilePrimary builds the query for the root entities: filters, ordering, page.
// Filters joining a to-many relation would repeat root rows, so the select becomes DISTINCT then,
// carrying the sort columns along since DISTINCT requires them in the select list.
func compilePrimary(
	e Engine,
	root *Entity,
	filters []criteria.ResolvedFilter,
	sorts []criteria.ResolvedSort,
	w window,
) (statement, error) {

	c := newCompiler(e, root)

	if err := c.applyFilters(filters); err != nil {
		return statement{}, err
	}

	if err := c.applySorts(sorts); err != nil {
		return statement{}, err
	}

	selection := c.root.selection()

	if c.toMany {
		selection = append(selection, c.sortCols...)
		c.ds = c.ds.Distinct()
	}

	c.ds = c.ds.Select(selection...)

	if w.limit > 0 {
		c.ds = c.ds.Limit(w.limit)
	}

	if w.offset > 0 {
		c.ds = c.ds.Offset(w.offset)
	}

	return c.toStatement(len(selection))
}

// compileFetch builds the warming query for one relationship path. It re-applies every filter, then joins
// the path in its own alias namespace so the loaded associations are never narrowed by a filter join.
// The rows carry the root key followed by the columns of every entity along the path.
func compileFetch(
	e Engine,
	root *Entity,
	filters []criteria.ResolvedFilter,
	path string,
	keys []any,
) (statement, []entityPath, error) {

	c := newCompiler(e, root)

	if err := c.applyFilters(filters); err != nil {
		return statement{}, nil, err
	}

	rootKey, err := c.root.keyCol()
	if err != nil {
		return statement{}, nil, err
	}

	if keys != nil {
		c.ds = c.ds.Where(rootKey.In(keys))
	}

	if _, joinErr := c.joinPath(path, innerJoin, fetchAliasPrefix, c.fetchJoins); joinErr != nil {
		return statement{}, nil, joinErr
	}

	segments := make([]entityPath, 0, len(c.fetchJoins))
	selection := []any{rootKey}
	orders := []exp.OrderedExpression{rootKey.Asc()}
	prefix := ""

	for _, segment := range strings.Split(path, ".") {
		if prefix != "" {
			prefix += "."
		}
		prefix += segment

		joined := c.fetchJoins[prefix]
		segments = append(segments, joined)
		selection = append(selection, joined.selection()...)

		key, keyErr := joined.keyCol()
		if keyErr != nil {
			return statement{}, nil, keyErr
		}

		orders = append(orders, key.Asc())
	}

	c.ds = c.ds.Select(selection...).Distinct().Order(orders...)

	stmt, err := c.toStatement(len(selection))
	if err != nil {
		return statement{}, nil, err
	}

	return stmt, segments, nil
}
