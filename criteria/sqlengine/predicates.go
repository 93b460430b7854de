package sqlengine

import (
	"fmt"
	"reflect"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

const (
	sqlFalse = "1 = 0"
	sqlTrue  = "1 = 1"
)

// predicate builds the condition of a built-in Operation on col.
// Pointers are dereferenced; a nil value turns Equals into IS NULL and NotEquals into IS NOT NULL.
func predicate(col exp.IdentifierExpression, op criteria.Operation, value any) (exp.Expression, error) {
	value, isNil := dereference(value)

	switch op {
	case criteria.IsNull:
		return col.IsNull(), nil

	case criteria.NotNull:
		return col.IsNotNull(), nil

	case criteria.Equals:
		if isNil {
			return col.IsNull(), nil
		}

		return col.Eq(value), nil

	case criteria.NotEquals:
		if isNil {
			return col.IsNotNull(), nil
		}

		return col.Neq(value), nil

	case criteria.Greater, criteria.GreaterEqual, criteria.Less, criteria.LessEqual:
		if isNil {
			return nil, fmt.Errorf("%w: %s needs a value, got nil", criteria.ErrInvalidCriteriaValue, op)
		}

		return comparison(col, op, value), nil

	case criteria.Like, criteria.NotLike:
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a string, got %T", criteria.ErrInvalidCriteriaValue, op, value)
		}

		if op == criteria.NotLike {
			return col.NotLike(pattern), nil
		}

		return col.Like(pattern), nil

	case criteria.Contains, criteria.NotContains:
		return membership(col, op, value, isNil)

	default:
		return nil, fmt.Errorf("%w: operation %d", criteria.ErrUnsupportedOperation, int(op))
	}
}

func comparison(col exp.IdentifierExpression, op criteria.Operation, value any) exp.Expression {
	switch op {
	case criteria.Greater:
		return col.Gt(value)
	case criteria.GreaterEqual:
		return col.Gte(value)
	case criteria.Less:
		return col.Lt(value)
	default:
		return col.Lte(value)
	}
}

// membership builds IN / NOT IN. An empty collection matches nothing for IN and everything for NOT IN.
// A single non-collection value is treated as a one-element collection.
func membership(col exp.IdentifierExpression, op criteria.Operation, value any, isNil bool) (exp.Expression, error) {
	var values []any

	if !isNil {
		values = listValues(value)
	}

	if len(values) == 0 {
		if op == criteria.NotContains {
			return goqu.L(sqlTrue), nil
		}

		return goqu.L(sqlFalse), nil
	}

	if op == criteria.NotContains {
		return col.NotIn(values), nil
	}

	return col.In(values), nil
}

func listValues(value any) []any {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{value}
		}

		values := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			element, isNil := dereference(rv.Index(i).Interface())
			if isNil {
				continue
			}

			values = append(values, element)
		}

		return values

	default:
		return []any{value}
	}
}

func dereference(value any) (any, bool) {
	if value == nil {
		return nil, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Pointer {
		return value, false
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, true
		}

		rv = rv.Elem()
	}

	return rv.Interface(), false
}
