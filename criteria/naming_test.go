package criteria_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

func Test_ParseFilterName_KnownSuffixes(t *testing.T) {
	tests := []struct {
		name          string
		expectedField string
		expectedOp    criteria.Operation
	}{
		{name: "price_eq", expectedField: "price", expectedOp: criteria.Equals},
		{name: "price_gt", expectedField: "price", expectedOp: criteria.Greater},
		{name: "price_ge", expectedField: "price", expectedOp: criteria.GreaterEqual},
		{name: "price_lt", expectedField: "price", expectedOp: criteria.Less},
		{name: "price_le", expectedField: "price", expectedOp: criteria.LessEqual},
		{name: "status_ne", expectedField: "status", expectedOp: criteria.NotEquals},
		{name: "description_like", expectedField: "description", expectedOp: criteria.Like},
		{name: "description_notLike", expectedField: "description", expectedOp: criteria.NotLike},
		{name: "status_in", expectedField: "status", expectedOp: criteria.Contains},
		{name: "status_notIn", expectedField: "status", expectedOp: criteria.NotContains},
		{name: "deletedAt_null", expectedField: "deletedAt", expectedOp: criteria.IsNull},
		{name: "deletedAt_notNull", expectedField: "deletedAt", expectedOp: criteria.NotNull},
		{name: "created_at_gt", expectedField: "created_at", expectedOp: criteria.Greater},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			field, op := criteria.ParseFilterName(tc.name)

			// assert
			assert.Equal(t, tc.expectedField, field)
			assert.Equal(t, tc.expectedOp, op)
		})
	}
}

func Test_ParseFilterName_WithoutKnownSuffix_DefaultsToEquals(t *testing.T) {
	for _, name := range []string{"id", "categoryName", "created_at", "_in", "price_between", "trailing_"} {
		t.Run(name, func(t *testing.T) {
			// act
			field, op := criteria.ParseFilterName(name)

			// assert
			assert.Equal(t, name, field)
			assert.Equal(t, criteria.Equals, op)
		})
	}
}

func Test_ParseFilterName_SuffixesAreCaseSensitive(t *testing.T) {
	// act
	field, op := criteria.ParseFilterName("description_notlike")

	// assert
	assert.Equal(t, "description_notlike", field)
	assert.Equal(t, criteria.Equals, op)
}

func Test_Operation_SuffixRoundTrip(t *testing.T) {
	ops := []criteria.Operation{
		criteria.Equals, criteria.Greater, criteria.GreaterEqual, criteria.Less, criteria.LessEqual,
		criteria.NotEquals, criteria.Like, criteria.NotLike, criteria.Contains, criteria.NotContains,
		criteria.IsNull, criteria.NotNull,
	}

	for _, op := range ops {
		resolved, ok := criteria.OperationFromSuffix(op.Suffix())

		assert.True(t, ok, op.String())
		assert.Equal(t, op, resolved)
	}

	_, ok := criteria.OperationFromSuffix("between")
	assert.False(t, ok)
}

func Test_ParseSortName(t *testing.T) {
	tests := []struct {
		name          string
		expectedField string
		expectedOrder criteria.SortOrder
	}{
		{name: "sortById", expectedField: "id", expectedOrder: criteria.Asc},
		{name: "sortByName", expectedField: "name", expectedOrder: criteria.Asc},
		{name: "sortByPrice_asc", expectedField: "price", expectedOrder: criteria.Asc},
		{name: "sortByPrice_desc", expectedField: "price", expectedOrder: criteria.Desc},
		{name: "sortByUnitPrice", expectedField: "unitPrice", expectedOrder: criteria.Asc},
		{name: "sortByCreated_at", expectedField: "created_at", expectedOrder: criteria.Asc},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			field, order, err := criteria.ParseSortName(tc.name)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedField, field)
			assert.Equal(t, tc.expectedOrder, order)
		})
	}
}

func Test_ParseSortName_ShouldFail_WithoutPrefix(t *testing.T) {
	for _, name := range []string{"name", "orderByName", "sortName", "SortByName", "sortBy"} {
		t.Run(name, func(t *testing.T) {
			// act
			_, _, err := criteria.ParseSortName(name)

			// assert
			assert.ErrorIs(t, err, criteria.ErrNamingConvention)
		})
	}
}

func Test_ParseFetchName(t *testing.T) {
	tests := []struct {
		name         string
		expectedPath string
	}{
		{name: "fetchItems", expectedPath: "items"},
		{name: "fetchCategory", expectedPath: "category"},
		{name: "fetchItemsProduct", expectedPath: "itemsProduct"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			path, err := criteria.ParseFetchName(tc.name)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedPath, path)
		})
	}
}

func Test_ParseFetchName_ShouldFail_WithoutPrefix(t *testing.T) {
	for _, name := range []string{"items", "loadItems", "FetchItems", "fetch"} {
		t.Run(name, func(t *testing.T) {
			// act
			_, err := criteria.ParseFetchName(name)

			// assert
			assert.ErrorIs(t, err, criteria.ErrNamingConvention)
		})
	}
}
