package shop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
	"github.com/AntonStoeckl/query-criteria-go/example/shop"
	"github.com/AntonStoeckl/query-criteria-go/testutil/fixtures"
)

func Test_ProductRepository_Get_By_ID(t *testing.T) {
	// arrange
	repo := givenProductRepository(t)

	// act
	product, found, err := repo.Query(func(p *shop.ProductParams) {
		p.ID(1)
	}).Get(context.Background())

	// assert
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Laptop", product.Name)
	assert.Nil(t, product.Category, "category should only be loaded when fetched")
}

func Test_ProductRepository_Get_Without_Match(t *testing.T) {
	// arrange
	repo := givenProductRepository(t)

	// act
	_, found, err := repo.Query(func(p *shop.ProductParams) {
		p.ID(99)
	}).Get(context.Background())

	// assert
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_ProductRepository_List(t *testing.T) {
	testCases := []struct {
		name          string
		declare       func(p *shop.ProductParams)
		expectedNames []string
	}{
		{
			name:          "description like",
			declare:       func(p *shop.ProductParams) { p.DescriptionLike("%phone%") },
			expectedNames: []string{"Smartphone", "Headphones"},
		},
		{
			name:          "price greater than",
			declare:       func(p *shop.ProductParams) { p.PriceGt(700) },
			expectedNames: []string{"Laptop", "Smartphone"},
		},
		{
			name: "multiple filters",
			declare: func(p *shop.ProductParams) {
				p.DescriptionLike("%phone%")
				p.PriceGt(700)
			},
			expectedNames: []string{"Smartphone"},
		},
		{
			name:          "order with minimum quantity exists",
			declare:       func(p *shop.ProductParams) { p.OrderMinimumQuantityExists(12) },
			expectedNames: []string{"Smartphone"},
		},
		{
			name:          "order with quantity and unit price exists",
			declare:       func(p *shop.ProductParams) { p.OrderQuantityAndUnitPriceExists(3, 140) },
			expectedNames: []string{"Headphones"},
		},
		{
			name: "filter on joined category",
			declare: func(p *shop.ProductParams) {
				p.CategoryName("Electronics")
				p.SortByID()
			},
			expectedNames: []string{"Laptop", "Smartphone", "Monitor"},
		},
		{
			name:          "sort by name ascending",
			declare:       func(p *shop.ProductParams) { p.SortByName(criteria.Asc) },
			expectedNames: []string{"Headphones", "Laptop", "Monitor", "Smartphone", "Tablet"},
		},
		{
			name:          "sort by name descending",
			declare:       func(p *shop.ProductParams) { p.SortByName(criteria.Desc) },
			expectedNames: []string{"Tablet", "Smartphone", "Monitor", "Laptop", "Headphones"},
		},
		{
			name:          "sort by price descending",
			declare:       func(p *shop.ProductParams) { p.SortByPriceDesc() },
			expectedNames: []string{"Laptop", "Smartphone", "Tablet", "Monitor", "Headphones"},
		},
		{
			name: "sort by price with filter",
			declare: func(p *shop.ProductParams) {
				p.DescriptionLike("%phone%")
				p.SortByPrice()
			},
			expectedNames: []string{"Headphones", "Smartphone"},
		},
		{
			name:          "no match",
			declare:       func(p *shop.ProductParams) { p.CategoryName("Garden") },
			expectedNames: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			repo := givenProductRepository(t)

			// act
			products, err := repo.Query(tc.declare).List(context.Background())

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expectedNames, productNames(products))
		})
	}
}

func Test_ProductRepository_Fetches_The_Category(t *testing.T) {
	// arrange
	repo := givenProductRepository(t)

	// act
	products, err := repo.Query(func(p *shop.ProductParams) {
		p.PriceGt(400)
		p.SortByID()
		p.FetchCategory()
	}).List(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, products, 3)

	for _, product := range products {
		require.NotNil(t, product.Category, "category of %s should be loaded", product.Name)
	}

	assert.Equal(t, "Electronics", products[0].Category.Name)
	assert.Equal(t, "Electronics", products[1].Category.Name)
	assert.Equal(t, "Computers", products[2].Category.Name)
}

func Test_ProductRepository_Pages_Sorted_Results(t *testing.T) {
	// arrange
	repo := givenProductRepository(t)
	query := repo.Query(func(p *shop.ProductParams) {
		p.SortByName(criteria.Asc)
	})

	// act
	first, firstErr := query.Page(2, 0).List(context.Background())
	second, secondErr := query.Page(2, 2).List(context.Background())

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, []string{"Headphones", "Laptop"}, productNames(first))
	assert.Equal(t, []string{"Monitor", "Smartphone"}, productNames(second))
}

func Test_ProductRepository_QueryWith_A_Prepared_Contract(t *testing.T) {
	// arrange
	repo := givenProductRepository(t)
	params := repo.NewParams()
	params.PriceGt(700)
	params.SortByPriceDesc()

	// act
	products, err := repo.QueryWith(params).List(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Smartphone"}, productNames(products))
}

/***** Helpers *****/

func givenEngine(t *testing.T) sqlengine.Engine {
	t.Helper()

	engine, err := sqlengine.NewEngineFromSQLX(fixtures.NewSQLiteDB(t))
	require.NoError(t, err, "error in arranging test data")

	return engine
}

func givenProductRepository(t *testing.T) shop.ProductRepository {
	t.Helper()

	repo, err := shop.NewProductRepository(givenEngine(t))
	require.NoError(t, err, "error in arranging test data")

	return repo
}

func productNames(products []shop.Product) []string {
	names := make([]string, 0, len(products))
	for _, product := range products {
		names = append(names, product.Name)
	}

	return names
}
