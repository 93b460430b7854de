package shop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/query-criteria-go/example/shop"
)

func Test_OrderRepository_Filters_By_Status(t *testing.T) {
	// arrange
	repo := givenOrderRepository(t)

	// act
	orders, err := repo.Query(func(p *shop.OrderParams) {
		p.Status("PENDING")
	}).List(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2), orders[0].ID)
	require.NotNil(t, orders[0].Note)
	assert.Equal(t, "gift wrap", *orders[0].Note)
	assert.Empty(t, orders[0].Items, "items should only be loaded when fetched")
}

func Test_OrderRepository_Filters_By_Status_In(t *testing.T) {
	// arrange
	repo := givenOrderRepository(t)

	// act
	orders, err := repo.Query(func(p *shop.OrderParams) {
		p.StatusIn([]string{"SHIPPED", "COMPLETED"})
		p.SortByID()
	}).List(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, orderIDs(orders))
}

func Test_OrderRepository_Filters_Orders_Without_Note(t *testing.T) {
	// arrange
	repo := givenOrderRepository(t)

	// act
	orders, err := repo.Query(func(p *shop.OrderParams) {
		p.NoteNull()
		p.SortByID()
	}).List(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 5}, orderIDs(orders))
}

func Test_OrderRepository_Fetches_Items_And_Their_Products(t *testing.T) {
	// arrange
	repo := givenOrderRepository(t)

	// act
	orders, err := repo.Query(func(p *shop.OrderParams) {
		p.StatusIn([]string{"SHIPPED", "COMPLETED"})
		p.SortByID()
		p.FetchItems()
		p.FetchItemsProduct()
	}).List(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, []string{"Laptop", "Headphones"}, itemProductNames(t, orders[0]))
	assert.Equal(t, []string{"Monitor", "Headphones", "Smartphone"}, itemProductNames(t, orders[1]))
	assert.InDelta(t, 1500.0, orderTotal(orders[0]), 0.001)
	assert.InDelta(t, 1820.0, orderTotal(orders[1]), 0.001)
}

func Test_OrderRepository_Fetches_Items_Without_Products(t *testing.T) {
	// arrange
	repo := givenOrderRepository(t)

	// act
	order, found, err := repo.Query(func(p *shop.OrderParams) {
		p.Status("PENDING")
		p.FetchItems()
	}).Get(context.Background())

	// assert
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 12, order.Items[0].Quantity)
	assert.Nil(t, order.Items[0].Product)
}

func Test_OrderRepository_Fetch_Keeps_Orders_Without_Items(t *testing.T) {
	// arrange
	repo := givenOrderRepository(t)

	// act
	order, found, err := repo.Query(func(p *shop.OrderParams) {
		p.Status("DRAFT")
		p.FetchItems()
	}).Get(context.Background())

	// assert
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(5), order.ID)
	assert.Empty(t, order.Items)
}

/***** Helpers *****/

func givenOrderRepository(t *testing.T) shop.OrderRepository {
	t.Helper()

	repo, err := shop.NewOrderRepository(givenEngine(t))
	require.NoError(t, err, "error in arranging test data")

	return repo
}

func orderIDs(orders []shop.Order) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	return ids
}

func itemProductNames(t *testing.T, order shop.Order) []string {
	t.Helper()

	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		require.NotNil(t, item.Product, "product of item %d should be loaded", item.ID)
		names = append(names, item.Product.Name)
	}

	return names
}

func orderTotal(order shop.Order) float64 {
	var total float64
	for _, item := range order.Items {
		total += item.Total()
	}

	return total
}
