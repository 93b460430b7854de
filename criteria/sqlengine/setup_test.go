package sqlengine_test

import (
	"log/slog"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
	"github.com/AntonStoeckl/query-criteria-go/testutil/fixtures"
	"github.com/AntonStoeckl/query-criteria-go/testutil/helper"
)

/***** Entities over the fixture schema *****/

var categoryEntity = sqlengine.NewEntity("category", "categories").
	Field("id", "id").
	Field("name", "name")

var productEntity = sqlengine.NewEntity("product", "products").
	Field("id", "id").
	Field("name", "name").
	Field("description", "description").
	Field("price", "price").
	HasOne("category", categoryEntity, "category_id")

var orderItemEntity = sqlengine.NewEntity("orderItem", "order_items").
	Field("id", "id").
	Field("quantity", "quantity").
	Field("unitPrice", "unit_price").
	HasOne("product", productEntity, "product_id")

var orderEntity = sqlengine.NewEntity("order", "orders").
	Field("id", "id").
	Field("status", "status").
	Field("note", "note").
	HasMany("items", orderItemEntity, "order_id")

func init() {
	orderItemEntity.HasOne("order", orderEntity, "order_id")
}

/***** Decoded types *****/

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    *category `json:"category,omitempty"`
}

type orderItem struct {
	ID        int64    `json:"id"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
	Product   *product `json:"product,omitempty"`
}

type order struct {
	ID     int64       `json:"id"`
	Status string      `json:"status"`
	Note   *string     `json:"note"`
	Items  []orderItem `json:"items"`
}

/***** Product criteria *****/

var (
	productID                 = criteria.NewKey[int64]("id")
	productNameIn             = criteria.NewKey[[]string]("name_in")
	productDescriptionLike    = criteria.NewKey[string]("description_like")
	productPriceGt            = criteria.NewKey[float64]("price_gt")
	productPriceLe            = criteria.NewKey[*float64]("price_le")
	productCategoryName       = criteria.NewKey[string]("categoryName")
	productOrderMinimumQty    = criteria.NewKey[int]("orderMinimumQuantity_exists")
	productQuantityAndPrice   = criteria.NewKey2[int, float64]("orderQuantityAndUnitPrice_exists")
	productColor              = criteria.NewKey[string]("color")
	productSortByID           = criteria.NewFlag("sortById")
	productSortByName         = criteria.NewKey[criteria.SortOrder]("sortByName")
	productSortByPriceDesc    = criteria.NewFlag("sortByPrice_desc")
	productSortByCategoryName = criteria.NewFlag("sortByCategoryName")
	productFetchCategory      = criteria.NewFlag("fetchCategory")
)

type productParams struct {
	criteria.Recorder
}

func newProductParams() *productParams {
	return &productParams{}
}

func (p *productParams) ID(id int64) { productID.Set(p, id) }

func (p *productParams) NameIn(names []string) { productNameIn.Set(p, names) }

func (p *productParams) DescriptionLike(pattern string) { productDescriptionLike.Set(p, pattern) }

func (p *productParams) PriceGt(price float64) { productPriceGt.Set(p, price) }

func (p *productParams) PriceLe(price *float64) { productPriceLe.Set(p, price) }

func (p *productParams) CategoryName(name string) { productCategoryName.Set(p, name) }

func (p *productParams) OrderMinimumQuantity(minimum int) { productOrderMinimumQty.Set(p, minimum) }

func (p *productParams) OrderQuantityAndUnitPrice(quantity int, unitPrice float64) {
	productQuantityAndPrice.Set(p, quantity, unitPrice)
}

func (p *productParams) Color(color string) { productColor.Set(p, color) }

func (p *productParams) SortByID() { productSortByID.Set(p) }

func (p *productParams) SortByName(order criteria.SortOrder) { productSortByName.Set(p, order) }

func (p *productParams) SortByPriceDesc() { productSortByPriceDesc.Set(p) }

func (p *productParams) SortByCategoryName() { productSortByCategoryName.Set(p) }

func (p *productParams) FetchCategory() { productFetchCategory.Set(p) }

func orderMinimumQuantityExists(qc criteria.QueryContext, minimum int) (exp.Expression, error) {
	items := goqu.T("oi")

	sub := qc.Dialect().
		From(goqu.T("order_items").As("oi")).
		Select(goqu.L("1")).
		Where(
			items.Col("product_id").Eq(qc.Root().Col("id")),
			items.Col("quantity").Gte(minimum),
		)

	return goqu.L("EXISTS ?", sub), nil
}

func orderQuantityAndUnitPriceExists(qc criteria.QueryContext, quantity int, unitPrice float64) (exp.Expression, error) {
	items := goqu.T("oi")

	sub := qc.Dialect().
		From(goqu.T("order_items").As("oi")).
		Select(goqu.L("1")).
		Where(
			items.Col("product_id").Eq(qc.Root().Col("id")),
			items.Col("quantity").Eq(quantity),
			items.Col("unit_price").Eq(unitPrice),
		)

	return goqu.L("EXISTS ?", sub), nil
}

func newProductRegistry() criteria.Registry {
	builder := criteria.NewRegistryBuilder().
		Filter(productID).
		Filter(productNameIn).
		Filter(productDescriptionLike).
		Filter(productPriceGt).
		Filter(productPriceLe).
		Filter(productCategoryName, criteria.OnField("category.name")).
		Sort(productSortByID).
		SortSelectable(productSortByName).
		Sort(productSortByPriceDesc).
		Sort(productSortByCategoryName, criteria.ByField("category.name")).
		Fetch(productFetchCategory)

	builder = criteria.FilterFunc(builder, productOrderMinimumQty, orderMinimumQuantityExists)
	builder = criteria.FilterFunc2(builder, productQuantityAndPrice, orderQuantityAndUnitPriceExists)

	return builder.MustBuild()
}

/***** Order criteria *****/

var (
	orderStatus            = criteria.NewKey[string]("status")
	orderStatusIn          = criteria.NewKey[[]string]("status_in")
	orderStatusNotIn       = criteria.NewKey[[]string]("status_notIn")
	orderNote              = criteria.NewKey[*string]("note")
	orderNoteNull          = criteria.NewFlag("note_null")
	orderItemsQuantityGe   = criteria.NewKey[int]("itemsQuantity_ge")
	orderItemsProductName  = criteria.NewKey[string]("itemsProductName")
	orderSortByID          = criteria.NewFlag("sortById")
	orderFetchItems        = criteria.NewFlag("fetchItems")
	orderFetchItemsProduct = criteria.NewFlag("fetchItemsProduct")
	orderFetchItemsOrder   = criteria.NewFlag("fetchItemsOrder")
)

type orderParams struct {
	criteria.Recorder
}

func newOrderParams() *orderParams {
	return &orderParams{}
}

func (p *orderParams) Status(status string) { orderStatus.Set(p, status) }

func (p *orderParams) StatusIn(statuses []string) { orderStatusIn.Set(p, statuses) }

func (p *orderParams) StatusNotIn(statuses []string) { orderStatusNotIn.Set(p, statuses) }

func (p *orderParams) Note(note *string) { orderNote.Set(p, note) }

func (p *orderParams) NoteNull() { orderNoteNull.Set(p) }

func (p *orderParams) ItemsQuantityGe(quantity int) { orderItemsQuantityGe.Set(p, quantity) }

func (p *orderParams) ItemsProductName(name string) { orderItemsProductName.Set(p, name) }

func (p *orderParams) SortByID() { orderSortByID.Set(p) }

func (p *orderParams) FetchItems() { orderFetchItems.Set(p) }

func (p *orderParams) FetchItemsProduct() { orderFetchItemsProduct.Set(p) }

func (p *orderParams) FetchItemsOrder() { orderFetchItemsOrder.Set(p) }

func newOrderRegistry() criteria.Registry {
	return criteria.NewRegistryBuilder().
		Filter(orderStatus).
		Filter(orderStatusIn).
		Filter(orderStatusNotIn).
		Filter(orderNote).
		Filter(orderNoteNull).
		Filter(orderItemsQuantityGe, criteria.OnField("items.quantity")).
		Filter(orderItemsProductName, criteria.OnField("items.product.name")).
		Sort(orderSortByID).
		Fetch(orderFetchItems).
		Fetch(orderFetchItemsProduct, criteria.AlongPath("items.product")).
		Fetch(orderFetchItemsOrder, criteria.AlongPath("items.order")).
		MustBuild()
}

/***** Arrangement helpers *****/

func givenSQLiteEngine(t *testing.T, options ...sqlengine.Option) sqlengine.Engine {
	t.Helper()

	engine, err := sqlengine.NewEngineFromSQLX(fixtures.NewSQLiteDB(t), options...)
	require.NoError(t, err, "error in arranging test data")

	return engine
}

// givenPostgresDialectEngine renders postgres SQL; it is only used for statements that are never run.
func givenPostgresDialectEngine(t *testing.T, options ...sqlengine.Option) sqlengine.Engine {
	t.Helper()

	options = append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectPostgres)}, options...)

	return givenSQLiteEngine(t, options...)
}

func givenProductRepository(
	t *testing.T,
	engine sqlengine.Engine,
) sqlengine.Repository[*productParams, product] {

	t.Helper()

	repo, err := sqlengine.NewRepository[*productParams, product](
		engine, productEntity, newProductRegistry(), newProductParams,
	)
	require.NoError(t, err, "error in arranging test data")

	return repo
}

func givenOrderRepository(
	t *testing.T,
	engine sqlengine.Engine,
) sqlengine.Repository[*orderParams, order] {

	t.Helper()

	repo, err := sqlengine.NewRepository[*orderParams, order](
		engine, orderEntity, newOrderRegistry(), newOrderParams,
	)
	require.NoError(t, err, "error in arranging test data")

	return repo
}

func givenOrderRecordRepository(
	t *testing.T,
	engine sqlengine.Engine,
) sqlengine.Repository[*orderParams, *sqlengine.Record] {

	t.Helper()

	repo, err := sqlengine.NewRepository[*orderParams, *sqlengine.Record](
		engine, orderEntity, newOrderRegistry(), newOrderParams,
	)
	require.NoError(t, err, "error in arranging test data")

	return repo
}

func givenLoggingEngine(t *testing.T) (sqlengine.Engine, *helper.TestLogHandler) {
	t.Helper()

	handler := helper.NewTestLogHandler(false)
	engine := givenSQLiteEngine(t, sqlengine.WithLogger(slog.New(handler)))

	return engine, handler
}

func productNames(products []product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}

	return names
}

func orderIDs(orders []order) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	return ids
}

func itemIDs(items []orderItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	return ids
}
