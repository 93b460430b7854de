package shop

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
)

// ProductRepository answers declarative product queries.
type ProductRepository = sqlengine.Repository[*ProductParams, Product]

var (
	productID                    = criteria.NewKey[int64]("id")
	productDescriptionLike       = criteria.NewKey[string]("description_like")
	productCategoryName          = criteria.NewKey[string]("categoryName")
	productPriceGt               = criteria.NewKey[float64]("price_gt")
	productOrderMinimumQuantity  = criteria.NewKey[int]("orderMinimumQuantity_exists")
	productOrderQuantityAndPrice = criteria.NewKey2[int, float64]("orderQuantityAndUnitPrice_exists")
	productSortByID              = criteria.NewFlag("sortById")
	productSortByName            = criteria.NewKey[criteria.SortOrder]("sortByName")
	productSortByPrice           = criteria.NewFlag("sortByPrice")
	productSortByPriceDesc       = criteria.NewFlag("sortByPrice_desc")
	productFetchCategory         = criteria.NewFlag("fetchCategory")
)

// ProductParams is the parameter contract for product queries.
type ProductParams struct {
	criteria.Recorder
}

func NewProductParams() *ProductParams {
	return &ProductParams{}
}

func (p *ProductParams) ID(id int64) { productID.Set(p, id) }

// DescriptionLike takes a LIKE pattern, wildcards included.
func (p *ProductParams) DescriptionLike(pattern string) { productDescriptionLike.Set(p, pattern) }

func (p *ProductParams) CategoryName(name string) { productCategoryName.Set(p, name) }

func (p *ProductParams) PriceGt(price float64) { productPriceGt.Set(p, price) }

// OrderMinimumQuantityExists matches products that were ordered at least once with a quantity of minimum or more.
func (p *ProductParams) OrderMinimumQuantityExists(minimum int) {
	productOrderMinimumQuantity.Set(p, minimum)
}

// OrderQuantityAndUnitPriceExists matches products that have an order item with exactly this quantity and unit price.
func (p *ProductParams) OrderQuantityAndUnitPriceExists(quantity int, unitPrice float64) {
	productOrderQuantityAndPrice.Set(p, quantity, unitPrice)
}

func (p *ProductParams) SortByID() { productSortByID.Set(p) }

func (p *ProductParams) SortByName(order criteria.SortOrder) { productSortByName.Set(p, order) }

func (p *ProductParams) SortByPrice() { productSortByPrice.Set(p) }

func (p *ProductParams) SortByPriceDesc() { productSortByPriceDesc.Set(p) }

func (p *ProductParams) FetchCategory() { productFetchCategory.Set(p) }

// NewProductRegistry returns the criteria ProductParams can record.
func NewProductRegistry() criteria.Registry {
	builder := criteria.NewRegistryBuilder().
		Filter(productID).
		Filter(productDescriptionLike).
		Filter(productCategoryName, criteria.OnField("category.name")).
		Filter(productPriceGt).
		Sort(productSortByID).
		SortSelectable(productSortByName).
		Sort(productSortByPrice).
		Sort(productSortByPriceDesc).
		Fetch(productFetchCategory)

	builder = criteria.FilterFunc(builder, productOrderMinimumQuantity, orderMinimumQuantityExists)
	builder = criteria.FilterFunc2(builder, productOrderQuantityAndPrice, orderQuantityAndUnitPriceExists)

	return builder.MustBuild()
}

// NewProductRepository creates a ProductRepository on top of engine.
func NewProductRepository(engine sqlengine.Engine) (ProductRepository, error) {
	return sqlengine.NewRepository[*ProductParams, Product](
		engine,
		ProductEntity,
		NewProductRegistry(),
		NewProductParams,
	)
}

/***** Subquery predicates *****/

const orderItemsAlias = "oi"

func orderItemsFor(qc criteria.QueryContext, conditions ...exp.Expression) exp.Expression {
	items := goqu.T(orderItemsAlias)

	where := append([]exp.Expression{items.Col("product_id").Eq(qc.Root().Col("id"))}, conditions...)

	sub := qc.Dialect().
		From(goqu.T(OrderItemEntity.Table()).As(orderItemsAlias)).
		Select(goqu.L("1")).
		Where(where...)

	return goqu.L("EXISTS ?", sub)
}

func orderMinimumQuantityExists(qc criteria.QueryContext, minimum int) (exp.Expression, error) {
	items := goqu.T(orderItemsAlias)

	return orderItemsFor(qc, items.Col("quantity").Gte(minimum)), nil
}

func orderQuantityAndUnitPriceExists(qc criteria.QueryContext, quantity int, unitPrice float64) (exp.Expression, error) {
	items := goqu.T(orderItemsAlias)

	return orderItemsFor(qc,
		items.Col("quantity").Eq(quantity),
		items.Col("unit_price").Eq(unitPrice),
	), nil
}
