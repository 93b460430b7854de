package shop

import (
	"github.com/AntonStoeckl/query-criteria-go/criteria"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
)

// OrderRepository answers declarative order queries.
type OrderRepository = sqlengine.Repository[*OrderParams, Order]

var (
	orderStatus            = criteria.NewKey[string]("status")
	orderStatusIn          = criteria.NewKey[[]string]("status_in")
	orderNoteNull          = criteria.NewFlag("note_null")
	orderSortByID          = criteria.NewFlag("sortById")
	orderFetchItems        = criteria.NewFlag("fetchItems")
	orderFetchItemsProduct = criteria.NewFlag("fetchItemsProduct")
)

// OrderParams is the parameter contract for order queries.
type OrderParams struct {
	criteria.Recorder
}

func NewOrderParams() *OrderParams {
	return &OrderParams{}
}

func (p *OrderParams) Status(status string) { orderStatus.Set(p, status) }

func (p *OrderParams) StatusIn(statuses []string) { orderStatusIn.Set(p, statuses) }

// NoteNull matches orders without a note.
func (p *OrderParams) NoteNull() { orderNoteNull.Set(p) }

func (p *OrderParams) SortByID() { orderSortByID.Set(p) }

// FetchItems loads the items of every matched order.
func (p *OrderParams) FetchItems() { orderFetchItems.Set(p) }

// FetchItemsProduct loads the items together with their products.
func (p *OrderParams) FetchItemsProduct() { orderFetchItemsProduct.Set(p) }

// NewOrderRegistry returns the criteria OrderParams can record.
func NewOrderRegistry() criteria.Registry {
	return criteria.NewRegistryBuilder().
		Filter(orderStatus).
		Filter(orderStatusIn).
		Filter(orderNoteNull).
		Sort(orderSortByID).
		Fetch(orderFetchItems).
		Fetch(orderFetchItemsProduct, criteria.AlongPath("items.product")).
		MustBuild()
}

// NewOrderRepository creates an OrderRepository on top of engine.
func NewOrderRepository(engine sqlengine.Engine) (OrderRepository, error) {
	return sqlengine.NewRepository[*OrderParams, Order](
		engine,
		OrderEntity,
		NewOrderRegistry(),
		NewOrderParams,
	)
}
