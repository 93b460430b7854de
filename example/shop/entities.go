package shop

import (
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
)

/***** Mapped entities *****/

var CategoryEntity = sqlengine.NewEntity("category", "categories").
	Field("id", "id").
	Field("name", "name")

var ProductEntity = sqlengine.NewEntity("product", "products").
	Field("id", "id").
	Field("name", "name").
	Field("description", "description").
	Field("price", "price").
	HasOne("category", CategoryEntity, "category_id")

var OrderItemEntity = sqlengine.NewEntity("orderItem", "order_items").
	Field("id", "id").
	Field("quantity", "quantity").
	Field("unitPrice", "unit_price").
	HasOne("product", ProductEntity, "product_id")

var OrderEntity = sqlengine.NewEntity("order", "orders").
	Field("id", "id").
	Field("status", "status").
	Field("note", "note").
	HasMany("items", OrderItemEntity, "order_id")

func init() {
	// items point back at their order; declared here because the two entities reference each other
	OrderItemEntity.HasOne("order", OrderEntity, "order_id")
}

/***** Decoded types *****/

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    *Category `json:"category,omitempty"`
}

type OrderItem struct {
	ID        int64    `json:"id"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
	Product   *Product `json:"product,omitempty"`
}

// Total is quantity times unit price.
func (i OrderItem) Total() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type Order struct {
	ID     int64       `json:"id"`
	Status string      `json:"status"`
	Note   *string     `json:"note"`
	Items  []OrderItem `json:"items,omitempty"`
}
