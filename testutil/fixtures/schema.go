package fixtures

const schema = `
CREATE TABLE categories (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE products (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	price       REAL NOT NULL,
	category_id INTEGER REFERENCES categories (id)
);

CREATE TABLE orders (
	id     INTEGER PRIMARY KEY,
	status TEXT NOT NULL,
	note   TEXT
);

CREATE TABLE order_items (
	id         INTEGER PRIMARY KEY,
	order_id   INTEGER NOT NULL REFERENCES orders (id),
	product_id INTEGER NOT NULL REFERENCES products (id),
	quantity   INTEGER NOT NULL,
	unit_price REAL NOT NULL
);
`

// CategoryRow is a row of the categories table.
type CategoryRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// ProductRow is a row of the products table.
type ProductRow struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	CategoryID  int64   `db:"category_id"`
}

// OrderRow is a row of the orders table.
type OrderRow struct {
	ID     int64   `db:"id"`
	Status string  `db:"status"`
	Note   *string `db:"note"`
}

// OrderItemRow is a row of the order_items table.
type OrderItemRow struct {
	ID        int64   `db:"id"`
	OrderID   int64   `db:"order_id"`
	ProductID int64   `db:"product_id"`
	Quantity  int64   `db:"quantity"`
	UnitPrice float64 `db:"unit_price"`
}

var giftWrap = "gift wrap"

// Categories are the fixture categories.
var Categories = []CategoryRow{
	{ID: 1, Name: "Electronics"},
	{ID: 2, Name: "Accessories"},
	{ID: 3, Name: "Computers"},
}

// Products are the fixture products.
var Products = []ProductRow{
	{ID: 1, Name: "Laptop", Description: "High performance laptop", Price: 1200, CategoryID: 1},
	{ID: 2, Name: "Smartphone", Description: "Latest smartphone model", Price: 800, CategoryID: 1},
	{ID: 3, Name: "Headphones", Description: "Noise cancelling headphones", Price: 150, CategoryID: 2},
	{ID: 4, Name: "Monitor", Description: "4K monitor", Price: 300, CategoryID: 1},
	{ID: 5, Name: "Tablet", Description: "10 inch tablet", Price: 500, CategoryID: 3},
}

// Orders are the fixture orders. Only order 2 has a note, order 5 has no items.
var Orders = []OrderRow{
	{ID: 1, Status: "SHIPPED"},
	{ID: 2, Status: "PENDING", Note: &giftWrap},
	{ID: 3, Status: "COMPLETED"},
	{ID: 4, Status: "CANCELLED"},
	{ID: 5, Status: "DRAFT"},
}

// OrderItems are the fixture order items.
var OrderItems = []OrderItemRow{
	{ID: 1, OrderID: 1, ProductID: 1, Quantity: 1, UnitPrice: 1200},
	{ID: 2, OrderID: 1, ProductID: 3, Quantity: 2, UnitPrice: 150},
	{ID: 3, OrderID: 2, ProductID: 2, Quantity: 12, UnitPrice: 800},
	{ID: 4, OrderID: 3, ProductID: 4, Quantity: 2, UnitPrice: 300},
	{ID: 5, OrderID: 3, ProductID: 3, Quantity: 3, UnitPrice: 140},
	{ID: 6, OrderID: 3, ProductID: 2, Quantity: 1, UnitPrice: 800},
	{ID: 7, OrderID: 4, ProductID: 5, Quantity: 1, UnitPrice: 500},
}
