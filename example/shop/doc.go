// Package shop is the example domain: categories, products, orders and their items, queried through
// declarative criteria.
//
// ProductParams and OrderParams are the parameter contracts. Each method records one criterion under
// a name that follows the naming convention (price_gt, sortByName, fetchItemsProduct, ...), and the
// registries map those names onto the entities in entities.go.
package shop
