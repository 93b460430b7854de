// Package criteria provides the declaration side of declarative repository queries:
// typed criteria keys, the Recorder that parameter contracts embed, the naming convention
// that derives fields and operations from criteria names, and the immutable Registry
// a repository builds once.
//
// A parameter contract is a struct embedding Recorder, with one method per supported criterion:
//
//	var (
//		productPriceGt    = criteria.NewKey[float64]("price_gt")
//		productSortByName = criteria.NewKey[criteria.SortOrder]("sortByName")
//		productFetchCat   = criteria.NewFlag("fetchCategory")
//	)
//
//	type ProductParams struct {
//		criteria.Recorder
//	}
//
//	func (p *ProductParams) PriceGt(price float64)            { productPriceGt.Set(p, price) }
//	func (p *ProductParams) SortByName(o criteria.SortOrder)  { productSortByName.Set(p, o) }
//	func (p *ProductParams) FetchCategory()                   { productFetchCat.Set(p) }
//
// The same keys register the criteria, so no name is spelled twice:
//
//	registry, err := criteria.NewRegistryBuilder().
//		Filter(productPriceGt).
//		SortSelectable(productSortByName).
//		Fetch(productFetchCat).
//		Build()
//
// Naming convention:
//   - filters: "<field>_<suffix>" with suffix one of eq gt ge lt le ne like notLike in notIn null notNull,
//     no (known) suffix means equality on the whole name
//   - sorts: "sortBy<Field>[_asc|_desc]"
//   - fetches: "fetch<Relationship>"
//
// A field literally ending in a known suffix (e.g. "x_in") cannot be expressed through the name alone;
// register it with OnField and WithOperation instead.
//
// Executing the declared criteria against a database is the job of package sqlengine.
package criteria
