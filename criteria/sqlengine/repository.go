package sqlengine

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/query-criteria-go/criteria"
)

// Repository runs declarative queries for one entity. P is the parameter contract, T the entity type
// results are decoded into (*Record works as T as well).
//
// A Repository is immutable and safe for concurrent use; every Query call gets its own recorder,
// join cache and identity map.
type Repository[P criteria.Params, T any] struct {
	source    *source[T]
	newParams func() P
}

// RepositoryOption defines a functional option for configuring a Repository.
type RepositoryOption[T any] func(*source[T]) error

// WithDecoder replaces the JSONDecoder the Repository decodes records with.
func WithDecoder[T any](decoder Decoder[T]) RepositoryOption[T] {
	return func(s *source[T]) error {
		if decoder == nil {
			return fmt.Errorf("%w: nil decoder", criteria.ErrUnsupportedOperation)
		}

		s.decode = decoder

		return nil
	}
}

// NewRepository creates a Repository. Every registered field, sort and fetch path is checked against
// the entity right away, so a typo in a registration fails here and not on the first query.
func NewRepository[P criteria.Params, T any](
	engine Engine,
	entity *Entity,
	registry criteria.Registry,
	newParams func() P,
	options ...RepositoryOption[T],
) (Repository[P, T], error) {

	if entity == nil {
		return Repository[P, T]{}, ErrNilEntity
	}

	if newParams == nil {
		return Repository[P, T]{}, ErrNilParamsFactory
	}

	if err := validateRegistry(entity, registry); err != nil {
		return Repository[P, T]{}, err
	}

	s := &source[T]{
		engine:   engine,
		entity:   entity,
		registry: registry,
		decode:   JSONDecoder[T](),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return Repository[P, T]{}, err
		}
	}

	return Repository[P, T]{source: s, newParams: newParams}, nil
}

func validateRegistry(entity *Entity, registry criteria.Registry) error {
	errs := []error{entity.validate()}

	for _, filter := range registry.Filters() {
		if filter.IsCustom() {
			continue
		}

		errs = append(errs, entity.resolveField(filter.Field()))
	}

	for _, sort := range registry.Sorts() {
		errs = append(errs, entity.resolveField(sort.Field()))
	}

	for _, fetch := range registry.Fetches() {
		relations, err := entity.walk(fetch.Path())
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, relation := range relations {
			errs = append(errs, relation.target.validate())
		}
	}

	return errors.Join(errs...)
}

// Entity returns the entity the Repository queries.
func (r Repository[P, T]) Entity() *Entity {
	return r.source.entity
}

// Registry returns the criteria the Repository supports.
func (r Repository[P, T]) Registry() criteria.Registry {
	return r.source.registry
}

// NewParams returns a fresh parameter contract to record criteria on, for use with QueryWith.
func (r Repository[P, T]) NewParams() P {
	return r.newParams()
}

// Query declares a query: declare is called once with a fresh contract, and what it records is
// snapshotted as soon as it returns.
//
//	products, err := repo.Query(func(p *ProductParams) {
//		p.DescriptionLike("%phone%")
//		p.SortByPrice()
//	}).List(ctx)
func (r Repository[P, T]) Query(declare func(p P)) Query[T] {
	p := r.newParams()

	if declare != nil {
		declare(p)
	}

	return r.QueryWith(p)
}

// QueryWith declares a query from a contract the caller filled in, e.g. one built up across functions.
// Later changes to p do not affect the returned Query.
func (r Repository[P, T]) QueryWith(p P) Query[T] {
	values, err := criteria.ValuesOf(p)

	return Query[T]{
		source: r.source,
		values: values,
		err:    err,
	}
}
