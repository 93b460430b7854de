package criteria

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/doug-martin/goqu/v9/exp"
)

/***** Entries *****/

// FilterEntry associates a criteria name with a field and an Operation, or with a custom predicate.
type FilterEntry struct {
	name      CriteriaNameString
	field     FieldPathString
	operation Operation
	custom    CustomPredicate
}

// Name returns the criteria name.
func (fe FilterEntry) Name() CriteriaNameString {
	return fe.name
}

// Field returns the (possibly dotted) field path. For custom entries, it is the criteria name.
func (fe FilterEntry) Field() FieldPathString {
	return fe.field
}

// Operation returns the comparison. Only meaningful when IsCustom is false.
func (fe FilterEntry) Operation() Operation {
	return fe.operation
}

// Custom returns the custom predicate, or nil.
func (fe FilterEntry) Custom() CustomPredicate {
	return fe.custom
}

// IsCustom reports whether the entry carries a custom predicate instead of an Operation.
func (fe FilterEntry) IsCustom() bool {
	return fe.custom != nil
}

// FetchEntry associates a criteria name with a dotted relationship path to load eagerly.
type FetchEntry struct {
	name CriteriaNameString
	path FieldPathString
}

func (fe FetchEntry) Name() CriteriaNameString {
	return fe.name
}

func (fe FetchEntry) Path() FieldPathString {
	return fe.path
}

// SortEntry associates a criteria name with a field and its default direction.
type SortEntry struct {
	name       CriteriaNameString
	field      FieldPathString
	order      SortOrder
	selectable bool
}

func (se SortEntry) Name() CriteriaNameString {
	return se.name
}

func (se SortEntry) Field() FieldPathString {
	return se.field
}

// Order returns the default direction.
func (se SortEntry) Order() SortOrder {
	return se.order
}

// Selectable reports whether the direction is supplied as the captured value at query time.
func (se SortEntry) Selectable() bool {
	return se.selectable
}

// OrderFor returns the direction to use for a captured value: a captured SortOrder wins over the default.
func (se SortEntry) OrderFor(captured any) SortOrder {
	if order, ok := captured.(SortOrder); ok {
		return order
	}

	return se.order
}

/***** Registry *****/

// Registry is the immutable table of filters, fetches and sorts a repository supports.
// It is safe for concurrent use.
type Registry struct {
	filters    map[CriteriaNameString]FilterEntry
	fetches    map[CriteriaNameString]FetchEntry
	sorts      map[CriteriaNameString]SortEntry
	filterKeys []CriteriaNameString
	fetchKeys  []CriteriaNameString
	sortKeys   []CriteriaNameString
}

// Filter looks up a filter entry.
func (r Registry) Filter(name CriteriaNameString) (FilterEntry, bool) {
	entry, ok := r.filters[name]
	return entry, ok
}

// Fetch looks up a fetch entry.
func (r Registry) Fetch(name CriteriaNameString) (FetchEntry, bool) {
	entry, ok := r.fetches[name]
	return entry, ok
}

// Sort looks up a sort entry.
func (r Registry) Sort(name CriteriaNameString) (SortEntry, bool) {
	entry, ok := r.sorts[name]
	return entry, ok
}

// IsFetch reports whether name is registered as a fetch.
func (r Registry) IsFetch(name CriteriaNameString) bool {
	_, ok := r.fetches[name]
	return ok
}

// IsSort reports whether name is registered as a sort.
func (r Registry) IsSort(name CriteriaNameString) bool {
	_, ok := r.sorts[name]
	return ok
}

// Filters returns all filter entries in registration order.
func (r Registry) Filters() []FilterEntry {
	entries := make([]FilterEntry, 0, len(r.filterKeys))
	for _, key := range r.filterKeys {
		entries = append(entries, r.filters[key])
	}

	return entries
}

// Fetches returns all fetch entries in registration order.
func (r Registry) Fetches() []FetchEntry {
	entries := make([]FetchEntry, 0, len(r.fetchKeys))
	for _, key := range r.fetchKeys {
		entries = append(entries, r.fetches[key])
	}

	return entries
}

// Sorts returns all sort entries in registration order.
func (r Registry) Sorts() []SortEntry {
	entries := make([]SortEntry, 0, len(r.sortKeys))
	for _, key := range r.sortKeys {
		entries = append(entries, r.sorts[key])
	}

	return entries
}

// Resolve classifies every captured name against the registry.
// Fetch and sort names are skipped; any other name must have a filter entry, else ErrMissingCriteria.
func (r Registry) Resolve(values CapturedValues) (
	filters []ResolvedFilter,
	sorts []ResolvedSort,
	fetches []FetchEntry,
	err error,
) {

	for _, captured := range values.All() {
		if entry, ok := r.fetches[captured.Name]; ok {
			fetches = append(fetches, entry)
			continue
		}

		if entry, ok := r.sorts[captured.Name]; ok {
			sorts = append(sorts, ResolvedSort{Entry: entry, Order: entry.OrderFor(captured.Value)})
			continue
		}

		entry, ok := r.filters[captured.Name]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrMissingCriteria, captured.Name)
		}

		filters = append(filters, ResolvedFilter{Entry: entry, Value: captured.Value})
	}

	return filters, sorts, fetches, nil
}

// ResolvedFilter is a filter entry paired with its captured value.
type ResolvedFilter struct {
	Entry FilterEntry
	Value any
}

// ResolvedSort is a sort entry paired with the direction effective for this query.
type ResolvedSort struct {
	Entry SortEntry
	Order SortOrder
}

/***** RegistryBuilder *****/

// RegistryBuilder collects registrations and produces an immutable Registry.
// Registering a name again replaces its entry. Registration errors are collected and returned by Build.
type RegistryBuilder struct {
	registry Registry
	errs     []error
}

// NewRegistryBuilder creates an empty RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		registry: Registry{
			filters: make(map[CriteriaNameString]FilterEntry),
			fetches: make(map[CriteriaNameString]FetchEntry),
			sorts:   make(map[CriteriaNameString]SortEntry),
		},
	}
}

// FilterOption overrides what a filter's name would otherwise imply.
type FilterOption func(*FilterEntry)

// OnField overrides the field derived from the name, e.g. OnField("category.name") for "categoryName".
// The Operation parsed from the name is kept unless WithOperation is given as well.
func OnField(field FieldPathString) FilterOption {
	return func(fe *FilterEntry) {
		fe.field = field
	}
}

// WithOperation overrides the Operation derived from the name.
func WithOperation(op Operation) FilterOption {
	return func(fe *FilterEntry) {
		fe.operation = op
	}
}

// Filter registers a filter. Field and Operation are derived from the name unless overridden:
//
//	b.Filter(productPriceGt)                                  // price > ?
//	b.Filter(productCategoryName, criteria.OnField("category.name"))
//	b.Filter(productCheap, criteria.OnField("price"), criteria.WithOperation(criteria.LessEqual))
func (b *RegistryBuilder) Filter(c Criterion, opts ...FilterOption) *RegistryBuilder {
	name, ok := b.nameOf(c)
	if !ok {
		return b
	}

	field, op := ParseFilterName(name)
	entry := FilterEntry{name: name, field: field, operation: op}

	for _, opt := range opts {
		opt(&entry)
	}

	if entry.field == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: filter %q has an empty field", ErrEmptyCriteriaName, name))
		return b
	}

	b.putFilter(entry)

	return b
}

// FilterCustom registers a filter backed by an untyped custom predicate.
func (b *RegistryBuilder) FilterCustom(c Criterion, predicate CustomPredicate) *RegistryBuilder {
	name, ok := b.nameOf(c)
	if !ok {
		return b
	}

	if predicate == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: filter %q", ErrNilCustomPredicate, name))
		return b
	}

	b.putFilter(FilterEntry{name: name, field: name, custom: predicate})

	return b
}

// FilterFunc registers a custom predicate for a single-argument criterion, receiving the typed value.
func FilterFunc[V any](
	b *RegistryBuilder,
	key Key[V],
	predicate func(qc QueryContext, value V) (exp.Expression, error),
) *RegistryBuilder {

	if predicate == nil {
		return b.FilterCustom(key, nil)
	}

	return b.FilterCustom(key, func(qc QueryContext, value any) (exp.Expression, error) {
		typed, err := typedValue[V](key.Name(), value)
		if err != nil {
			return nil, err
		}

		return predicate(qc, typed)
	})
}

// FilterFunc2 registers a custom predicate for a two-argument criterion, receiving both typed values.
func FilterFunc2[V1, V2 any](
	b *RegistryBuilder,
	key Key2[V1, V2],
	predicate func(qc QueryContext, v1 V1, v2 V2) (exp.Expression, error),
) *RegistryBuilder {

	if predicate == nil {
		return b.FilterCustom(key, nil)
	}

	return b.FilterCustom(key, func(qc QueryContext, value any) (exp.Expression, error) {
		tuple, ok := value.(Tuple)
		if !ok || len(tuple) != 2 {
			return nil, fmt.Errorf("%w: %q expects two values, got %T", ErrInvalidCriteriaValue, key.Name(), value)
		}

		v1, err := typedValue[V1](key.Name(), tuple[0])
		if err != nil {
			return nil, err
		}

		v2, err := typedValue[V2](key.Name(), tuple[1])
		if err != nil {
			return nil, err
		}

		return predicate(qc, v1, v2)
	})
}

func typedValue[V any](name CriteriaNameString, value any) (V, error) {
	var zero V

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(V)
	if !ok {
		return zero, fmt.Errorf("%w: %q expects %T, got %T", ErrInvalidCriteriaValue, name, zero, value)
	}

	return typed, nil
}

// FetchOption overrides what a fetch's name would otherwise imply.
type FetchOption func(*FetchEntry)

// AlongPath sets the relationship path explicitly, e.g. AlongPath("items.product") for "fetchItemsProduct".
func AlongPath(path FieldPathString) FetchOption {
	return func(fe *FetchEntry) {
		fe.path = path
	}
}

// Fetch registers an eager fetch. The name must start with "fetch"; the default path is the rest of the name.
func (b *RegistryBuilder) Fetch(flag Flag, opts ...FetchOption) *RegistryBuilder {
	name, ok := b.nameOf(flag)
	if !ok {
		return b
	}

	if err := validatePrefix(name, fetchPrefix); err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	path, _ := ParseFetchName(name)
	entry := FetchEntry{name: name, path: path}

	for _, opt := range opts {
		opt(&entry)
	}

	b.putFetch(entry)

	return b
}

// SortOption overrides what a sort's name would otherwise imply.
type SortOption func(*SortEntry)

// ByField sets the sort field explicitly. A direction suffix in the name still applies.
func ByField(field FieldPathString) SortOption {
	return func(se *SortEntry) {
		se.field = field
	}
}

// InDirection sets the default direction explicitly, taking precedence over a name suffix.
func InDirection(order SortOrder) SortOption {
	return func(se *SortEntry) {
		se.order = order
	}
}

// Sort registers a fixed ordering. The name must start with "sortBy"; field and direction come from the rest of it.
func (b *RegistryBuilder) Sort(flag Flag, opts ...SortOption) *RegistryBuilder {
	return b.sort(flag, false, opts...)
}

// SortSelectable registers an ordering whose direction is the SortOrder recorded at query time.
// Asc applies when the recorded value is not a SortOrder.
func (b *RegistryBuilder) SortSelectable(key Key[SortOrder], opts ...SortOption) *RegistryBuilder {
	return b.sort(key, true, opts...)
}

func (b *RegistryBuilder) sort(c Criterion, selectable bool, opts ...SortOption) *RegistryBuilder {
	name, ok := b.nameOf(c)
	if !ok {
		return b
	}

	field, order, err := ParseSortName(name)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	if selectable {
		field, order = sortFieldWithoutSuffix(name), Asc
	}

	entry := SortEntry{name: name, field: field, order: order, selectable: selectable}

	for _, opt := range opts {
		opt(&entry)
	}

	b.putSort(entry)

	return b
}

// sortFieldWithoutSuffix is the field of a selectable sort: the whole remainder, since the direction is not in the name.
func sortFieldWithoutSuffix(name CriteriaNameString) FieldPathString {
	field, _ := stripPrefix(name, sortPrefix)
	return field
}

// Build returns the Registry, or all registration errors joined.
// Later registrations on the builder do not affect a Registry that was already built.
func (b *RegistryBuilder) Build() (Registry, error) {
	if len(b.errs) > 0 {
		return Registry{}, errors.Join(b.errs...)
	}

	return Registry{
		filters:    maps.Clone(b.registry.filters),
		fetches:    maps.Clone(b.registry.fetches),
		sorts:      maps.Clone(b.registry.sorts),
		filterKeys: slices.Clone(b.registry.filterKeys),
		fetchKeys:  slices.Clone(b.registry.fetchKeys),
		sortKeys:   slices.Clone(b.registry.sortKeys),
	}, nil
}

// MustBuild is like Build but panics on registration errors. Intended for package-level registries.
func (b *RegistryBuilder) MustBuild() Registry {
	registry, err := b.Build()
	if err != nil {
		panic(err)
	}

	return registry
}

func (b *RegistryBuilder) nameOf(c Criterion) (CriteriaNameString, bool) {
	if c == nil || c.Name() == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: registering a criterion without a name", ErrUnsupportedOperation))
		return "", false
	}

	return c.Name(), true
}

func (b *RegistryBuilder) putFilter(entry FilterEntry) {
	if _, exists := b.registry.filters[entry.name]; !exists {
		b.registry.filterKeys = append(b.registry.filterKeys, entry.name)
	}

	b.registry.filters[entry.name] = entry
}

func (b *RegistryBuilder) putFetch(entry FetchEntry) {
	if _, exists := b.registry.fetches[entry.name]; !exists {
		b.registry.fetchKeys = append(b.registry.fetchKeys, entry.name)
	}

	b.registry.fetches[entry.name] = entry
}

func (b *RegistryBuilder) putSort(entry SortEntry) {
	if _, exists := b.registry.sorts[entry.name]; !exists {
		b.registry.sortKeys = append(b.registry.sortKeys, entry.name)
	}

	b.registry.sorts[entry.name] = entry
}
