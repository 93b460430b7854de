package sqlengine

import (
	"fmt"
	"strings"
)

// RelationKind tells which side of a relationship holds the foreign key.
type RelationKind int

const (
	// ToOne relations keep the foreign key on the owning entity (products.category_id -> categories.id).
	ToOne RelationKind = iota
	// ToMany relations keep the foreign key on the target entity (order_items.order_id -> orders.id).
	ToMany
)

func (k RelationKind) String() string {
	if k == ToMany {
		return "to-many"
	}

	return "to-one"
}

// Relation is a named association from one Entity to another.
type Relation struct {
	name   string
	kind   RelationKind
	target *Entity
	column string
}

func (r Relation) Name() string {
	return r.name
}

func (r Relation) Kind() RelationKind {
	return r.kind
}

func (r Relation) Target() *Entity {
	return r.target
}

// Column is the foreign key column: on the owning table for ToOne, on the target table for ToMany.
func (r Relation) Column() string {
	return r.column
}

// Entity maps a table to named fields and relations. Field and relation names are what criteria refer to,
// e.g. "price" or "category.name".
//
// Entities are built once, usually in package-level variables, and are read-only afterward:
//
//	var Category = sqlengine.NewEntity("category", "categories").
//		Field("id", "id").
//		Field("name", "name")
//
//	var Product = sqlengine.NewEntity("product", "products").
//		Field("id", "id").
//		Field("name", "name").
//		HasOne("category", Category, "category_id")
type Entity struct {
	name      string
	table     string
	key       string
	fields    map[string]string
	order     []string
	relations map[string]Relation
}

// NewEntity creates an Entity with the primary key field "id".
func NewEntity(name, table string) *Entity {
	return &Entity{
		name:      name,
		table:     table,
		key:       "id",
		fields:    make(map[string]string),
		relations: make(map[string]Relation),
	}
}

// Field maps a field name to a column. Redeclaring a field replaces its column.
func (e *Entity) Field(name, column string) *Entity {
	if _, exists := e.fields[name]; !exists {
		e.order = append(e.order, name)
	}

	e.fields[name] = column

	return e
}

// Key sets the primary key field, which must also be declared with Field.
func (e *Entity) Key(field string) *Entity {
	e.key = field
	return e
}

// HasOne declares a ToOne relation whose foreign key column lives on this entity's table.
func (e *Entity) HasOne(name string, target *Entity, column string) *Entity {
	e.relations[name] = Relation{name: name, kind: ToOne, target: target, column: column}
	return e
}

// HasMany declares a ToMany relation whose foreign key column lives on the target's table.
func (e *Entity) HasMany(name string, target *Entity, column string) *Entity {
	e.relations[name] = Relation{name: name, kind: ToMany, target: target, column: column}
	return e
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) Table() string {
	return e.table
}

// KeyField returns the name of the primary key field.
func (e *Entity) KeyField() string {
	return e.key
}

// Fields returns the field names in declaration order.
func (e *Entity) Fields() []string {
	fields := make([]string, len(e.order))
	copy(fields, e.order)

	return fields
}

// Column resolves a field name.
func (e *Entity) Column(field string) (string, bool) {
	column, ok := e.fields[field]
	return column, ok
}

// Relation resolves a relation name.
func (e *Entity) Relation(name string) (Relation, bool) {
	relation, ok := e.relations[name]
	return relation, ok
}

func (e *Entity) keyColumn() (string, error) {
	column, ok := e.fields[e.key]
	if !ok {
		return "", fmt.Errorf("%w: entity %q has no key field %q", ErrUnknownField, e.name, e.key)
	}

	return column, nil
}

// validate checks that the entity can be selected and joined: key declared, relation targets present.
func (e *Entity) validate() error {
	if _, err := e.keyColumn(); err != nil {
		return err
	}

	for name, relation := range e.relations {
		if relation.target == nil {
			return fmt.Errorf("%w: relation %q of entity %q has no target", ErrUnknownRelation, name, e.name)
		}

		if _, err := relation.target.keyColumn(); err != nil {
			return err
		}
	}

	return nil
}

// walk resolves the relations of a dotted relationship path, e.g. "items.product".
func (e *Entity) walk(path string) ([]Relation, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty relationship path on entity %q", ErrUnknownRelation, e.name)
	}

	segments := strings.Split(path, ".")
	relations := make([]Relation, 0, len(segments))
	current := e

	for _, segment := range segments {
		relation, ok := current.relations[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %q (in %q) on entity %q", ErrUnknownRelation, segment, path, current.name)
		}

		relations = append(relations, relation)
		current = relation.target
	}

	return relations, nil
}

// splitFieldPath splits "category.name" into ("category", "name") and "price" into ("", "price").
func splitFieldPath(fieldPath string) (relationPath string, field string) {
	idx := strings.LastIndexByte(fieldPath, '.')
	if idx < 0 {
		return "", fieldPath
	}

	return fieldPath[:idx], fieldPath[idx+1:]
}

// resolveField checks that a dotted field path ends in a declared field.
func (e *Entity) resolveField(fieldPath string) error {
	relationPath, field := splitFieldPath(fieldPath)
	target := e

	if relationPath != "" {
		relations, err := e.walk(relationPath)
		if err != nil {
			return err
		}

		target = relations[len(relations)-1].target
	}

	if _, ok := target.fields[field]; !ok {
		return fmt.Errorf("%w: %q (in %q) on entity %q", ErrUnknownField, field, fieldPath, target.name)
	}

	return nil
}
