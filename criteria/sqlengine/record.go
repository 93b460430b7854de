package sqlengine

import (
	"fmt"
)

// Record is one loaded entity: its field values plus the associations loaded by fetch passes.
// Within one List or Get, an entity is loaded into exactly one Record, whichever paths reach it.
type Record struct {
	entity   *Entity
	key      any
	values   map[string]any
	toOne    map[string]*Record
	toMany   map[string][]*Record
	attached map[string]map[*Record]struct{}
	loaded   map[string]bool
}

func newRecord(entity *Entity) *Record {
	return &Record{
		entity:   entity,
		values:   make(map[string]any),
		toOne:    make(map[string]*Record),
		toMany:   make(map[string][]*Record),
		attached: make(map[string]map[*Record]struct{}),
		loaded:   make(map[string]bool),
	}
}

// Entity returns the entity the Record was loaded for.
func (r *Record) Entity() *Entity {
	return r.entity
}

// Key returns the primary key value.
func (r *Record) Key() any {
	return r.key
}

// Get returns the value of a field.
func (r *Record) Get(field string) (any, bool) {
	value, ok := r.values[field]
	return value, ok
}

// One returns the target of a loaded to-one relation. The second return value is false when the
// relation was not fetched or has no target.
func (r *Record) One(relation string) (*Record, bool) {
	target, ok := r.toOne[relation]
	return target, ok && target != nil
}

// Many returns the targets of a loaded to-many relation in load order.
func (r *Record) Many(relation string) []*Record {
	targets := r.toMany[relation]
	result := make([]*Record, len(targets))
	copy(result, targets)

	return result
}

// Loaded reports whether a fetch pass populated the relation, even if it found nothing.
func (r *Record) Loaded(relation string) bool {
	return r.loaded[relation]
}

func (r *Record) attach(relation Relation, target *Record) {
	r.loaded[relation.name] = true

	if relation.kind == ToOne {
		r.toOne[relation.name] = target
		return
	}

	seen, ok := r.attached[relation.name]
	if !ok {
		seen = make(map[*Record]struct{})
		r.attached[relation.name] = seen
	}

	if _, exists := seen[target]; exists {
		return
	}

	seen[target] = struct{}{}
	r.toMany[relation.name] = append(r.toMany[relation.name], target)
}

func (r *Record) markLoaded(relation Relation) {
	r.loaded[relation.name] = true

	if relation.kind == ToMany {
		if _, ok := r.toMany[relation.name]; !ok {
			r.toMany[relation.name] = []*Record{}
		}
	}
}

// session is the identity map of one query invocation.
type session struct {
	records map[*Entity]map[string]*Record
}

func newSession() *session {
	return &session{records: make(map[*Entity]map[string]*Record)}
}

func identity(key any) string {
	return fmt.Sprintf("%T:%v", key, key)
}

func (s *session) lookup(entity *Entity, key any) (*Record, bool) {
	record, ok := s.records[entity][identity(key)]
	return record, ok
}

// load returns the Record for the entity row in values (field order), creating it on first sight.
// The second return value is false when the row has a NULL key, i.e. an absent outer-joined entity.
func (s *session) load(entity *Entity, values []any) (*Record, bool, bool) {
	fields := entity.Fields()
	row := make(map[string]any, len(fields))

	for i, field := range fields {
		row[field] = normalize(values[i])
	}

	key := row[entity.key]
	if key == nil {
		return nil, false, false
	}

	if existing, ok := s.lookup(entity, key); ok {
		return existing, true, false
	}

	record := newRecord(entity)
	record.key = key
	record.values = row

	byKey, ok := s.records[entity]
	if !ok {
		byKey = make(map[string]*Record)
		s.records[entity] = byKey
	}

	byKey[identity(key)] = record

	return record, true, true
}

// normalize turns raw driver bytes into strings so they decode like text.
func normalize(value any) any {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}

	return value
}
