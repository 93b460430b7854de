package criteria

import (
	"fmt"
)

/***** Criterion keys *****/

// Criterion is anything that names a criteria entry: Key, Key2 and Flag.
type Criterion interface {
	Name() CriteriaNameString
}

// Key names a criterion taking exactly one argument of type V.
// Keys are declared once, next to the parameter contract, and used both for registration and for recording:
//
//	var productPriceGt = criteria.NewKey[float64]("price_gt")
//
//	func (p *ProductParams) PriceGt(price float64) { productPriceGt.Set(p, price) }
type Key[V any] struct {
	name CriteriaNameString
}

// NewKey creates a Key for a single-argument criterion.
func NewKey[V any](name CriteriaNameString) Key[V] {
	return Key[V]{name: name}
}

// Name implements Criterion.
func (k Key[V]) Name() CriteriaNameString {
	return k.name
}

// Set records value under the Key's name. The value is kept verbatim, including typed nils.
func (k Key[V]) Set(p Params, value V) {
	record(p, k.name, value)
}

// Flag names a criterion without arguments, e.g. a fetch, a fixed sort or a null check.
// Setting a Flag records true.
type Flag struct {
	name CriteriaNameString
}

// NewFlag creates a Flag.
func NewFlag(name CriteriaNameString) Flag {
	return Flag{name: name}
}

// Name implements Criterion.
func (f Flag) Name() CriteriaNameString {
	return f.name
}

// Set records true under the Flag's name.
func (f Flag) Set(p Params) {
	record(p, f.name, true)
}

// Key2 names a criterion taking two arguments. They are recorded as a Tuple in declaration order.
type Key2[V1, V2 any] struct {
	name CriteriaNameString
}

// NewKey2 creates a Key2.
func NewKey2[V1, V2 any](name CriteriaNameString) Key2[V1, V2] {
	return Key2[V1, V2]{name: name}
}

// Name implements Criterion.
func (k Key2[V1, V2]) Name() CriteriaNameString {
	return k.name
}

// Set records Tuple{v1, v2} under the Key2's name.
func (k Key2[V1, V2]) Set(p Params, v1 V1, v2 V2) {
	record(p, k.name, Tuple{v1, v2})
}

// Tuple is the captured value of a criterion with more than one argument.
type Tuple []any

/***** Recorder *****/

// Params is implemented by every parameter contract. The only way to satisfy it is embedding a Recorder:
//
//	type ProductParams struct {
//		criteria.Recorder
//	}
type Params interface {
	recorder() *Recorder
}

// Recorder captures which criteria a contract instance was asked for, and with which values.
// Its zero value is ready to use.
type Recorder struct {
	values CapturedValues
	errs   []error
}

func (r *Recorder) recorder() *Recorder {
	return r
}

func record(p Params, name CriteriaNameString, value any) {
	if p == nil {
		return
	}

	r := p.recorder()
	if r == nil {
		return
	}

	if name == "" {
		r.errs = append(r.errs, fmt.Errorf("%w: recording through a key without a name", ErrUnsupportedOperation))
		return
	}

	r.values.put(name, value)
}

// ValuesOf returns a snapshot of everything recorded on p so far.
// A nil contract yields ErrUnsupportedOperation, as does recording through a zero-value key.
func ValuesOf(p Params) (CapturedValues, error) {
	if p == nil || p.recorder() == nil {
		return CapturedValues{}, fmt.Errorf("%w: nil parameter contract", ErrUnsupportedOperation)
	}

	r := p.recorder()
	if len(r.errs) > 0 {
		return CapturedValues{}, r.errs[0]
	}

	return r.values.clone(), nil
}

/***** CapturedValues *****/

// CapturedValue is one recorded (name, value) pair.
type CapturedValue struct {
	Name  CriteriaNameString
	Value any
}

// CapturedValues maps criteria names to recorded values in insertion order.
// Recording a name again replaces the value but keeps the original position.
type CapturedValues struct {
	names  []CriteriaNameString
	values map[CriteriaNameString]any
}

// NewCapturedValues builds CapturedValues from pairs, mostly useful in tests.
func NewCapturedValues(pairs ...CapturedValue) CapturedValues {
	cv := CapturedValues{}
	for _, pair := range pairs {
		cv.put(pair.Name, pair.Value)
	}

	return cv
}

func (cv *CapturedValues) put(name CriteriaNameString, value any) {
	if cv.values == nil {
		cv.values = make(map[CriteriaNameString]any)
	}

	if _, exists := cv.values[name]; !exists {
		cv.names = append(cv.names, name)
	}

	cv.values[name] = value
}

func (cv CapturedValues) clone() CapturedValues {
	clone := CapturedValues{
		names:  make([]CriteriaNameString, len(cv.names)),
		values: make(map[CriteriaNameString]any, len(cv.values)),
	}

	copy(clone.names, cv.names)
	for name, value := range cv.values {
		clone.values[name] = value
	}

	return clone
}

// Len returns the number of recorded names.
func (cv CapturedValues) Len() int {
	return len(cv.names)
}

// Get returns the value recorded under name.
func (cv CapturedValues) Get(name CriteriaNameString) (any, bool) {
	value, ok := cv.values[name]
	return value, ok
}

// Names returns the recorded names in insertion order.
func (cv CapturedValues) Names() []CriteriaNameString {
	names := make([]CriteriaNameString, len(cv.names))
	copy(names, cv.names)

	return names
}

// All returns the recorded pairs in insertion order.
func (cv CapturedValues) All() []CapturedValue {
	all := make([]CapturedValue, 0, len(cv.names))
	for _, name := range cv.names {
		all = append(all, CapturedValue{Name: name, Value: cv.values[name]})
	}

	return all
}
