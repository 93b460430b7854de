package criteria

import (
	"errors"
)

var ErrNamingConvention = errors.New("criteria name violates the naming convention")
var ErrMissingCriteria = errors.New("no criteria registered for captured name")
var ErrUnsupportedOperation = errors.New("operation not supported by the parameter contract")
var ErrEmptyCriteriaName = errors.New("empty criteria name supplied")
var ErrInvalidCriteriaValue = errors.New("captured value not usable for the criteria operation")
var ErrNilCustomPredicate = errors.New("nil custom predicate supplied")

// CriteriaNameString is the name of a criterion as exposed by a parameter contract, e.g. "price_gt".
type CriteriaNameString = string

// FieldPathString is a (possibly dotted) entity field path, e.g. "category.name".
type FieldPathString = string
