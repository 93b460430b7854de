package criteria

/***** Operation *****/

// Operation is the comparison a filter applies to its field.
type Operation int

const (
	Equals Operation = iota
	Greater
	GreaterEqual
	Less
	LessEqual
	NotEquals
	Like
	NotLike
	Contains
	NotContains
	IsNull
	NotNull
)

var operationSuffixes = []struct {
	op     Operation
	suffix string
}{
	{Equals, "eq"},
	{Greater, "gt"},
	{GreaterEqual, "ge"},
	{Less, "lt"},
	{LessEqual, "le"},
	{NotEquals, "ne"},
	{Like, "like"},
	{NotLike, "notLike"},
	{Contains, "in"},
	{NotContains, "notIn"},
	{IsNull, "null"},
	{NotNull, "notNull"},
}

// Suffix returns the name-suffix token of the Operation, e.g. "gt" for Greater.
func (o Operation) Suffix() string {
	for _, entry := range operationSuffixes {
		if entry.op == o {
			return entry.suffix
		}
	}

	return ""
}

// String implements fmt.Stringer.
func (o Operation) String() string {
	if s := o.Suffix(); s != "" {
		return s
	}

	return "unknown"
}

// OperationFromSuffix resolves a suffix token. The second return value is false for unknown tokens.
func OperationFromSuffix(suffix string) (Operation, bool) {
	for _, entry := range operationSuffixes {
		if entry.suffix == suffix {
			return entry.op, true
		}
	}

	return Equals, false
}

// NeedsValue reports whether the Operation compares against a captured value.
// IsNull and NotNull ignore whatever was captured.
func (o Operation) NeedsValue() bool {
	return o != IsNull && o != NotNull
}

/***** SortOrder *****/

// SortOrder is the direction of an ordering clause.
type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

// Suffix returns the name-suffix token of the SortOrder.
func (s SortOrder) Suffix() string {
	if s == Desc {
		return "desc"
	}

	return "asc"
}

// String implements fmt.Stringer.
func (s SortOrder) String() string {
	return s.Suffix()
}

// SortOrderFromSuffix resolves "asc" or "desc". The second return value is false for other tokens.
func SortOrderFromSuffix(suffix string) (SortOrder, bool) {
	switch suffix {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	default:
		return Asc, false
	}
}
