package criteria

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	fetchPrefix = "fetch"
	sortPrefix  = "sortBy"
)

// ParseFilterName derives field and Operation from a filter name.
//
// The name is split on its last underscore. If the part after it is a known Operation suffix,
// that Operation applies to the part before it. Otherwise, the whole name is the field and the
// Operation is Equals:
//
//	price_gt      -> ("price", Greater)
//	status_in     -> ("status", Contains)
//	categoryName  -> ("categoryName", Equals)
//	created_at    -> ("created_at", Equals)
func ParseFilterName(name CriteriaNameString) (FieldPathString, Operation) {
	field, suffix, found := splitSuffix(name)
	if !found {
		return name, Equals
	}

	op, known := OperationFromSuffix(suffix)
	if !known {
		return name, Equals
	}

	return field, op
}

// ParseSortName derives field and default SortOrder from a sort name, which must start with "sortBy":
//
//	sortByName        -> ("name", Asc)
//	sortByPrice_desc  -> ("price", Desc)
func ParseSortName(name CriteriaNameString) (FieldPathString, SortOrder, error) {
	remainder, err := stripPrefix(name, sortPrefix)
	if err != nil {
		return "", Asc, err
	}

	field, suffix, found := splitSuffix(remainder)
	if !found {
		return remainder, Asc, nil
	}

	order, known := SortOrderFromSuffix(suffix)
	if !known {
		return remainder, Asc, nil
	}

	return field, order, nil
}

// ParseFetchName derives the relationship path from a fetch name, which must start with "fetch":
//
//	fetchCategory -> "category"
func ParseFetchName(name CriteriaNameString) (FieldPathString, error) {
	return stripPrefix(name, fetchPrefix)
}

func validatePrefix(name CriteriaNameString, prefix string) error {
	_, err := stripPrefix(name, prefix)
	return err
}

// stripPrefix removes the prefix and lower-cases the first letter of the remainder.
func stripPrefix(name CriteriaNameString, prefix string) (string, error) {
	if !strings.HasPrefix(name, prefix) {
		return "", fmt.Errorf("%w: %q must start with %q", ErrNamingConvention, name, prefix)
	}

	remainder := strings.TrimPrefix(name, prefix)
	if remainder == "" {
		return "", fmt.Errorf("%w: %q has nothing after %q", ErrNamingConvention, name, prefix)
	}

	first, size := utf8.DecodeRuneInString(remainder)

	return string(unicode.ToLower(first)) + remainder[size:], nil
}

// splitSuffix splits on the last underscore; an underscore in first position does not count.
func splitSuffix(name string) (prefix string, suffix string, found bool) {
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 {
		return name, "", false
	}

	return name[:idx], name[idx+1:], true
}
