package query

import "strconv"

// CoerceValue converts a wire-format string value into the dynamic
// leaf type it most plausibly represents (integer, float, bool), or
// leaves it as a string. Record values decoded from a store's own
// seed data already carry their native Go type; coercing the
// parameter side lets the comparer compare like with like for
// equality and range predicates.
func CoerceValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
