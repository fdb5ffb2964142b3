package assertx

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

type tHelper interface {
	Helper()
}

// Equal compares with go-cmp and prints the diff on mismatch.
func Equal(t assert.TestingT, expected, actual interface{}, opts ...cmp.Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		return assert.Fail(t, "Not equal (-expected +actual):\n"+diff)
	}
	return true
}

// ElementsMatch is Equal for string slices, ignoring order.
func ElementsMatch(t assert.TestingT, expected, actual []string) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return Equal(t, expected, actual, cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty())
}
