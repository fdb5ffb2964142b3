package assertx

import (
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

// Passes asserts that a check returned nil. On failure the message lists
// every detail of the check error, one per line.
func Passes(t assert.TestingT, err error, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if err == nil {
		return true
	}
	return assert.Fail(t, "check failed:\n"+err.Error(), msgAndArgs...)
}

// FailsWith asserts that err is an errorx.Error of type et whose details
// contain every string in details.
func FailsWith(t assert.TestingT, err error, et errorx.ErrorType, details ...string) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	e, ok := errorx.IsError(err)
	if !ok {
		return assert.Fail(t, "expected an errorx.Error", "got: %v", err)
	}
	if !assert.Equal(t, et, e.Type, "error type of %q", e.Message) {
		return false
	}

	got := strings.Join(e.DetailMessages(), "\n")
	ok = true
	for _, d := range details {
		ok = assert.Contains(t, got, d, "details of %q", e.Message) && ok
	}
	return ok
}
