package errorx

import "fmt"

// AssertionErrorf creates an Error with type ErrorTypeAssertion and a formatted message
func AssertionErrorf(format string, args ...any) *Error {
	return newWithStack(
		ErrorTypeAssertion,
		fmt.Sprintf(format, args...),
	)
}

func IsAssertionError(e error) bool {
	mE, ok := IsError(e)
	if !ok {
		return false
	}

	return mE.Type == ErrorTypeAssertion
}
