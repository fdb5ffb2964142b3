package errorx

type ErrorType string

// A harness run only fails in two ways: it could not get to the point of
// checking anything (setup), or a check did not hold (assertion).
const (
	// The Unspecified type should not be used, only useful to assert whether or not an error is an Error during cast
	ErrorTypeUnspecified = ErrorType("")
	ErrorTypeSetup       = ErrorType("SETUP")
	ErrorTypeAssertion   = ErrorType("ASSERTION")
	ErrorTypeInternal    = ErrorType("INTERNAL")
)

func (e ErrorType) String() string {
	return string(e)
}
