package errorx

import "fmt"

// SetupErrorf creates an Error with type ErrorTypeSetup and a formatted message
func SetupErrorf(format string, args ...any) *Error {
	return newWithStack(
		ErrorTypeSetup,
		fmt.Sprintf(format, args...),
	)
}

// WrapSetup creates an Error with type ErrorTypeSetup that keeps err as its cause.
func WrapSetup(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	e := newWithStack(ErrorTypeSetup, fmt.Sprintf(format, args...))
	e.OriginalError = err
	return e
}

func IsSetupError(e error) bool {
	mE, ok := IsError(e)
	if !ok {
		return false
	}

	return mE.Type == ErrorTypeSetup
}
