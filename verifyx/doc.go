// Package verifyx holds the checks a harness run makes. Every check is a pure
// function over what the fixtures produced and returns nil or an assertion
// error whose details name every offending item, never just the first.
package verifyx
