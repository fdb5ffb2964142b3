package errorx

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("should return error from stack", func(t *testing.T) {
		err := errors.WithStack(SetupErrorf("config missing"))

		e, ok := IsError(err)
		require.True(t, ok)
		assert.Equal(t, ErrorTypeSetup, e.Type)
	})

	t.Run("should return an error without stack", func(t *testing.T) {
		_, ok := IsError(AssertionErrorf("test"))
		assert.True(t, ok)
	})

	t.Run("should see through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("fixture: %w", AssertionErrorf("status 500"))
		assert.True(t, IsAssertionError(err))
		assert.False(t, IsSetupError(err))
	})

	t.Run("should not match foreign errors", func(t *testing.T) {
		_, ok := IsError(errors.New("plain"))
		assert.False(t, ok)
		_, ok = IsError(nil)
		assert.False(t, ok)
	})

	t.Run("should append details to existing error", func(t *testing.T) {
		cerr := AssertionErrorf("files with unexpected extension")
		cerr = cerr.WithDetails(AssertionErrorf("a.doc"))
		cerr = cerr.WithDetails(AssertionErrorf("b.txt"), nil)

		assert.Equal(t, []string{"a.doc", "b.txt"}, cerr.DetailMessages())
		assert.Equal(t, "[ASSERTION] files with unexpected extension\na.doc\nb.txt", cerr.Error())
	})

	t.Run("should not mutate the receiver when adding details", func(t *testing.T) {
		base := AssertionErrorf("base")
		_ = base.WithDetails(AssertionErrorf("x"))
		assert.Empty(t, base.Details)
	})

	t.Run("should keep the original error", func(t *testing.T) {
		cause := errors.New("open config.json: no such file or directory")
		err := WrapSetup(cause, "could not read config")

		assert.True(t, IsSetupError(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "[SETUP] could not read config: open config.json: no such file or directory", err.Error())
		assert.Nil(t, WrapSetup(nil, "nothing"))
	})

	t.Run("should capture the creation stack", func(t *testing.T) {
		err := InternalErrorf("boom")
		assert.True(t, strings.Contains(err.StackTrace().String(), "errorx.TestError"))
	})
}
