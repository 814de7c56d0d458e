package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("preserves sentinel through wrapping", func(t *testing.T) {
		err := Wrap(ErrSignatureInvalid, "verifying envelope")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
		assert.Contains(t, err.Error(), "verifying envelope")
	})
}

func TestWrapf(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, Wrapf(nil, "context %s", "value"))
	})

	t.Run("formats message and preserves chain", func(t *testing.T) {
		err := Wrapf(ErrKeyLoad, "loading key from %s", "/tmp/pub.pem")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrKeyLoad)
		assert.Contains(t, err.Error(), "/tmp/pub.pem")
	})
}

func TestExitCode2Error(t *testing.T) {
	t.Run("detects wrapped exit code 2 errors", func(t *testing.T) {
		err := NewExitCode2Error(ErrConfigInvalid)
		assert.True(t, IsExitCode2Error(err))
		assert.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("plain errors are not exit code 2", func(t *testing.T) {
		assert.False(t, IsExitCode2Error(stderrors.New("boom")))
		assert.False(t, IsExitCode2Error(nil))
	})
}
