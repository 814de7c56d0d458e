package evaluator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/internal/clock"
)

func TestResultStore(t *testing.T) {
	fixed := clock.Fixed{T: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}

	t.Run("missing sha falls back to no_sha", func(t *testing.T) {
		store := NewResultStore(t.TempDir(), fixed)

		path, err := store.Save(&Result{Kind: KindStatic})
		require.NoError(t, err)
		assert.Equal(t, "20251015T120000Z__static__no_sha.json", filepath.Base(path))
	})

	t.Run("list ignores non-json files", func(t *testing.T) {
		dir := t.TempDir()
		store := NewResultStore(dir, fixed)
		_, err := store.Save(&Result{Kind: KindDynamic, SHA: "abc"})
		require.NoError(t, err)

		names, err := store.List()
		require.NoError(t, err)
		assert.Len(t, names, 1)
	})

	t.Run("list on missing directory", func(t *testing.T) {
		store := NewResultStore(filepath.Join(t.TempDir(), "nope"), fixed)
		names, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("ids are unique", func(t *testing.T) {
		store := NewResultStore(t.TempDir(), clock.RealClock{})
		a := &Result{Kind: KindLLM, SHA: "one"}
		b := &Result{Kind: KindLLM, SHA: "two"}
		_, err := store.Save(a)
		require.NoError(t, err)
		_, err = store.Save(b)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
