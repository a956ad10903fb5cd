// internal/domain/favorites/entity_test.go
package favorites

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewFavoritesNormalizes(t *testing.T) {
	f, err := NewFavorites("av-1", []string{" p-2 ", "p-1", "p-2", ""}, t0)
	require.NoError(t, err)
	assert.Equal(t, "av-1", f.ID)
	assert.Equal(t, []string{"p-1", "p-2"}, f.ProductIDs)
}

func TestNewFavoritesRequiresID(t *testing.T) {
	_, err := NewFavorites("  ", nil, t0)
	assert.ErrorIs(t, err, ErrInvalidFavorites)
}

func TestAddIsIdempotent(t *testing.T) {
	f, err := NewFavorites("av-1", nil, t0)
	require.NoError(t, err)

	require.NoError(t, f.Add("p-1", t0))
	later := t0.Add(time.Minute)
	require.NoError(t, f.Add("p-1", later))

	assert.Equal(t, []string{"p-1"}, f.ProductIDs)
	assert.Equal(t, later, f.UpdatedAt)
	assert.True(t, f.Has("p-1"))
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	f, err := NewFavorites("av-1", []string{"p-1"}, t0)
	require.NoError(t, err)

	require.NoError(t, f.Remove("p-9", t0.Add(time.Minute)))
	assert.Equal(t, []string{"p-1"}, f.ProductIDs)

	require.NoError(t, f.Remove("p-1", t0.Add(2*time.Minute)))
	assert.Empty(t, f.ProductIDs)
	assert.False(t, f.Has("p-1"))
}

func TestAddRejectsEmptyID(t *testing.T) {
	f, err := NewFavorites("av-1", nil, t0)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Add("  ", t0), ErrInvalidFavorites)
}
