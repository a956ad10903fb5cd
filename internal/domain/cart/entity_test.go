// internal/domain/cart/entity_test.go
package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewCartEmpty(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)
	assert.Equal(t, "av-1", c.ID)
	assert.Empty(t, c.Items)
	assert.Equal(t, t0.Add(DefaultCartTTL), c.ExpiresAt)
}

func TestNewCartRequiresID(t *testing.T) {
	_, err := NewCart("  ", nil, t0)
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func TestAddMergesSameProductAndOptions(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)

	opts := map[string]string{"size": "L"}
	require.NoError(t, c.Add("p-1", opts, 1, t0))
	require.NoError(t, c.Add("p-1", opts, 2, t0.Add(time.Minute)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Qty)
}

func TestAddKeepsDistinctOptionLines(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)

	require.NoError(t, c.Add("p-1", map[string]string{"size": "M"}, 1, t0))
	require.NoError(t, c.Add("p-1", map[string]string{"size": "L"}, 1, t0))

	assert.Len(t, c.Items, 2)
}

func TestRemoveProductDropsAllOptionLines(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)

	require.NoError(t, c.Add("p-1", map[string]string{"size": "M"}, 1, t0))
	require.NoError(t, c.Add("p-1", map[string]string{"size": "L"}, 1, t0))
	require.NoError(t, c.Add("p-2", nil, 1, t0))

	require.NoError(t, c.RemoveProduct("p-1", t0.Add(time.Minute)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, "p-2", c.Items[0].ProductID)
	assert.False(t, c.HasProduct("p-1"))
	assert.True(t, c.HasProduct("p-2"))
}

func TestSetQtyZeroRemovesLine(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)

	require.NoError(t, c.Add("p-1", nil, 2, t0))
	require.NoError(t, c.SetQty("p-1", nil, 0, t0.Add(time.Minute)))
	assert.Empty(t, c.Items)
}

func TestMutationRefreshesTTL(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)

	later := t0.Add(48 * time.Hour)
	require.NoError(t, c.Add("p-1", nil, 1, later))

	assert.Equal(t, later, c.UpdatedAt)
	assert.Equal(t, later.Add(DefaultCartTTL), c.ExpiresAt)
}

func TestConsumeAllSnapshotsAndClears(t *testing.T) {
	c, err := NewCart("av-1", nil, t0)
	require.NoError(t, err)

	require.NoError(t, c.Add("p-1", map[string]string{"size": "L"}, 2, t0))
	require.NoError(t, c.Add("p-2", nil, 1, t0))

	snap, err := c.ConsumeAll(t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	assert.Empty(t, c.Items)
}

func TestOptionsKeyDeterministic(t *testing.T) {
	a := OptionsKey(map[string]string{"size": "L", "color": "Red"})
	b := OptionsKey(map[string]string{"color": "Red", "size": "L"})
	assert.Equal(t, a, b)
	assert.Equal(t, "", OptionsKey(nil))
}
