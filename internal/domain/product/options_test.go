// internal/domain/product/options_test.go
package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, colors map[string][]string, attrs map[string]any) *Product {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p, err := New("p-1", "Tote Bag", "canvas tote", 2400, colors, attrs, true, now, now)
	require.NoError(t, err)
	return &p
}

func TestHasSelectableOptions(t *testing.T) {
	tests := []struct {
		name   string
		colors map[string][]string
		attrs  map[string]any
		want   bool
	}{
		{
			name: "no colors, no attributes",
			want: false,
		},
		{
			name:   "color variants short-circuit",
			colors: map[string][]string{"Red": {"https://img/red-1.jpg"}},
			attrs:  map[string]any{"size": "M"},
			want:   true,
		},
		{
			name:  "single attribute value",
			attrs: map[string]any{"size": "M"},
			want:  false,
		},
		{
			name:  "comma separated attribute",
			attrs: map[string]any{"size": "M,L,XL"},
			want:  true,
		},
		{
			name:  "repeated tokens still count",
			attrs: map[string]any{"color": "Red, Red, Blue"},
			want:  true,
		},
		{
			name:  "whitespace and empty tokens are dropped",
			attrs: map[string]any{"size": " , M ,  "},
			want:  false,
		},
		{
			name:  "string slice attribute",
			attrs: map[string]any{"material": []string{"cotton", "linen"}},
			want:  true,
		},
		{
			name:  "any slice attribute with junk entries",
			attrs: map[string]any{"fit": []any{"slim", 42, "  ", "regular"}},
			want:  true,
		},
		{
			name:  "malformed attribute shapes are ignored",
			attrs: map[string]any{"weight": 1.5, "tags": map[string]any{"a": "b"}},
			want:  false,
		},
		{
			name:  "one multi-valued attribute among singles",
			attrs: map[string]any{"size": "M", "color": "Black, White"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct(t, tt.colors, tt.attrs)
			assert.Equal(t, tt.want, HasSelectableOptions(p))
		})
	}
}

func TestHasSelectableOptionsNilProduct(t *testing.T) {
	assert.False(t, HasSelectableOptions(nil))
}

func TestAttributeOptions(t *testing.T) {
	p := newTestProduct(t, nil, map[string]any{
		"size":   "M,L,XL",
		"color":  []string{"Red", "Blue"},
		"weight": 1.5,
		"":       "ignored",
	})

	got := AttributeOptions(p)
	assert.Equal(t, []string{"M", "L", "XL"}, got["size"])
	assert.Equal(t, []string{"Red", "Blue"}, got["color"])
	assert.NotContains(t, got, "weight")
	assert.Len(t, got, 2)
}

func TestSplitOptionsKeepsRepeats(t *testing.T) {
	assert.Equal(t, []string{"Red", "Red", "Blue"}, SplitOptions("Red, Red, Blue"))
	assert.Empty(t, SplitOptions("  ,  , "))
}
