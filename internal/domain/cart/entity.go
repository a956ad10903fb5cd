// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// DefaultCartTTL is the inactivity window after which the cart becomes eligible for auto deletion
// (Firestore TTL should be configured on expiresAt).
const DefaultCartTTL = 7 * 24 * time.Hour

// CartItem represents "one line item" in a cart.
// Uniqueness is defined by (productId, selectedOptions): the same product
// with a different size/color selection is a different line item.
type CartItem struct {
	ProductID       string            `json:"productId" firestore:"productId"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty" firestore:"selectedOptions,omitempty"`
	Qty             int               `json:"qty" firestore:"qty"`
}

// Cart represents "a cart document".
//   - docId = avatarId (Firestore)
//   - ExpiresAt: for Firestore TTL (auto deletion), refreshed on each cart mutation
type Cart struct {
	// ID is Firestore docId (= avatarId).
	ID string `json:"id" firestore:"id"`

	Items []CartItem `json:"items" firestore:"items"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`

	// ExpiresAt is used for Firestore TTL.
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// NewCart creates a new cart doc.
// id is the Firestore docId (avatarId). items can be nil (treated as empty).
func NewCart(id string, items []CartItem, now time.Time) (*Cart, error) {
	docID := strings.TrimSpace(id)

	c := &Cart{
		ID:        docID,
		Items:     cloneItems(items),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add increases quantity for (productId, selectedOptions).
// qty must be >= 1.
func (c *Cart) Add(productID string, selectedOptions map[string]string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" || qty <= 0 {
		return ErrInvalidCart
	}
	opts := normalizeOptions(selectedOptions)

	if c.Items == nil {
		c.Items = []CartItem{}
	}

	idx := findItemIndex(c.Items, pid, opts)
	if idx >= 0 {
		c.Items[idx].Qty += qty
		c.Items[idx].ProductID = pid
		c.Items[idx].SelectedOptions = opts
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID:       pid,
			SelectedOptions: opts,
			Qty:             qty,
		})
	}

	c.touch(now)
	return c.validate()
}

// SetQty sets quantity for (productId, selectedOptions).
// If qty <= 0, it removes the line item.
func (c *Cart) SetQty(productID string, selectedOptions map[string]string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}
	opts := normalizeOptions(selectedOptions)

	if c.Items == nil {
		c.Items = []CartItem{}
	}

	idx := findItemIndex(c.Items, pid, opts)

	if qty <= 0 {
		if idx >= 0 {
			c.Items = removeIndex(c.Items, idx)
		}
		c.touch(now)
		return c.validate()
	}

	if idx >= 0 {
		c.Items[idx] = CartItem{ProductID: pid, SelectedOptions: opts, Qty: qty}
	} else {
		c.Items = append(c.Items, CartItem{ProductID: pid, SelectedOptions: opts, Qty: qty})
	}

	c.touch(now)
	return c.validate()
}

// Remove removes a specific (productId, selectedOptions) line item.
func (c *Cart) Remove(productID string, selectedOptions map[string]string, now time.Time) error {
	return c.SetQty(productID, selectedOptions, 0, now)
}

// RemoveProduct removes every line item of productId regardless of options.
// Used by the toggle flow: "remove from cart" never asks for options.
func (c *Cart) RemoveProduct(productID string, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}

	kept := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != pid {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.touch(now)
	return c.validate()
}

// HasProduct reports whether any line item carries productId.
func (c *Cart) HasProduct(productID string) bool {
	if c == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for _, it := range c.Items {
		if it.ProductID == pid {
			return true
		}
	}
	return false
}

// HasItem reports whether the exact (productId, selectedOptions) line exists.
func (c *Cart) HasItem(productID string, selectedOptions map[string]string) bool {
	if c == nil {
		return false
	}
	return findItemIndex(c.Items, strings.TrimSpace(productID), normalizeOptions(selectedOptions)) >= 0
}

// ConsumeAll clears items for order creation and returns a snapshot of items.
// Call in the same request that persists the new order.
func (c *Cart) ConsumeAll(now time.Time) ([]CartItem, error) {
	if c == nil {
		return nil, ErrInvalidCart
	}

	snap := cloneItems(c.Items)
	c.Items = []CartItem{}

	c.touch(now)
	if err := c.validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}

	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}

	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() || c.ExpiresAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}
	// ExpiresAt should not be in the past relative to UpdatedAt (TTL refresh basis).
	if c.ExpiresAt.Before(c.UpdatedAt) {
		return ErrInvalidCart
	}

	if len(c.Items) == 0 {
		return nil
	}

	// normalize + merge duplicates + stable order
	c.Items = normalizeAndMerge(c.Items)

	for _, it := range c.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Qty <= 0 {
			return ErrInvalidCart
		}
	}

	return nil
}

// ----------------------------
// Helpers
// ----------------------------

// OptionsKey is a deterministic composite key for a selectedOptions map
// ("size=L|color=Red", keys sorted). Empty options -> "".
func OptionsKey(opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(opts[k])
	}
	return b.String()
}

func normalizeOptions(opts map[string]string) map[string]string {
	if len(opts) == 0 {
		return nil
	}
	out := make(map[string]string, len(opts))
	for k, v := range opts {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func findItemIndex(items []CartItem, pid string, opts map[string]string) int {
	key := OptionsKey(opts)
	for i := range items {
		if items[i].ProductID == pid && OptionsKey(items[i].SelectedOptions) == key {
			return i
		}
	}
	return -1
}

func removeIndex(items []CartItem, idx int) []CartItem {
	if idx < 0 || idx >= len(items) {
		return items
	}
	// preserve order
	return append(items[:idx], items[idx+1:]...)
}

type itemKey struct {
	pid  string
	opts string
}

func normalizeAndMerge(src []CartItem) []CartItem {
	m := map[itemKey]CartItem{}

	for _, it := range src {
		pid := strings.TrimSpace(it.ProductID)
		opts := normalizeOptions(it.SelectedOptions)
		qty := it.Qty

		if pid == "" || qty <= 0 {
			continue
		}

		k := itemKey{pid: pid, opts: OptionsKey(opts)}

		if exist, ok := m[k]; ok {
			exist.Qty += qty
			m[k] = exist
		} else {
			m[k] = CartItem{ProductID: pid, SelectedOptions: opts, Qty: qty}
		}
	}

	// stable order
	keys := make([]itemKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pid != keys[j].pid {
			return keys[i].pid < keys[j].pid
		}
		return keys[i].opts < keys[j].opts
	})

	out := make([]CartItem, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func cloneItems(src []CartItem) []CartItem {
	if len(src) == 0 {
		return []CartItem{}
	}
	cp := make([]CartItem, 0, len(src))
	cp = append(cp, src...)
	return normalizeAndMerge(cp)
}
