// internal/domain/favorites/entity.go
package favorites

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidFavorites = errors.New("favorites: invalid")
)

// Favorites represents "a favorites document".
//   - docId = avatarId (Firestore)
//   - ProductIDs: deduplicated, stable order
type Favorites struct {
	// ID is Firestore docId (= avatarId).
	ID string `json:"id" firestore:"id"`

	ProductIDs []string `json:"productIds" firestore:"productIds"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// NewFavorites creates a new favorites doc.
// id is the Firestore docId (avatarId). productIDs can be nil.
func NewFavorites(id string, productIDs []string, now time.Time) (*Favorites, error) {
	docID := strings.TrimSpace(id)

	f := &Favorites{
		ID:         docID,
		ProductIDs: normalizeIDs(productIDs),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Add marks productID as a favorite. Adding an existing favorite is a no-op
// apart from the UpdatedAt refresh.
func (f *Favorites) Add(productID string, now time.Time) error {
	if f == nil {
		return ErrInvalidFavorites
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidFavorites
	}

	if !f.Has(pid) {
		f.ProductIDs = normalizeIDs(append(f.ProductIDs, pid))
	}
	f.UpdatedAt = now
	return f.validate()
}

// Remove unmarks productID. Removing an absent favorite is a no-op.
func (f *Favorites) Remove(productID string, now time.Time) error {
	if f == nil {
		return ErrInvalidFavorites
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidFavorites
	}

	kept := make([]string, 0, len(f.ProductIDs))
	for _, id := range f.ProductIDs {
		if id != pid {
			kept = append(kept, id)
		}
	}
	f.ProductIDs = kept
	f.UpdatedAt = now
	return f.validate()
}

// Has reports whether productID is a favorite.
func (f *Favorites) Has(productID string) bool {
	if f == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for _, id := range f.ProductIDs {
		if id == pid {
			return true
		}
	}
	return false
}

func (f *Favorites) validate() error {
	if f == nil {
		return ErrInvalidFavorites
	}
	if strings.TrimSpace(f.ID) == "" {
		return ErrInvalidFavorites
	}
	if f.CreatedAt.IsZero() || f.UpdatedAt.IsZero() {
		return ErrInvalidFavorites
	}
	if f.UpdatedAt.Before(f.CreatedAt) {
		return ErrInvalidFavorites
	}
	return nil
}

// ----------------------------
// Helpers
// ----------------------------

func normalizeIDs(src []string) []string {
	if len(src) == 0 {
		return []string{}
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(src))
	for _, id := range src {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
