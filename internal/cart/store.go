// Package cart keeps per-session shopping carts in process memory. The cart
// is a constructor-injected object, never package-level state, so tests and
// future replacements (a Redis- or DB-backed cart) can swap it out. Contents
// live for the process lifetime only; there is no checkout.
package cart

import (
	"context"
	"sort"
	"sync"

	"github.com/hoopscout/hoopscout-backend/internal/products"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
)

// Item is one cart line.
type Item struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// AddItemDTO is the payload for adding a line to the cart.
type AddItemDTO struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// Store holds every session's cart behind one mutex. Carts are keyed by
// session id, so a fresh login starts with an empty cart and logout orphans
// the old one.
type Store struct {
	mu       sync.Mutex
	carts    map[string]map[uint]int
	products products.Catalog
}

// NewStore builds an empty cart store. The catalog is used to reject adds
// for unknown or inactive products; a nil catalog skips that check.
func NewStore(catalog products.Catalog) *Store {
	return &Store{
		carts:    make(map[string]map[uint]int),
		products: catalog,
	}
}

// Add merges the line into the session's cart: an existing line for the same
// product has the quantity added, a new product starts a line.
func (s *Store) Add(ctx context.Context, sessionID string, dto AddItemDTO) ([]Item, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if dto.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if s.products != nil {
		if _, err := s.products.Get(ctx, dto.ProductID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.carts[sessionID]
	if !ok {
		lines = make(map[uint]int)
		s.carts[sessionID] = lines
	}
	lines[dto.ProductID] += dto.Quantity

	return itemsLocked(lines), nil
}

// Items returns the session's cart lines ordered by product id. An unknown
// session reads as an empty cart.
func (s *Store) Items(sessionID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemsLocked(s.carts[sessionID])
}

// Remove drops one product's line. Removing an absent line is a no-op.
func (s *Store) Remove(sessionID string, productID uint) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	delete(lines, productID)
	return itemsLocked(lines)
}

// Clear empties the session's cart.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

func itemsLocked(lines map[uint]int) []Item {
	items := make([]Item, 0, len(lines))
	for productID, qty := range lines {
		items = append(items, Item{ProductID: productID, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}
