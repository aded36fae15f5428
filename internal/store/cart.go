package store

import (
	"fmt"

	"github.com/existflow/ironlist/internal/model"
	"github.com/shopspring/decimal"
)

// CartStore is the ordered collection of cart line-items
type CartStore struct {
	items []model.LineItem
}

// NewCartStore creates a cart seeded with items. Items with the same id are
// merged and items with a non-positive quantity are dropped.
func NewCartStore(items []model.LineItem) *CartStore {
	s := &CartStore{}
	s.Replace(items)
	return s
}

// Replace swaps the whole collection
func (s *CartStore) Replace(items []model.LineItem) {
	s.items = make([]model.LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i := s.index(it.ID); i >= 0 {
			s.items[i].Quantity += it.Quantity
			continue
		}
		s.items = append(s.items, it)
	}
}

// Add merges the product into the cart and returns the resulting line-item
func (s *CartStore) Add(p model.Product) model.LineItem {
	if i := s.index(p.ID); i >= 0 {
		s.items[i].Quantity++
		return s.items[i]
	}
	item := model.NewLineItem(p)
	s.items = append(s.items, item)
	return item
}

// UpdateQuantity applies delta (+1 or -1). It reports whether the item was
// removed because its quantity reached zero.
func (s *CartStore) UpdateQuantity(id model.ProductID, delta int) (removed bool, err error) {
	if delta != 1 && delta != -1 {
		return false, fmt.Errorf("%w: got %d", model.ErrInvalidDelta, delta)
	}
	i := s.index(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", model.ErrItemNotFound, id)
	}
	q := s.items[i].Quantity + delta
	if q <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return true, nil
	}
	s.items[i].Quantity = q
	return false, nil
}

// Remove deletes the line-item for id
func (s *CartStore) Remove(id model.ProductID) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", model.ErrItemNotFound, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Clear empties the cart
func (s *CartStore) Clear() {
	s.items = nil
}

// Items returns a copy of the line-items in insertion order
func (s *CartStore) Items() []model.LineItem {
	out := make([]model.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the line-item for id
func (s *CartStore) Get(id model.ProductID) (model.LineItem, bool) {
	i := s.index(id)
	if i < 0 {
		return model.LineItem{}, false
	}
	return s.items[i], true
}

// Len returns the number of distinct line-items
func (s *CartStore) Len() int {
	return len(s.items)
}

// ItemCount is the sum of quantities, computed on every call
func (s *CartStore) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of line totals at full precision, computed on every call
func (s *CartStore) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (s *CartStore) index(id model.ProductID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
