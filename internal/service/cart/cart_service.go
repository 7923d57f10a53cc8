// Package cart holds the food order for one session.
package cart

import (
	"sync"

	"github.com/Domenick1991/agentair/internal/domain"
)

// MenuLookup resolves a menu item by id.
type MenuLookup func(id string) (domain.MenuItem, bool)

type CartUseCase interface {
	Add(itemID string, qty int) bool
	Remove(itemID string) bool
	Clear()
	Items() []domain.CartItem
	Total() int64
	Count() int
}

type Store struct {
	mu      sync.Mutex
	lookup  MenuLookup
	items   []domain.CartItem
	subs    map[int]func([]domain.CartItem)
	nextSub int
}

func NewStore(lookup MenuLookup) *Store {
	return &Store{lookup: lookup, subs: make(map[int]func([]domain.CartItem))}
}

// Add puts qty of the item in the cart, accumulating onto an existing
// line. It reports false for an unknown item, leaving the cart untouched.
func (s *Store) Add(itemID string, qty int) bool {
	item, ok := s.lookup(itemID)
	if !ok {
		return false
	}
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].MenuItem.ID == itemID {
			s.items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, domain.CartItem{MenuItem: item, Quantity: qty})
	}
	s.mu.Unlock()
	s.broadcast()
	return true
}

func (s *Store) Remove(itemID string) bool {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].MenuItem.ID == itemID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.mu.Unlock()
			s.broadcast()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.broadcast()
}

func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

// Total is the cart value in cents.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, it := range s.items {
		total += it.SubtotalCents()
	}
	return total
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Subscribe(fn func([]domain.CartItem)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) broadcast() {
	s.mu.Lock()
	items := append([]domain.CartItem(nil), s.items...)
	subs := make([]func([]domain.CartItem), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(items)
	}
}

var _ CartUseCase = (*Store)(nil)
