// Package booking holds the flight booking for one session.
package booking

import (
	"sync"

	"github.com/Domenick1991/agentair/internal/activity"
	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/service/flights"
)

type BookingUseCase interface {
	AddItem(flightID, classID string, passengers int, byAgent bool, seat *domain.SelectedSeat)
	RemoveItem(classID string) bool
	SelectSeat(classID string, seat domain.SelectedSeat) bool
	Clear()
	Item(classID string) (domain.BookingItem, bool)
	Items() []domain.BookingItem
	Total() int64
	Count() int
	Search(from, to string) []domain.Flight
	SetHasSearched(v bool)
	SetSeatMapOpen(classID string)
	SetCheckout(form domain.CheckoutForm)
	CloseCheckout()
	AddActivity(tool, message, detail string) domain.AgentActivity
	DismissActivity(id string) bool
	Activities(limit int) []domain.AgentActivity
	Snapshot() Snapshot
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Items       []domain.BookingItem   `json:"items"`
	TotalCents  int64                  `json:"total_cents"`
	Count       int                    `json:"count"`
	HasSearched bool                   `json:"has_searched"`
	SeatMapOpen string                 `json:"seat_map_open,omitempty"`
	Checkout    domain.CheckoutForm    `json:"checkout"`
	Activities  []domain.AgentActivity `json:"activities"`
}

type Store struct {
	mu          sync.Mutex
	flights     flights.FlightUseCase
	feed        *activity.Feed
	items       []domain.BookingItem
	hasSearched bool
	seatMapOpen string
	checkout    domain.CheckoutForm
	subs        map[int]func(Snapshot)
	nextSub     int
}

// NewStore creates an empty booking. The activity feed is owned by the
// store and configured with opts.
func NewStore(f flights.FlightUseCase, c clock.Clock, opts ...activity.Option) *Store {
	s := &Store{flights: f, subs: make(map[int]func(Snapshot))}
	s.feed = activity.NewFeed(c, append(opts, activity.WithOnChange(s.broadcast))...)
	return s
}

// AddItem appends a booking line. Unknown flight or class ids are ignored.
// When the class is already booked only a supplied seat is applied.
func (s *Store) AddItem(flightID, classID string, passengers int, byAgent bool, seat *domain.SelectedSeat) {
	f, err := s.flights.GetByID(flightID)
	if err != nil {
		return
	}
	c, ok := f.Class(classID)
	if !ok {
		return
	}
	if passengers < 1 {
		passengers = 1
	}

	s.mu.Lock()
	if i := s.indexLocked(classID); i >= 0 {
		if seat == nil {
			s.mu.Unlock()
			return
		}
		s.items[i].Seat = copySeat(seat)
	} else {
		s.items = append(s.items, domain.BookingItem{
			Flight:       f,
			Class:        c,
			Passengers:   passengers,
			AddedByAgent: byAgent,
			Seat:         copySeat(seat),
		})
	}
	s.mu.Unlock()
	s.broadcast()
}

func (s *Store) RemoveItem(classID string) bool {
	s.mu.Lock()
	i := s.indexLocked(classID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	if s.seatMapOpen == classID {
		s.seatMapOpen = ""
	}
	s.mu.Unlock()
	s.broadcast()
	return true
}

// SelectSeat sets the seat on an existing line and reports whether the
// class was booked.
func (s *Store) SelectSeat(classID string, seat domain.SelectedSeat) bool {
	s.mu.Lock()
	i := s.indexLocked(classID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[i].Seat = &seat
	s.mu.Unlock()
	s.broadcast()
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.seatMapOpen = ""
	s.mu.Unlock()
	s.broadcast()
}

func (s *Store) Item(classID string) (domain.BookingItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(classID)
	if i < 0 {
		return domain.BookingItem{}, false
	}
	return cloneItem(s.items[i]), true
}

func (s *Store) Items() []domain.BookingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

// Total is the booking value in cents.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// Count is the number of booking lines, not passengers.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Search(from, to string) []domain.Flight {
	return s.flights.Search(from, to)
}

func (s *Store) SetHasSearched(v bool) {
	s.mu.Lock()
	changed := s.hasSearched != v
	s.hasSearched = v
	s.mu.Unlock()
	if changed {
		s.broadcast()
	}
}

// SetSeatMapOpen expands the seat map for classID. Empty collapses it.
func (s *Store) SetSeatMapOpen(classID string) {
	s.mu.Lock()
	changed := s.seatMapOpen != classID
	s.seatMapOpen = classID
	s.mu.Unlock()
	if changed {
		s.broadcast()
	}
}

// SetCheckout opens the checkout form with the given prefill.
func (s *Store) SetCheckout(form domain.CheckoutForm) {
	form.Open = true
	s.mu.Lock()
	s.checkout = form
	s.mu.Unlock()
	s.broadcast()
}

// CloseCheckout hides the form and forgets whatever was entered.
func (s *Store) CloseCheckout() {
	s.mu.Lock()
	s.checkout = domain.CheckoutForm{}
	s.mu.Unlock()
	s.broadcast()
}

func (s *Store) AddActivity(tool, message, detail string) domain.AgentActivity {
	return s.feed.Add(tool, message, detail)
}

func (s *Store) DismissActivity(id string) bool {
	return s.feed.Dismiss(id)
}

func (s *Store) Activities(limit int) []domain.AgentActivity {
	return s.feed.List(limit)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Items:       s.itemsLocked(),
		TotalCents:  s.totalLocked(),
		Count:       len(s.items),
		HasSearched: s.hasSearched,
		SeatMapOpen: s.seatMapOpen,
		Checkout:    s.checkout,
	}
	s.mu.Unlock()
	snap.Activities = s.feed.List(0)
	return snap
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
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
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	snap := s.Snapshot()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) indexLocked(classID string) int {
	for i, it := range s.items {
		if it.Class.ID == classID {
			return i
		}
	}
	return -1
}

func (s *Store) itemsLocked() []domain.BookingItem {
	out := make([]domain.BookingItem, len(s.items))
	for i, it := range s.items {
		out[i] = cloneItem(it)
	}
	return out
}

func (s *Store) totalLocked() int64 {
	var total int64
	for _, it := range s.items {
		total += it.SubtotalCents()
	}
	return total
}

func cloneItem(it domain.BookingItem) domain.BookingItem {
	it.Seat = copySeat(it.Seat)
	return it
}

func copySeat(seat *domain.SelectedSeat) *domain.SelectedSeat {
	if seat == nil {
		return nil
	}
	c := *seat
	return &c
}

var _ BookingUseCase = (*Store)(nil)
