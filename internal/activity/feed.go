// Package activity keeps the bounded feed of tool-triggered actions shown
// to a human observer. Entries expire on their own unless dismissed first.
package activity

import (
	"sync"
	"time"

	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 10
	DefaultTTL   = 6 * time.Second
)

type Feed struct {
	mu       sync.Mutex
	clock    clock.Clock
	limit    int
	ttl      time.Duration
	items    []domain.AgentActivity
	timers   map[string]clock.Timer
	onChange func()
}

type Option func(*Feed)

func WithLimit(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.limit = n
		}
	}
}

func WithTTL(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.ttl = d
		}
	}
}

// WithOnChange registers a callback invoked after every add, dismiss or
// expiry. It runs without the feed lock held.
func WithOnChange(fn func()) Option {
	return func(f *Feed) {
		f.onChange = fn
	}
}

func NewFeed(c clock.Clock, opts ...Option) *Feed {
	f := &Feed{
		clock:  c,
		limit:  DefaultLimit,
		ttl:    DefaultTTL,
		timers: make(map[string]clock.Timer),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Add records an activity at the head of the feed and schedules its expiry.
func (f *Feed) Add(tool, message, detail string) domain.AgentActivity {
	a := domain.AgentActivity{
		ID:        "act-" + uuid.NewString(),
		Tool:      tool,
		Message:   message,
		Detail:    detail,
		Timestamp: f.clock.Now(),
	}

	f.mu.Lock()
	f.items = append([]domain.AgentActivity{a}, f.items...)
	for len(f.items) > f.limit {
		evicted := f.items[len(f.items)-1]
		f.items = f.items[:len(f.items)-1]
		f.stopLocked(evicted.ID)
	}
	id := a.ID
	f.timers[id] = f.clock.AfterFunc(f.ttl, func() { f.Dismiss(id) })
	f.mu.Unlock()

	f.changed()
	return a
}

// Dismiss removes an activity and cancels its expiry. It reports whether
// the activity was still present.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	idx := -1
	for i, a := range f.items {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		f.mu.Unlock()
		return false
	}
	f.items = append(f.items[:idx:idx], f.items[idx+1:]...)
	f.stopLocked(id)
	f.mu.Unlock()

	f.changed()
	return true
}

// List returns up to limit activities, most recent first. A limit of zero
// or less returns all of them.
func (f *Feed) List(limit int) []domain.AgentActivity {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.items)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]domain.AgentActivity(nil), f.items[:n]...)
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *Feed) stopLocked(id string) {
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
}

func (f *Feed) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}
