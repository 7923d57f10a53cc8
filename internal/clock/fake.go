package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock only moves when Advance is called. Timers that come due are
// fired in deadline order on the goroutine calling Advance.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending map[int]*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	id       int
	deadline time.Time
	f        func()
}

func Fake(start time.Time) *FakeClock {
	return &FakeClock{now: start, pending: make(map[int]*fakeTimer)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	c.nextID++
	t := &fakeTimer{clock: c, id: c.nextID, deadline: c.now.Add(d), f: f}
	c.pending[t.id] = t
	c.mu.Unlock()
	return t
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Advance moves time forward and fires every timer whose deadline is
// reached. Callbacks run without the clock lock held.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for id, t := range c.pending {
		if !t.deadline.After(c.now) {
			due = append(due, t)
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.pending[t.id]; !ok {
		return false
	}
	delete(t.clock.pending, t.id)
	return true
}
