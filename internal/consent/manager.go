// Package consent gates outbound telemetry behind a one-way decision.
//
// The state starts pending. While pending, events are held in memory;
// a grant replays them in order and opens the channel for good, a denial
// discards them. The decision is persisted so it survives restarts.
package consent

import (
	"context"
	"fmt"
	"sync"

	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
)

const (
	StorageKey   = "analytics_consent"
	TimestampKey = "analytics_consent_timestamp"

	// timestampLayout renders like ISO-8601 with millisecond precision.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Storage is the durable key/value store holding the decision.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Flusher delivers a buffered event once consent is granted.
type Flusher func(ctx context.Context, event domain.Event)

type Manager struct {
	// sendMu orders live sends against the replay on grant.
	sendMu    sync.Mutex
	mu        sync.Mutex
	storage   Storage
	clock     clock.Clock
	log       logger.Logger
	metrics   *metrics.Metrics
	state     domain.ConsentState
	timestamp string
	buffer    []domain.Event
	flush     Flusher
	subs      map[int]func(domain.ConsentState)
	nextSub   int
}

// NewManager seeds the manager from storage. A missing entry means pending.
func NewManager(ctx context.Context, storage Storage, c clock.Clock, log logger.Logger, m *metrics.Metrics) (*Manager, error) {
	mgr := &Manager{
		storage: storage,
		clock:   c,
		log:     log,
		metrics: m,
		state:   domain.ConsentPending,
		subs:    make(map[int]func(domain.ConsentState)),
	}

	raw, ok, err := storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read consent state: %w", err)
	}
	if ok {
		mgr.state = domain.ParseConsentState(raw)
	}
	if mgr.state.Decided() {
		ts, _, err := storage.Get(ctx, TimestampKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read consent timestamp: %w", err)
		}
		mgr.timestamp = ts
	}

	log.Info("consent state loaded", "state", mgr.state, "timestamp", mgr.timestamp)
	return mgr, nil
}

func (m *Manager) State() domain.ConsentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Timestamp is the decision time, empty while pending.
func (m *Manager) Timestamp() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timestamp
}

// SetFlusher installs the delivery function used when draining the buffer.
func (m *Manager) SetFlusher(f Flusher) {
	m.mu.Lock()
	m.flush = f
	m.mu.Unlock()
}

// Buffered returns the number of events waiting for a decision.
func (m *Manager) Buffered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffer)
}

// Subscribe registers fn to be called after every decision.
func (m *Manager) Subscribe(fn func(domain.ConsentState)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Grant records consent and replays the buffer in FIFO order. It reports
// false without side effects when a decision already exists.
func (m *Manager) Grant(ctx context.Context) (bool, error) {
	m.sendMu.Lock()
	drained, changed, err := m.decide(ctx, domain.ConsentGranted)
	if err != nil || !changed {
		m.sendMu.Unlock()
		return changed, err
	}

	if flush := m.flusher(); flush != nil {
		for _, ev := range drained {
			flush(ctx, ev)
		}
	}
	m.sendMu.Unlock()

	m.log.Info("analytics consent granted", "replayed", len(drained))
	m.notify(domain.ConsentGranted)
	return true, nil
}

// Deny records the refusal and discards every buffered event.
func (m *Manager) Deny(ctx context.Context) (bool, error) {
	drained, changed, err := m.decide(ctx, domain.ConsentDenied)
	if err != nil || !changed {
		return changed, err
	}
	m.log.Info("analytics consent denied", "discarded", len(drained))
	m.notify(domain.ConsentDenied)
	return true, nil
}

func (m *Manager) decide(ctx context.Context, to domain.ConsentState) ([]domain.Event, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Decided() {
		return nil, false, nil
	}

	ts := m.clock.Now().UTC().Format(timestampLayout)
	if err := m.storage.Set(ctx, TimestampKey, ts); err != nil {
		return nil, false, fmt.Errorf("failed to persist consent timestamp: %w", err)
	}
	if err := m.storage.Set(ctx, StorageKey, string(to)); err != nil {
		return nil, false, fmt.Errorf("failed to persist consent state: %w", err)
	}

	m.state = to
	m.timestamp = ts
	drained := m.buffer
	m.buffer = nil
	m.metrics.Buffered(0)
	m.metrics.Decision(string(to))
	return drained, true, nil
}

// Send delivers event through the flusher when consent is granted, and
// buffers or drops it otherwise. Events sent while a grant is replaying
// the buffer are delivered after it.
func (m *Manager) Send(ctx context.Context, event domain.Event) {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	if m.BufferOrDrop(event) {
		return
	}
	if flush := m.flusher(); flush != nil {
		flush(ctx, event)
	}
}

func (m *Manager) flusher() Flusher {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flush
}

// BufferOrDrop reports whether the caller must not send the event. Pending
// events are queued, denied events are discarded, granted events are left
// to the caller.
func (m *Manager) BufferOrDrop(event domain.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case domain.ConsentGranted:
		return false
	case domain.ConsentDenied:
		m.metrics.Event("dropped")
		return true
	default:
		m.buffer = append(m.buffer, event)
		m.metrics.Event("buffered")
		m.metrics.Buffered(len(m.buffer))
		return true
	}
}

func (m *Manager) notify(state domain.ConsentState) {
	m.mu.Lock()
	subs := make([]func(domain.ConsentState), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
