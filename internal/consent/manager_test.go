package consent

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func newManager(t *testing.T, storage Storage) *Manager {
	t.Helper()
	mgr, err := NewManager(context.Background(), storage, clock.Fake(epoch), logger.NewNop(), nil)
	require.NoError(t, err)
	return mgr
}

func event(name string) domain.Event {
	return domain.Event{Kind: domain.EventStandard, Name: name, Source: domain.SourceAgent, Payload: map[string]any{}}
}

func TestManager_DefaultsToPending(t *testing.T) {
	mgr := newManager(t, NewMemoryStorage())
	assert.Equal(t, domain.ConsentPending, mgr.State())
	assert.Empty(t, mgr.Timestamp())
}

func TestManager_SeedsFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, StorageKey, "denied"))
	require.NoError(t, storage.Set(ctx, TimestampKey, "2026-03-01T10:00:00.000Z"))

	mgr := newManager(t, storage)
	assert.Equal(t, domain.ConsentDenied, mgr.State())
	assert.Equal(t, "2026-03-01T10:00:00.000Z", mgr.Timestamp())
}

func TestManager_UnknownStoredValueIsPending(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(context.Background(), StorageKey, "maybe"))
	assert.Equal(t, domain.ConsentPending, newManager(t, storage).State())
}

func TestManager_GrantReplaysBufferInOrder(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	mgr := newManager(t, storage)

	var replayed []string
	mgr.SetFlusher(func(_ context.Context, ev domain.Event) {
		assert.Equal(t, domain.ConsentGranted, mgr.State(), "state must be granted while draining")
		replayed = append(replayed, ev.Name)
	})

	for _, name := range []string{"a", "b", "c"} {
		assert.True(t, mgr.BufferOrDrop(event(name)))
	}
	assert.Equal(t, 3, mgr.Buffered())

	changed, err := mgr.Grant(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"a", "b", "c"}, replayed)
	assert.Equal(t, 0, mgr.Buffered())
	assert.Equal(t, "2026-03-15T08:00:00.000Z", mgr.Timestamp())

	stored, ok, _ := storage.Get(ctx, StorageKey)
	assert.True(t, ok)
	assert.Equal(t, "granted", stored)

	assert.False(t, mgr.BufferOrDrop(event("d")), "granted events are sent by the caller")

	changed, err = mgr.Grant(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, replayed, 3, "buffer is drained exactly once")
}

func TestManager_SendDuringReplayWaitsForBuffer(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, NewMemoryStorage())

	var (
		mu   sync.Mutex
		got  []string
		wg   sync.WaitGroup
		once sync.Once
	)
	mgr.SetFlusher(func(_ context.Context, ev domain.Event) {
		once.Do(func() {
			started := make(chan struct{})
			wg.Add(1)
			go func() {
				defer wg.Done()
				close(started)
				mgr.Send(ctx, event("late"))
			}()
			<-started
			time.Sleep(20 * time.Millisecond)
		})
		mu.Lock()
		got = append(got, ev.Name)
		mu.Unlock()
	})

	for _, name := range []string{"a", "b", "c"} {
		mgr.Send(ctx, event(name))
	}
	require.Equal(t, 3, mgr.Buffered())

	changed, err := mgr.Grant(ctx)
	require.NoError(t, err)
	require.True(t, changed)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c", "late"}, got)
}

func TestManager_SendDeliversOnceGranted(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, NewMemoryStorage())

	var got []string
	mgr.SetFlusher(func(_ context.Context, ev domain.Event) { got = append(got, ev.Name) })

	mgr.Send(ctx, event("a"))
	assert.Empty(t, got)

	_, err := mgr.Grant(ctx)
	require.NoError(t, err)
	mgr.Send(ctx, event("b"))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestManager_DenyDiscardsBuffer(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, NewMemoryStorage())

	flushed := 0
	mgr.SetFlusher(func(context.Context, domain.Event) { flushed++ })

	mgr.BufferOrDrop(event("a"))
	mgr.BufferOrDrop(event("b"))

	changed, err := mgr.Deny(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, mgr.Buffered())

	assert.True(t, mgr.BufferOrDrop(event("c")))
	assert.Equal(t, 0, mgr.Buffered(), "denied events are not queued")

	changed, err = mgr.Grant(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.ConsentDenied, mgr.State())
	assert.Equal(t, 0, flushed)
}

func TestManager_SubscribersNotified(t *testing.T) {
	mgr := newManager(t, NewMemoryStorage())
	var got []domain.ConsentState
	unsubscribe := mgr.Subscribe(func(s domain.ConsentState) { got = append(got, s) })

	_, err := mgr.Deny(context.Background())
	require.NoError(t, err)
	unsubscribe()

	assert.Equal(t, []domain.ConsentState{domain.ConsentDenied}, got)
}

func TestManager_StorageFailureLeavesPending(t *testing.T) {
	ctx := context.Background()
	storage := &MockStorage{}
	storage.On("Get", ctx, StorageKey).Return("", false, nil).Once()
	storage.On("Set", ctx, TimestampKey, mock.Anything).Return(errors.New("disk full")).Once()

	mgr, err := NewManager(ctx, storage, clock.Fake(epoch), logger.NewNop(), nil)
	require.NoError(t, err)
	mgr.BufferOrDrop(event("a"))

	changed, err := mgr.Grant(ctx)
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.ConsentPending, mgr.State())
	assert.Equal(t, 1, mgr.Buffered())

	storage.AssertExpectations(t)
	storage.AssertNotCalled(t, "Set", ctx, StorageKey, mock.Anything)
}

func TestNewManager_ReadError(t *testing.T) {
	ctx := context.Background()
	storage := &MockStorage{}
	storage.On("Get", ctx, StorageKey).Return("", false, errors.New("connection refused")).Once()

	mgr, err := NewManager(ctx, storage, clock.Fake(epoch), logger.NewNop(), nil)
	assert.Error(t, err)
	assert.Nil(t, mgr)
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "consent.json")

	storage := NewFileStorage(path)
	_, ok, err := storage.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, StorageKey, "granted"))
	require.NoError(t, storage.Set(ctx, TimestampKey, "2026-03-15T08:00:00.000Z"))

	reopened := NewFileStorage(path)
	v, ok, err := reopened.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "granted", v)

	mgr := newManager(t, reopened)
	assert.Equal(t, domain.ConsentGranted, mgr.State())
	assert.Equal(t, "2026-03-15T08:00:00.000Z", mgr.Timestamp())
}
