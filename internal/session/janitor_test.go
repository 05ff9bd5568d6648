package session

import (
	"context"
	"testing"
	"time"

	"github.com/mbd888/peerpay/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_SweepExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, testIdentity, logging.Discard())
	j := NewJanitor(m, time.Hour, logging.Discard())

	now := time.Now()
	require.NoError(t, store.Create(ctx, &Session{ID: "idle", UpdatedAt: now.Add(-3 * time.Hour)}))
	require.NoError(t, store.Create(ctx, &Session{ID: "active", UpdatedAt: now.Add(-time.Minute)}))

	assert.Equal(t, 1, j.sweep(ctx, now))
	_, err := store.Get(ctx, "active")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJanitor_IntervalFloor(t *testing.T) {
	j := NewJanitor(nil, time.Second, logging.Discard())
	assert.Equal(t, time.Minute, j.interval)

	j = NewJanitor(nil, 24*time.Hour, logging.Discard())
	assert.Equal(t, 6*time.Hour, j.interval)
}

func TestJanitor_StartStop(t *testing.T) {
	m := NewManager(NewMemoryStore(), testIdentity, logging.Discard())
	j := NewJanitor(m, time.Hour, logging.Discard())

	done := make(chan struct{})
	go func() {
		j.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, j.Running, time.Second, 5*time.Millisecond)
	j.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
	assert.False(t, j.Running())
}
