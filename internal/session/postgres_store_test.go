package session

import (
	"context"
	"testing"
	"time"

	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Lifecycle(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPostgresStore(db)
	require.NoError(t, store.Ping(ctx))

	m := NewManager(store, testIdentity, logging.Discard())
	s, err := m.Open(ctx, "")
	require.NoError(t, err)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assertDisconnected(t, got)

	assert.ErrorIs(t, store.Create(ctx, got), ErrExists)

	connected := m.Connect(ctx, s.ID)
	require.True(t, connected.Connected)

	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Address)
	assert.Equal(t, testIdentity.Address, *got.Address)
	assert.Equal(t, testIdentity.ENSName, *got.ENSName)
	assert.Equal(t, testIdentity.ChainID, *got.ChainID)

	_, err = m.SwitchChain(ctx, s.ID, 137)
	require.NoError(t, err)
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(137), *got.ChainID)

	m.Disconnect(ctx, s.ID)
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assertDisconnected(t, got)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, s.ID), ErrNotFound)
}

func TestPostgresStore_UpdateMissing(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	err := NewPostgresStore(db).Update(context.Background(), &Session{ID: "nope", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_DeleteIdle(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPostgresStore(db)
	now := time.Now().UTC()

	require.NoError(t, store.Create(ctx, &Session{ID: "old", CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Create(ctx, &Session{ID: "fresh", CreatedAt: now, UpdatedAt: now}))

	n, err := store.DeleteIdle(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
}
