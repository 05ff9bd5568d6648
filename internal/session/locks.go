package session

import (
	"context"
	"hash/fnv"
)

const lockShards = 64

// lockTable serializes transitions per session id. Shards are buffered
// channels so a waiter can give up when its request is cancelled.
type lockTable struct {
	shards [lockShards]chan struct{}
}

func newLockTable() *lockTable {
	t := &lockTable{}
	for i := range t.shards {
		t.shards[i] = make(chan struct{}, 1)
	}
	return t
}

func (t *lockTable) lock(ctx context.Context, id string) (func(), error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	ch := t.shards[h.Sum32()%lockShards]

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
