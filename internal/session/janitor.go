package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Janitor periodically deletes sessions that have been idle longer than
// the session TTL.
type Janitor struct {
	manager  *Manager
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewJanitor creates an idle-session janitor.
func NewJanitor(manager *Manager, ttl time.Duration, logger *slog.Logger) *Janitor {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Janitor{
		manager:  manager,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Running reports whether the loop is active.
func (j *Janitor) Running() bool {
	return j.running.Load()
}

// Start runs the sweep loop until ctx is done or Stop is called.
func (j *Janitor) Start(ctx context.Context) {
	j.running.Store(true)
	defer j.running.Store(false)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stop:
			return
		case <-ticker.C:
			j.safeSweep(ctx)
		}
	}
}

// Stop signals the loop to exit. It is safe to call more than once.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *Janitor) safeSweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error("panic in session janitor", "panic", fmt.Sprint(r))
		}
	}()
	j.sweep(ctx, time.Now())
}

func (j *Janitor) sweep(ctx context.Context, now time.Time) int {
	n, err := j.manager.Expire(ctx, now.Add(-j.ttl))
	if err != nil {
		j.logger.Warn("failed to expire idle sessions", "error", err)
		return 0
	}
	if n > 0 {
		j.logger.Info("expired idle sessions", "count", n)
	}
	return n
}
