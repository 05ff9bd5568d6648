package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/metrics"
	"github.com/mbd888/peerpay/internal/traces"
)

// Manager runs the simulated wallet transitions against a Store.
type Manager struct {
	store        Store
	identity     Identity
	logger       *slog.Logger
	publisher    Publisher
	connectDelay time.Duration
	locks        *lockTable
	now          func() time.Time
}

// NewManager creates a session manager that hands out identity on connect.
func NewManager(store Store, identity Identity, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		identity: identity,
		logger:   logger,
		locks:    newLockTable(),
		now:      time.Now,
	}
}

// WithPublisher pushes every transition to p.
func (m *Manager) WithPublisher(p Publisher) *Manager {
	m.publisher = p
	return m
}

// WithConnectDelay makes Connect hold the loading state for d before the
// wallet "answers". Zero connects immediately.
func (m *Manager) WithConnectDelay(d time.Duration) *Manager {
	m.connectDelay = d
	return m
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// Open returns the session with the given id, creating a fresh
// disconnected one when id is empty or unknown.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		s, err := m.store.Get(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}

	now := m.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Peek returns the stored session for id, or a disconnected session with
// no id when there is none. It never writes to the store.
func (m *Manager) Peek(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		s, err := m.store.Get(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}
	return &Session{}, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Connect simulates a wallet connection. The session passes through the
// loading state and ends connected with the configured identity. Failures
// are logged and leave the session as it was.
func (m *Manager) Connect(ctx context.Context, id string) *Session {
	ctx, span := traces.StartSpan(ctx, "session.connect", traces.SessionID(id))
	defer span.End()
	log := logging.L(ctx)

	unlock, err := m.locks.lock(ctx, id)
	if err != nil {
		log.Warn("connect abandoned while waiting for session lock", "error", err)
		return m.current(ctx, id)
	}
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		log.Error("failed to connect wallet", "error", err)
		return &Session{ID: id}
	}
	if s.Connected {
		return s
	}
	before := s.Clone()

	s.Loading = true
	s.UpdatedAt = m.now()
	if err := m.store.Update(ctx, s); err != nil {
		log.Error("failed to connect wallet", "error", err)
		return before
	}

	if m.connectDelay > 0 {
		t := time.NewTimer(m.connectDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			log.Warn("connect cancelled", "error", ctx.Err())
			m.restore(before)
			return before
		}
	}

	s.connect(m.identity)
	s.Loading = false
	s.UpdatedAt = m.now()
	if err := m.store.Update(ctx, s); err != nil {
		log.Error("failed to connect wallet", "error", err)
		m.restore(before)
		return before
	}

	metrics.SessionTransitionsTotal.WithLabelValues("connect").Inc()
	log.Info("wallet connected", "address", s.ShortAddress(), "chain_id", *s.ChainID)
	m.publish(EventConnected, s)
	return s
}

// Disconnect clears every identity field. Failures are logged and leave
// the session as it was.
func (m *Manager) Disconnect(ctx context.Context, id string) *Session {
	ctx, span := traces.StartSpan(ctx, "session.disconnect", traces.SessionID(id))
	defer span.End()
	log := logging.L(ctx)

	unlock, err := m.locks.lock(ctx, id)
	if err != nil {
		log.Warn("disconnect abandoned while waiting for session lock", "error", err)
		return m.current(ctx, id)
	}
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		log.Error("failed to disconnect wallet", "error", err)
		return &Session{ID: id}
	}
	before := s.Clone()

	s.clear()
	s.UpdatedAt = m.now()
	if err := m.store.Update(ctx, s); err != nil {
		log.Error("failed to disconnect wallet", "error", err)
		return before
	}

	metrics.SessionTransitionsTotal.WithLabelValues("disconnect").Inc()
	if before.Connected {
		log.Info("wallet disconnected")
	}
	m.publish(EventDisconnected, s)
	return s
}

// SwitchChain sets the chain of a connected session. Chain ids the
// registry does not know are accepted.
func (m *Manager) SwitchChain(ctx context.Context, id string, chainID int64) (*Session, error) {
	ctx, span := traces.StartSpan(ctx, "session.switch_chain", traces.SessionID(id), traces.ChainID(chainID))
	defer span.End()
	log := logging.L(ctx)

	if chainID <= 0 {
		return nil, ErrInvalidChain
	}

	unlock, err := m.locks.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		log.Error("failed to switch chain", "error", err)
		return nil, err
	}
	if !s.Connected {
		return nil, ErrNotConnected
	}

	s.ChainID = &chainID
	s.UpdatedAt = m.now()
	if err := m.store.Update(ctx, s); err != nil {
		log.Error("failed to switch chain", "error", err)
		return nil, fmt.Errorf("switch chain: %w", err)
	}

	metrics.SessionTransitionsTotal.WithLabelValues("switch_chain").Inc()
	log.Info("chain switched", "chain_id", chainID, "chain", s.ChainName())
	m.publish(EventChainSwitched, s)
	return s, nil
}

// Expire deletes sessions untouched since before.
func (m *Manager) Expire(ctx context.Context, before time.Time) (int, error) {
	return m.store.DeleteIdle(ctx, before)
}

func (m *Manager) current(ctx context.Context, id string) *Session {
	s, err := m.store.Get(context.WithoutCancel(ctx), id)
	if err != nil {
		return &Session{ID: id}
	}
	return s
}

// restore writes back a snapshot on a context detached from the request.
func (m *Manager) restore(s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Update(ctx, s.Clone()); err != nil {
		m.logger.Error("failed to restore session", "session_id", logging.ShortID(s.ID), "error", err)
	}
}

func (m *Manager) publish(kind string, s *Session) {
	if m.publisher == nil {
		return
	}
	m.publisher.PublishSession(s.ID, kind, s.Clone())
}
