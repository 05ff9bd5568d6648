// Package session holds the simulated wallet connection of each browser.
//
// A session is either disconnected, with every identity field nil, or
// connected, with address, ENS name and chain id all set. Connect and
// Disconnect are the only transitions between the two; SwitchChain only
// changes the chain of a connected session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/chains"
)

var (
	// ErrNoProvider is returned when a handler asks for the session on a
	// route that is not wrapped by Provider. It is a wiring bug, not a
	// runtime condition.
	ErrNoProvider = errors.New("session: accessor used outside of session provider")

	ErrNotFound     = errors.New("session: not found")
	ErrExists       = errors.New("session: already exists")
	ErrNotConnected = errors.New("session: wallet not connected")
	ErrInvalidChain = errors.New("session: chain id must be positive")
)

// Event kinds published to realtime subscribers of a session.
const (
	EventConnected     = "session.connected"
	EventDisconnected  = "session.disconnected"
	EventChainSwitched = "session.chain_switched"
)

// Session is the simulated wallet state of one browser.
type Session struct {
	ID        string    `json:"id"`
	Connected bool      `json:"connected"`
	Address   *string   `json:"address"`
	ENSName   *string   `json:"ensName"`
	ChainID   *int64    `json:"chainId"`
	Loading   bool      `json:"isLoading"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is what a simulated wallet hands over on connect.
type Identity struct {
	Address string
	ENSName string
	ChainID int64
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
	Ping(ctx context.Context) error
}

// Publisher receives session changes for realtime fan-out.
type Publisher interface {
	PublishSession(sessionID, kind string, data any)
}

// Clone returns a deep copy so callers never share pointer fields.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Address != nil {
		v := *s.Address
		cp.Address = &v
	}
	if s.ENSName != nil {
		v := *s.ENSName
		cp.ENSName = &v
	}
	if s.ChainID != nil {
		v := *s.ChainID
		cp.ChainID = &v
	}
	return &cp
}

func (s *Session) connect(id Identity) {
	addr, ens, chain := id.Address, id.ENSName, id.ChainID
	s.Address = &addr
	s.ENSName = &ens
	s.ChainID = &chain
	s.Connected = true
}

func (s *Session) clear() {
	s.Connected = false
	s.Address = nil
	s.ENSName = nil
	s.ChainID = nil
	s.Loading = false
}

// ShortAddress formats the connected address as 0x1234...7890.
func (s *Session) ShortAddress() string {
	if s.Address == nil {
		return ""
	}
	return addressbook.ShortAddress(*s.Address)
}

// ChainName names the current chain, or "" when disconnected.
func (s *Session) ChainName() string {
	if s.ChainID == nil {
		return ""
	}
	return chains.Name(*s.ChainID)
}

// DisplayName is the ENS name when known, otherwise the short address.
func (s *Session) DisplayName() string {
	if s.ENSName != nil && *s.ENSName != "" {
		return *s.ENSName
	}
	return s.ShortAddress()
}
