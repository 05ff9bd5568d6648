package requests

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// MemoryStore holds a fixed, read-only list of requests.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*PaymentRequest
}

// NewMemoryStore creates a store holding reqs in the given order. IDs must
// be unique.
func NewMemoryStore(reqs []*PaymentRequest) (*MemoryStore, error) {
	m := &MemoryStore{byID: make(map[string]*PaymentRequest, len(reqs))}
	for _, r := range reqs {
		if _, ok := m.byID[r.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, r.ID)
		}
		cp := *r
		m.order = append(m.order, r.ID)
		m.byID[r.ID] = &cp
	}
	return m, nil
}

// NewSeededStore creates a store holding the embedded sample requests.
func NewSeededStore() (*MemoryStore, error) {
	reqs, err := Seed()
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(reqs)
}

func (m *MemoryStore) List(_ context.Context) ([]*PaymentRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*PaymentRequest, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*PaymentRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

type seedFile struct {
	Requests []seedRequest `yaml:"requests"`
}

type seedRequest struct {
	ID        string `yaml:"id"`
	Direction string `yaml:"direction"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Amount    string `yaml:"amount"`
	Token     string `yaml:"token"`
	Status    string `yaml:"status"`
	Timestamp string `yaml:"timestamp"`
}

// Seed parses the embedded sample requests.
func Seed() ([]*PaymentRequest, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed parses a YAML document of sample requests.
func ParseSeed(data []byte) ([]*PaymentRequest, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]bool, len(f.Requests))
	out := make([]*PaymentRequest, 0, len(f.Requests))
	for i, sr := range f.Requests {
		r, err := sr.toRequest()
		if err != nil {
			return nil, fmt.Errorf("seed request %d: %w", i, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("seed request %d: %w: %q", i, ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

func (sr seedRequest) toRequest() (*PaymentRequest, error) {
	if sr.ID == "" {
		return nil, fmt.Errorf("missing id")
	}

	dir := Direction(sr.Direction)
	if dir != Incoming && dir != Outgoing {
		return nil, fmt.Errorf("unknown direction %q", sr.Direction)
	}

	status := Status(sr.Status)
	switch status {
	case StatusPending, StatusPaid, StatusDeclined:
	default:
		return nil, fmt.Errorf("unknown status %q", sr.Status)
	}

	amount, err := decimal.NewFromString(sr.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", sr.Amount, err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount %q must be positive", sr.Amount)
	}

	if !IsSupportedToken(sr.Token) {
		return nil, fmt.Errorf("unsupported token %q", sr.Token)
	}

	ts, err := time.Parse(time.RFC3339, sr.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("timestamp %q: %w", sr.Timestamp, err)
	}

	return &PaymentRequest{
		ID:        sr.ID,
		Direction: dir,
		From:      sr.From,
		To:        sr.To,
		Amount:    amount,
		Token:     sr.Token,
		Status:    status,
		Timestamp: ts,
	}, nil
}

var _ Store = (*MemoryStore)(nil)
