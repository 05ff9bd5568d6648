// Package requests serves the static sample payment requests and splits
// them into the dashboard's incoming, outgoing and history views.
package requests

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("requests: not found")
	ErrDuplicateID = errors.New("requests: duplicate id")
)

// Direction is which way money would flow.
type Direction string

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
)

// Status is the lifecycle state of a request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusDeclined Status = "declined"
)

// Tokens are the symbols offered by the request and send forms.
var Tokens = []string{"USDC", "USDT", "DAI", "ETH", "MATIC"}

// DefaultToken is preselected on the forms.
const DefaultToken = "USDC"

// IsSupportedToken reports whether symbol is one of Tokens.
func IsSupportedToken(symbol string) bool {
	for _, t := range Tokens {
		if t == symbol {
			return true
		}
	}
	return false
}

// PaymentRequest is one sample request.
type PaymentRequest struct {
	ID        string          `json:"id"`
	Direction Direction       `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
	Status    Status          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// Counterparty is the other side of the request: the sender of an
// incoming request, the recipient of an outgoing one.
func (r *PaymentRequest) Counterparty() string {
	if r.Direction == Incoming {
		return r.From
	}
	return r.To
}

// IsPending reports whether the request still awaits an answer.
func (r *PaymentRequest) IsPending() bool {
	return r.Status == StatusPending
}

// AmountLabel renders the amount the way the dashboard shows it, "$50 USDC".
func (r *PaymentRequest) AmountLabel() string {
	return "$" + r.Amount.String() + " " + r.Token
}

// Store reads payment requests.
type Store interface {
	List(ctx context.Context) ([]*PaymentRequest, error)
	Get(ctx context.Context, id string) (*PaymentRequest, error)
}

// Partition is the dashboard's three tabs.
type Partition struct {
	Incoming []*PaymentRequest `json:"incoming"`
	Outgoing []*PaymentRequest `json:"outgoing"`
	History  []*PaymentRequest `json:"history"`
}

// Split partitions reqs in one pass, keeping input order within each tab.
// A paid incoming request lands only in History; a paid outgoing request
// lands in both Outgoing and History.
func Split(reqs []*PaymentRequest) Partition {
	p := Partition{
		Incoming: []*PaymentRequest{},
		Outgoing: []*PaymentRequest{},
		History:  []*PaymentRequest{},
	}
	for _, r := range reqs {
		if r.Direction == Incoming && r.Status == StatusPending {
			p.Incoming = append(p.Incoming, r)
		}
		if r.Direction == Outgoing {
			p.Outgoing = append(p.Outgoing, r)
		}
		if r.Status != StatusPending {
			p.History = append(p.History, r)
		}
	}
	return p
}

// Counts returns the tab sizes.
func (p Partition) Counts() map[string]int {
	return map[string]int{
		"incoming": len(p.Incoming),
		"outgoing": len(p.Outgoing),
		"history":  len(p.History),
	}
}

// Service answers request queries.
type Service struct {
	store Store
}

// NewService creates a request service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every request in insertion order.
func (s *Service) List(ctx context.Context) ([]*PaymentRequest, error) {
	return s.store.List(ctx)
}

// Get returns one request.
func (s *Service) Get(ctx context.Context, id string) (*PaymentRequest, error) {
	return s.store.Get(ctx, id)
}

// Partition lists and splits all requests.
func (s *Service) Partition(ctx context.Context) (Partition, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return Partition{}, err
	}
	return Split(all), nil
}
