package requests

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(reqs []*PaymentRequest) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

func TestSeed(t *testing.T) {
	reqs, err := Seed()
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	want := &PaymentRequest{
		ID:        "1",
		Direction: Incoming,
		From:      "john.eth",
		To:        "amaka.eth",
		Amount:    decimal.NewFromInt(50),
		Token:     "USDC",
		Status:    StatusPending,
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	opt := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, reqs[0], opt); diff != "" {
		t.Errorf("first seed request mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(reqs))
}

func TestSplit_SampleData(t *testing.T) {
	reqs, err := Seed()
	require.NoError(t, err)

	p := Split(reqs)
	assert.Len(t, p.Incoming, 1)
	assert.Len(t, p.Outgoing, 1)
	assert.Len(t, p.History, 1)

	assert.Equal(t, []string{"1"}, ids(p.Incoming))
	assert.Equal(t, []string{"2"}, ids(p.Outgoing))
	assert.Equal(t, []string{"3"}, ids(p.History))
	assert.Equal(t, map[string]int{"incoming": 1, "outgoing": 1, "history": 1}, p.Counts())
}

func TestSplit_OverlapAndOrder(t *testing.T) {
	reqs := []*PaymentRequest{
		{ID: "a", Direction: Outgoing, Status: StatusPaid},
		{ID: "b", Direction: Incoming, Status: StatusDeclined},
		{ID: "c", Direction: Incoming, Status: StatusPending},
		{ID: "d", Direction: Outgoing, Status: StatusPending},
		{ID: "e", Direction: Incoming, Status: StatusPending},
	}

	p := Split(reqs)
	assert.Equal(t, []string{"c", "e"}, ids(p.Incoming))
	assert.Equal(t, []string{"a", "d"}, ids(p.Outgoing))
	assert.Equal(t, []string{"a", "b"}, ids(p.History))
}

func TestSplit_Empty(t *testing.T) {
	p := Split(nil)
	assert.NotNil(t, p.Incoming)
	assert.NotNil(t, p.Outgoing)
	assert.NotNil(t, p.History)
	assert.Empty(t, p.Incoming)
}

func TestPaymentRequest_Helpers(t *testing.T) {
	in := &PaymentRequest{Direction: Incoming, From: "john.eth", To: "amaka.eth", Amount: decimal.RequireFromString("50"), Token: "USDC", Status: StatusPending}
	out := &PaymentRequest{Direction: Outgoing, From: "amaka.eth", To: "sarah.eth", Amount: decimal.RequireFromString("25.5"), Token: "DAI", Status: StatusPaid}

	assert.Equal(t, "john.eth", in.Counterparty())
	assert.Equal(t, "sarah.eth", out.Counterparty())
	assert.True(t, in.IsPending())
	assert.False(t, out.IsPending())
	assert.Equal(t, "$50 USDC", in.AmountLabel())
	assert.Equal(t, "$25.5 DAI", out.AmountLabel())
}

func TestIsSupportedToken(t *testing.T) {
	for _, tok := range Tokens {
		assert.True(t, IsSupportedToken(tok), tok)
	}
	assert.False(t, IsSupportedToken("usdc"))
	assert.False(t, IsSupportedToken("BTC"))
	assert.True(t, IsSupportedToken(DefaultToken))
}

func TestParseSeed_Errors(t *testing.T) {
	base := `requests:
  - id: "1"
    direction: incoming
    from: a.eth
    to: b.eth
    amount: "1"
    token: USDC
    status: pending
    timestamp: "2024-01-01T00:00:00Z"
`
	_, err := ParseSeed([]byte(base))
	require.NoError(t, err)

	tests := []struct {
		name, old, new, want string
	}{
		{"direction", "direction: incoming", "direction: sideways", "unknown direction"},
		{"status", "status: pending", "status: lost", "unknown status"},
		{"amount", `amount: "1"`, `amount: "abc"`, "amount"},
		{"negative", `amount: "1"`, `amount: "-1"`, "must be positive"},
		{"token", "token: USDC", "token: BTC", "unsupported token"},
		{"timestamp", `timestamp: "2024-01-01T00:00:00Z"`, `timestamp: "yesterday"`, "timestamp"},
		{"id", `id: "1"`, `id: ""`, "missing id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(strings.Replace(base, tt.old, tt.new, 1)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	dup := base + strings.TrimPrefix(base, "requests:\n")
	_, err = ParseSeed([]byte(dup))
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), `"1"`)

	_, err = ParseSeed([]byte("requests: ["))
	assert.Error(t, err)
}

func TestNewMemoryStore_RejectsDuplicateIDs(t *testing.T) {
	reqs, err := Seed()
	require.NoError(t, err)

	_, err = NewMemoryStore(append(reqs, reqs[0]))
	require.ErrorIs(t, err, ErrDuplicateID)

	store, err := NewMemoryStore(reqs)
	require.NoError(t, err)
	got, err := store.List(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(ids(reqs), ids(got)); diff != "" {
		t.Errorf("List ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store, err := NewSeededStore()
	require.NoError(t, err)
	ctx := context.Background()

	r, err := store.Get(ctx, "1")
	require.NoError(t, err)
	r.Status = StatusPaid

	again, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)

	_, err = store.Get(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Partition(t *testing.T) {
	store, err := NewSeededStore()
	require.NoError(t, err)

	p, err := NewService(store).Partition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"incoming": 1, "outgoing": 1, "history": 1}, p.Counts())
}
