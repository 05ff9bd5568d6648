package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/modals"
	"github.com/mbd888/peerpay/internal/requests"
	"github.com/mbd888/peerpay/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCookie  = "peerpay_session"
	mockAddress = "0x1234567890123456789012345678901234567890"
)

type fixture struct {
	router   *gin.Engine
	sessions *session.Manager
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(session.NewMemoryStore(), session.Identity{
		Address: mockAddress,
		ENSName: "demo.eth",
		ChainID: 1,
	}, logging.Discard())

	store, err := requests.NewSeededStore()
	require.NoError(t, err)
	reqs := requests.NewService(store)
	validator := addressbook.NewValidator(addressbook.NewStaticResolver(mockAddress, "friend.eth"))

	h, err := NewHandler(sessions, reqs, modals.NewService(validator, reqs, mockAddress), validator)
	require.NoError(t, err)

	r := gin.New()
	r.Use(session.Provider(sessions, session.CookieConfig{Name: testCookie, TTL: time.Hour}))
	h.RegisterRoutes(r)
	r.NoRoute(h.NotFound)
	return &fixture{router: r, sessions: sessions}
}

// newSession opens a session, optionally connected, and returns its cookie.
func (f *fixture) newSession(t *testing.T, connected bool) *http.Cookie {
	t.Helper()
	s, err := f.sessions.Open(context.Background(), "")
	require.NoError(t, err)
	if connected {
		require.True(t, f.sessions.Connect(context.Background(), s.ID).Connected)
	}
	return &http.Cookie{Name: testCookie, Value: s.ID}
}

func (f *fixture) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGuardRedirects(t *testing.T) {
	f := setup(t)
	guest := f.newSession(t, false)
	member := f.newSession(t, true)

	for _, path := range []string{"/dashboard", "/request", "/send", "/requests", "/inbox", "/settings", "/giveaway"} {
		w := f.get(path, guest)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)

		w = f.get(path, member)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := f.get("/", member)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = f.get("/", guest)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Connect Wallet")
}

func TestNotFound(t *testing.T) {
	f := setup(t)

	for _, cookie := range []*http.Cookie{nil, f.newSession(t, true)} {
		w := f.get("/no/such/page", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Page not found")
	}
}

func TestConnectAndDisconnectForms(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, false)

	w := f.post("/connect", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	s, err := f.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.True(t, s.Connected)

	w = f.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "demo.eth")
	assert.Contains(t, body, "0x1234...7890")
	assert.Contains(t, body, "Ethereum")

	w = f.post("/disconnect", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	s, err = f.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.False(t, s.Connected)
	assert.Nil(t, s.Address)
}

func TestDashboardTabs(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Incoming (1)")
	assert.Contains(t, body, "Outgoing (1)")
	assert.Contains(t, body, "History (1)")
	assert.Contains(t, body, "john.eth")
	assert.Contains(t, body, "Requesting $50 USDC")
	assert.Contains(t, body, `action="/decline/1"`)

	w = f.get("/dashboard?tab=outgoing", cookie)
	body = w.Body.String()
	assert.Contains(t, body, "sarah.eth")
	assert.NotContains(t, body, "john.eth")

	w = f.get("/dashboard?tab=history", cookie)
	body = w.Body.String()
	assert.Contains(t, body, "mike.eth")
	assert.Contains(t, body, "status-paid")

	w = f.get("/dashboard?tab=bogus", cookie)
	assert.Contains(t, w.Body.String(), "john.eth")
}

func TestPayFlow(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.get("/dashboard?pay=1", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Pay Request")
	assert.Contains(t, body, "~$0.50 USDC (estimated)")
	assert.Contains(t, body, `action="/pay/1"`)

	w = f.post("/pay/1", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Payment sent")

	w = f.post("/pay/2", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = f.post("/pay/404", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.get("/dashboard?pay=404", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeclineIsNoop(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.post("/decline/1", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = f.get("/dashboard", cookie)
	assert.Contains(t, w.Body.String(), "Incoming (1)")
}

func TestRequestForm(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.get("/request", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "New Payment Request")
	assert.Contains(t, body, "Review Request")
	for _, tok := range requests.Tokens {
		assert.Contains(t, body, `value="`+tok+`"`)
	}

	w = f.get("/send", cookie)
	body = w.Body.String()
	assert.Contains(t, body, "Send Payment")
	assert.Contains(t, body, `value="send"`)
}

func TestReviewValid(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.post("/request/review", url.Values{
		"recipient": {"vitalik.eth"},
		"amount":    {"12.5"},
		"token":     {"DAI"},
		"mode":      {"request"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Review Request")
	assert.Contains(t, body, "vitalik.eth")
	assert.Contains(t, body, "$12.5 DAI")
	assert.Contains(t, body, "~$0.50 USDC (estimated)")
	assert.Contains(t, body, `href="/dashboard"`)
}

func TestReviewSendTitle(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.post("/request/review", url.Values{
		"recipient": {mockAddress},
		"amount":    {"1"},
		"mode":      {"send"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Review Payment")
	assert.Contains(t, body, "friend.eth")
	assert.Contains(t, body, "USDC")
}

func TestReviewInvalid(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.post("/request/review", url.Values{
		"recipient": {"bob"},
		"amount":    {"-3"},
		"mode":      {"request"},
	}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, addressbook.InvalidMessage)
	assert.Contains(t, body, `value="bob"`)
	assert.Contains(t, body, `class="field-error"`)
}

func TestReviewEmptyForm(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.post("/request/review", url.Values{}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "New Payment Request")
}

func TestSettingsSwitchChain(t *testing.T) {
	f := setup(t)
	cookie := f.newSession(t, true)

	w := f.get("/settings", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Base Sepolia")

	w = f.post("/settings/chain", url.Values{"chainId": {"8453"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/settings", w.Header().Get("Location"))

	s, err := f.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, s.ChainID)
	assert.Equal(t, int64(8453), *s.ChainID)

	w = f.get("/settings", cookie)
	assert.Contains(t, w.Body.String(), `value="8453" checked`)

	w = f.post("/settings/chain", url.Values{"chainId": {"0"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.post("/settings/chain", url.Values{"chainId": {"abc"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Pick a network")
}

func TestProtectedPostsRedirectGuests(t *testing.T) {
	f := setup(t)
	guest := f.newSession(t, false)

	for _, path := range []string{"/settings/chain", "/request/review", "/pay/1", "/decline/1"} {
		w := f.post(path, url.Values{}, guest)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}
}

func TestHueIsStable(t *testing.T) {
	assert.Equal(t, hue(mockAddress), hue(mockAddress))
	assert.GreaterOrEqual(t, hue(mockAddress), 0)
	assert.Less(t, hue(mockAddress), 360)
}
