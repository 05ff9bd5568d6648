package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Config holds the configuration for connecting to a PeerPay server.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// Client is a pure HTTP client for the PeerPay API. It keeps the
// session cookie between calls so one MCP process maps to one wallet
// session.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new client for a PeerPay server.
func NewClient(cfg Config) *Client {
	jar, _ := cookiejar.New(nil) // never fails with nil options
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// apiError represents an error response from the server.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the server and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// ValidateAddress classifies a recipient string as an address or ENS name.
func (c *Client) ValidateAddress(ctx context.Context, input string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("input", input)
	return c.doRequest(ctx, http.MethodGet, "/v1/addresses/validate", q, nil)
}

// ListChains returns the known networks.
func (c *Client) ListChains(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/chains", nil, nil)
}

// GetSession returns the current wallet session.
func (c *Client) GetSession(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/session", nil, nil)
}

// Connect connects the mock wallet.
func (c *Client) Connect(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/session/connect", nil, map[string]string{})
}

// Disconnect clears the wallet identity from the session.
func (c *Client) Disconnect(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/session/disconnect", nil, map[string]string{})
}

// SwitchChain changes the session's network.
func (c *Client) SwitchChain(ctx context.Context, chainID int64) (json.RawMessage, error) {
	body := map[string]int64{"chainId": chainID}
	return c.doRequest(ctx, http.MethodPost, "/v1/session/chain", nil, body)
}

// ListRequests returns payment requests, optionally one tab only.
func (c *Client) ListRequests(ctx context.Context, view string) (json.RawMessage, error) {
	var q url.Values
	if view != "" {
		q = url.Values{}
		q.Set("view", view)
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/requests", q, nil)
}

// ReviewRequest validates a new request or payment and returns its summary.
func (c *Client) ReviewRequest(ctx context.Context, recipient, amount, token, mode string) (json.RawMessage, error) {
	body := map[string]string{
		"recipient": recipient,
		"amount":    amount,
		"token":     token,
		"mode":      mode,
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/requests/review", nil, body)
}

// PayRequest simulates paying an incoming request.
func (c *Client) PayRequest(ctx context.Context, requestID string) (json.RawMessage, error) {
	path := "/v1/requests/" + url.PathEscape(requestID) + "/pay"
	return c.doRequest(ctx, http.MethodPost, path, nil, map[string]string{})
}
