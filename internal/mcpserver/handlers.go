package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// HandleValidateAddress classifies a recipient string.
func (h *Handlers) HandleValidateAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := req.GetString("input", "")
	if input == "" {
		return mcp.NewToolResultError("input is required"), nil
	}

	raw, err := h.client.ValidateAddress(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to validate address: %v", err)), nil
	}

	text, err := formatValidation(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse validation: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleListChains lists known networks.
func (h *Handlers) HandleListChains(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListChains(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list chains: %v", err)), nil
	}

	text, err := formatChains(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse chains: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleGetSession shows the wallet session.
func (h *Handlers) HandleGetSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult(h.client.GetSession(ctx))
}

// HandleConnectWallet connects the mock wallet.
func (h *Handlers) HandleConnectWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult(h.client.Connect(ctx))
}

// HandleDisconnectWallet disconnects the wallet.
func (h *Handlers) HandleDisconnectWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult(h.client.Disconnect(ctx))
}

// HandleSwitchChain moves the session to another network.
func (h *Handlers) HandleSwitchChain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chainID := req.GetInt("chain_id", 0)
	if chainID <= 0 {
		return mcp.NewToolResultError("chain_id must be a positive integer"), nil
	}
	return h.sessionResult(h.client.SwitchChain(ctx, int64(chainID)))
}

func (h *Handlers) sessionResult(raw json.RawMessage, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Session call failed: %v", err)), nil
	}
	text, err := formatSession(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse session: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleListRequests lists payment requests.
func (h *Handlers) HandleListRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := req.GetString("view", "")

	raw, err := h.client.ListRequests(ctx, view)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list requests: %v. Use connect_wallet first if the wallet is disconnected.", err)), nil
	}

	text, err := formatRequests(raw, view)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse requests: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleReviewRequest validates a request form and shows its summary.
func (h *Handlers) HandleReviewRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient := req.GetString("recipient", "")
	amount := req.GetString("amount", "")
	if recipient == "" || amount == "" {
		return mcp.NewToolResultError("recipient and amount are required"), nil
	}
	token := req.GetString("token", "USDC")
	mode := req.GetString("mode", "request")

	raw, err := h.client.ReviewRequest(ctx, recipient, amount, token, mode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Review rejected: %v", err)), nil
	}

	text, err := formatReview(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse review: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandlePayRequest simulates paying an incoming request.
func (h *Handlers) HandlePayRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("request_id", "")
	if id == "" {
		return mcp.NewToolResultError("request_id is required"), nil
	}

	raw, err := h.client.PayRequest(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Payment failed: %v", err)), nil
	}

	text, err := formatReceipt(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse receipt: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func formatValidation(raw json.RawMessage) (string, error) {
	var resp struct {
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Result == nil {
		return "Nothing to validate: input was empty.", nil
	}

	r := resp.Result
	var sb strings.Builder
	valid, _ := r["isValid"].(bool)
	if !valid {
		sb.WriteString(fmt.Sprintf("%q is not valid.\n", getString(r, "input")))
		if msg := getString(r, "message"); msg != "" {
			sb.WriteString("  " + msg + "\n")
		}
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("%q is a valid %s.\n", getString(r, "input"), getString(r, "kind")))
	if v := getString(r, "resolvedAddress"); v != "" {
		sb.WriteString(fmt.Sprintf("  Address: %s\n", v))
	}
	if v := getString(r, "resolvedENS"); v != "" {
		sb.WriteString(fmt.Sprintf("  ENS: %s\n", v))
	}
	return sb.String(), nil
}

func formatChains(raw json.RawMessage) (string, error) {
	var resp struct {
		Chains []map[string]any `json:"chains"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Chains) == 0 {
		return "No networks configured.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d network(s):\n", len(resp.Chains)))
	for _, ch := range resp.Chains {
		line := fmt.Sprintf("  %s (id %s, %s)", getString(ch, "name"), getString(ch, "id"), getString(ch, "currency"))
		if t, _ := ch["testnet"].(bool); t {
			line += " testnet"
		}
		if cur, _ := ch["current"].(bool); cur {
			line += " [current]"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String(), nil
}

func formatSession(raw json.RawMessage) (string, error) {
	var resp struct {
		Session map[string]any `json:"session"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Session == nil {
		return "", fmt.Errorf("no session in response")
	}

	s := resp.Session
	if connected, _ := s["connected"].(bool); !connected {
		return "Wallet disconnected.", nil
	}

	var sb strings.Builder
	sb.WriteString("Wallet connected:\n")
	sb.WriteString(fmt.Sprintf("  Address: %s\n", getString(s, "address")))
	if v := getString(s, "ensName"); v != "" {
		sb.WriteString(fmt.Sprintf("  ENS: %s\n", v))
	}
	if v := getString(s, "chainId"); v != "" {
		sb.WriteString(fmt.Sprintf("  Chain: %s\n", v))
	}
	return sb.String(), nil
}

func formatRequests(raw json.RawMessage, view string) (string, error) {
	if view != "" {
		var resp struct {
			Requests []map[string]any `json:"requests"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", err
		}
		var sb strings.Builder
		writeTab(&sb, view, resp.Requests)
		return sb.String(), nil
	}

	var resp struct {
		Incoming []map[string]any `json:"incoming"`
		Outgoing []map[string]any `json:"outgoing"`
		History  []map[string]any `json:"history"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	var sb strings.Builder
	writeTab(&sb, "incoming", resp.Incoming)
	writeTab(&sb, "outgoing", resp.Outgoing)
	writeTab(&sb, "history", resp.History)
	return sb.String(), nil
}

func writeTab(sb *strings.Builder, name string, items []map[string]any) {
	sb.WriteString(fmt.Sprintf("%s (%d):\n", strings.ToUpper(name[:1])+name[1:], len(items)))
	if len(items) == 0 {
		sb.WriteString("  none\n")
		return
	}
	for _, r := range items {
		counterparty := getString(r, "from")
		if getString(r, "type") == "outgoing" {
			counterparty = getString(r, "to")
		}
		sb.WriteString(fmt.Sprintf("  #%s %s %s %s [%s]\n",
			getString(r, "id"), counterparty, getString(r, "amount"), getString(r, "token"), getString(r, "status")))
	}
}

func formatReview(raw json.RawMessage) (string, error) {
	var resp struct {
		Review map[string]any `json:"review"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Review == nil {
		return "", fmt.Errorf("no review in response")
	}

	r := resp.Review
	var sb strings.Builder
	sb.WriteString(getString(r, "title") + ":\n")
	sb.WriteString(fmt.Sprintf("  To: %s\n", getString(r, "displayName")))
	sb.WriteString(fmt.Sprintf("  Address: %s\n", getString(r, "resolvedAddress")))
	sb.WriteString(fmt.Sprintf("  Amount: %s %s\n", getString(r, "amount"), getString(r, "token")))
	sb.WriteString(fmt.Sprintf("  Network fee: %s\n", getString(r, "networkFee")))
	return sb.String(), nil
}

func formatReceipt(raw json.RawMessage) (string, error) {
	var resp struct {
		Receipt map[string]any `json:"receipt"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Receipt == nil {
		return "", fmt.Errorf("no receipt in response: %s", formatJSON(raw))
	}

	r := resp.Receipt
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Paid request #%s (simulated):\n", getString(r, "requestId")))
	sb.WriteString(fmt.Sprintf("  To: %s\n", getString(r, "recipient")))
	sb.WriteString(fmt.Sprintf("  Amount: %s %s\n", getString(r, "amount"), getString(r, "token")))
	sb.WriteString(fmt.Sprintf("  Tx: %s\n", getString(r, "txHash")))
	return sb.String(), nil
}

func formatJSON(raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}

// getString extracts a string value from a map, trying multiple key names.
func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
			if f, ok := v.(float64); ok {
				return strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
	}
	return ""
}
