package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all PeerPay tools registered.
func NewMCPServer(cfg Config, version string) *server.MCPServer {
	s := server.NewMCPServer("peerpay", version)
	h := NewHandlers(NewClient(cfg))

	s.AddTool(ToolValidateAddress, h.HandleValidateAddress)
	s.AddTool(ToolListChains, h.HandleListChains)
	s.AddTool(ToolGetSession, h.HandleGetSession)
	s.AddTool(ToolConnectWallet, h.HandleConnectWallet)
	s.AddTool(ToolDisconnectWallet, h.HandleDisconnectWallet)
	s.AddTool(ToolSwitchChain, h.HandleSwitchChain)
	s.AddTool(ToolListRequests, h.HandleListRequests)
	s.AddTool(ToolReviewRequest, h.HandleReviewRequest)
	s.AddTool(ToolPayRequest, h.HandlePayRequest)

	return s
}
