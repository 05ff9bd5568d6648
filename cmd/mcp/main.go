// PeerPay MCP Server - Exposes the PeerPay wallet and request API as MCP tools for LLMs
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mbd888/peerpay/internal/mcpserver"
)

// Version is set by ldflags
var Version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := mcpserver.Config{
		APIURL: envOrDefault("PEERPAY_API_URL", "http://localhost:8080"),
	}

	// stdout carries the protocol; diagnostics go to stderr
	s := mcpserver.NewMCPServer(cfg, Version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
