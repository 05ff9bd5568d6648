package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the PeerPay MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolValidateAddress = mcp.NewTool("validate_address",
	mcp.WithDescription(
		"Check whether a recipient is a valid Ethereum address (0x followed by 40 hex characters) "+
			"or an ENS name ending in .eth. Returns the resolved address or ENS name when valid. "+
			"Use this before reviewing a request to catch typos."),
	mcp.WithString("input",
		mcp.Required(),
		mcp.Description("Address or ENS name to check (e.g. 'vitalik.eth' or '0x1234...')")),
)

var ToolListChains = mcp.NewTool("list_chains",
	mcp.WithDescription(
		"List the networks the wallet can switch to, with chain ids and native currency. "+
			"The network the session is on is marked current."),
)

var ToolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription(
		"Show the wallet session: whether it is connected, the address, ENS name and network."),
)

var ToolConnectWallet = mcp.NewTool("connect_wallet",
	mcp.WithDescription(
		"Connect the mock wallet. Payment requests and reviews need a connected wallet. "+
			"Connecting an already connected wallet changes nothing."),
)

var ToolDisconnectWallet = mcp.NewTool("disconnect_wallet",
	mcp.WithDescription(
		"Disconnect the wallet. The address, ENS name and network are cleared from the session."),
)

var ToolSwitchChain = mcp.NewTool("switch_chain",
	mcp.WithDescription(
		"Switch the connected wallet to another network. Use list_chains to see known chain ids."),
	mcp.WithNumber("chain_id",
		mcp.Required(),
		mcp.Description("Positive chain id, e.g. 1 for Ethereum or 8453 for Base")),
)

var ToolListRequests = mcp.NewTool("list_requests",
	mcp.WithDescription(
		"List payment requests for the connected wallet. Incoming requests are waiting for you to pay, "+
			"outgoing ones are waiting on others, and history holds settled requests."),
	mcp.WithString("view",
		mcp.Description("Only show one tab. Omit to show all three."),
		mcp.Enum("incoming", "outgoing", "history")),
)

var ToolReviewRequest = mcp.NewTool("review_request",
	mcp.WithDescription(
		"Validate a new payment request (or a direct payment) and show the summary the user would confirm: "+
			"recipient, resolved address, amount, token and estimated network fee. Nothing is sent."),
	mcp.WithString("recipient",
		mcp.Required(),
		mcp.Description("Recipient address or ENS name")),
	mcp.WithString("amount",
		mcp.Required(),
		mcp.Description("Positive decimal amount, e.g. '12.5'")),
	mcp.WithString("token",
		mcp.Description("Token symbol. Defaults to USDC."),
		mcp.Enum("USDC", "USDT", "DAI", "ETH", "MATIC")),
	mcp.WithString("mode",
		mcp.Description("'request' asks someone to pay you, 'send' pays them directly"),
		mcp.Enum("request", "send")),
)

var ToolPayRequest = mcp.NewTool("pay_request",
	mcp.WithDescription(
		"Pay a pending incoming request. The payment is simulated and returns a mock transaction hash; "+
			"no funds move."),
	mcp.WithString("request_id",
		mcp.Required(),
		mcp.Description("Id of an incoming request from list_requests")),
)
