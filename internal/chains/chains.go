// Package chains names the EVM networks a simulated wallet can switch between.
package chains

import (
	"fmt"
	"sort"
)

// Well-known chain IDs.
const (
	EthereumMainnet = 1
	Sepolia         = 11155111
	Base            = 8453
	BaseSepolia     = 84532
	Polygon         = 137
	PolygonAmoy     = 80002
)

// Chain describes a network shown in the settings page and the chain API.
type Chain struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Currency string `json:"currency"`
	Testnet  bool   `json:"testnet"`
}

var known = map[int64]Chain{
	EthereumMainnet: {ID: EthereumMainnet, Name: "Ethereum", Slug: "ethereum", Currency: "ETH"},
	Sepolia:         {ID: Sepolia, Name: "Sepolia", Slug: "sepolia", Currency: "ETH", Testnet: true},
	Base:            {ID: Base, Name: "Base", Slug: "base", Currency: "ETH"},
	BaseSepolia:     {ID: BaseSepolia, Name: "Base Sepolia", Slug: "base-sepolia", Currency: "ETH", Testnet: true},
	Polygon:         {ID: Polygon, Name: "Polygon", Slug: "polygon", Currency: "MATIC"},
	PolygonAmoy:     {ID: PolygonAmoy, Name: "Polygon Amoy", Slug: "polygon-amoy", Currency: "MATIC", Testnet: true},
}

// Lookup returns the chain registered under id.
func Lookup(id int64) (Chain, bool) {
	c, ok := known[id]
	return c, ok
}

// Name returns a display name for any chain id, known or not.
func Name(id int64) string {
	if c, ok := known[id]; ok {
		return c.Name
	}
	return fmt.Sprintf("Chain %d", id)
}

// All returns the known chains, mainnets first, each group ordered by id.
func All() []Chain {
	out := make([]Chain, 0, len(known))
	for _, c := range known {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Testnet != out[j].Testnet {
			return !out[i].Testnet
		}
		return out[i].ID < out[j].ID
	})
	return out
}
