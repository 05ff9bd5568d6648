// Package addressbook classifies recipient input as an ENS name or a hex
// address and resolves it against a static, offline address book.
//
// Nothing here talks to a chain. Validity is a format check only:
//   - "*.eth" is an ENS name
//   - "0x" followed by 40 more characters is an address, counted in runes
//   - anything else is invalid
package addressbook

import (
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

// Kind is the classification of a recipient string.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindENS     Kind = "ens"
	KindAddress Kind = "address"
	KindInvalid Kind = "invalid"
)

// addressLength is "0x" plus 40 hex digits.
const addressLength = 42

// InvalidMessage is the only user-facing failure text.
const InvalidMessage = "Invalid address format. Please enter a valid ENS name or Ethereum address."

// Result is the outcome of validating one recipient string.
type Result struct {
	Input           string `json:"input"`
	Kind            Kind   `json:"kind"`
	IsValid         bool   `json:"isValid"`
	ResolvedAddress string `json:"resolvedAddress,omitempty"`
	ResolvedENS     string `json:"resolvedENS,omitempty"`
	Checksummed     string `json:"checksummed,omitempty"`
	Message         string `json:"message,omitempty"`
}

// DisplayName is what the recipient card shows as its title.
func (r *Result) DisplayName() string {
	if r.ResolvedENS != "" {
		return r.ResolvedENS
	}
	return "Valid Address"
}

// Resolver maps names to addresses and back.
type Resolver interface {
	ResolveName(name string) (string, bool)
	LookupAddress(addr string) (string, bool)
}

// Classify decides the kind of s without resolving it.
func Classify(s string) Kind {
	switch {
	case s == "":
		return KindEmpty
	case strings.HasSuffix(s, ".eth"):
		return KindENS
	case strings.HasPrefix(s, "0x") && utf8.RuneCountInString(s) == addressLength:
		return KindAddress
	default:
		return KindInvalid
	}
}

// Validator classifies and resolves recipient input.
type Validator struct {
	resolver Resolver
}

// NewValidator creates a validator backed by the given resolver.
func NewValidator(resolver Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate returns nil for empty input, which means there is nothing to show yet.
func (v *Validator) Validate(input string) *Result {
	kind := Classify(input)
	switch kind {
	case KindEmpty:
		return nil

	case KindENS:
		res := &Result{Input: input, Kind: kind, IsValid: true, ResolvedENS: input}
		if addr, ok := v.resolver.ResolveName(input); ok {
			res.ResolvedAddress = addr
		}
		return res

	case KindAddress:
		res := &Result{Input: input, Kind: kind, IsValid: true, ResolvedAddress: input}
		if name, ok := v.resolver.LookupAddress(input); ok {
			res.ResolvedENS = name
		}
		if common.IsHexAddress(input) {
			res.Checksummed = common.HexToAddress(input).Hex()
		}
		return res

	default:
		return &Result{Input: input, Kind: KindInvalid, Message: InvalidMessage}
	}
}

// ShortAddress renders an address as 0x1234...7890. Strings too short to
// abbreviate are returned as-is.
func ShortAddress(addr string) string {
	r := []rune(addr)
	if len(r) <= 10 {
		return addr
	}
	return string(r[:6]) + "..." + string(r[len(r)-4:])
}
