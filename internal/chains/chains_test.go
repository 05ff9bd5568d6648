package chains

import "testing"

func TestLookup(t *testing.T) {
	c, ok := Lookup(EthereumMainnet)
	if !ok || c.Name != "Ethereum" {
		t.Fatalf("expected Ethereum, got %+v ok=%v", c, ok)
	}
	if _, ok := Lookup(42424242); ok {
		t.Error("unknown chain should not be found")
	}
}

func TestName_Unknown(t *testing.T) {
	if got := Name(777); got != "Chain 777" {
		t.Errorf("Name(777) = %q", got)
	}
	if got := Name(BaseSepolia); got != "Base Sepolia" {
		t.Errorf("Name(BaseSepolia) = %q", got)
	}
}

func TestAll_MainnetsFirst(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("expected 6 chains, got %d", len(all))
	}
	if all[0].ID != EthereumMainnet {
		t.Errorf("expected Ethereum first, got %d", all[0].ID)
	}
	seenTestnet := false
	for _, c := range all {
		if c.Testnet {
			seenTestnet = true
		} else if seenTestnet {
			t.Fatalf("mainnet %s listed after a testnet", c.Name)
		}
	}
}
