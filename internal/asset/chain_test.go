package asset_test

import (
	"errors"
	"testing"

	"github.com/Travisswop/swap-engine/internal/asset"
)

func TestChainID(t *testing.T) {
	cases := []struct {
		name string
		want uint64
	}{
		{"ETHEREUM", 1},
		{"POLYGON", 137},
		{"BASE", 8453},
		{"BSC", 56},
		{"ARBITRUM", 42161},
		{"SOLANA", asset.ChainIDSolana},
		{"solana", asset.ChainIDSolana}, // case-insensitive
	}

	for _, c := range cases {
		got, err := asset.ChainID(c.name)
		if err != nil {
			t.Fatalf("ChainID(%q): unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("ChainID(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestChainID_UnknownIsTypedError(t *testing.T) {
	_, err := asset.ChainID("DOGECHAIN")
	if err == nil {
		t.Fatal("expected error for unknown chain, got nil")
	}

	var unknown *asset.UnknownChainError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownChainError, got %T", err)
	}
	if unknown.Name != "DOGECHAIN" {
		t.Errorf("error carries name %q, want %q", unknown.Name, "DOGECHAIN")
	}
}

func TestChainFamily(t *testing.T) {
	for _, name := range []string{"ETHEREUM", "POLYGON", "BASE", "BSC", "ARBITRUM", "OPTIMISM"} {
		fam, err := asset.ChainFamily(name)
		if err != nil {
			t.Fatalf("ChainFamily(%q): %v", name, err)
		}
		if fam != asset.FamilyEVM {
			t.Errorf("ChainFamily(%q) = %q, want evm", name, fam)
		}
	}

	fam, err := asset.ChainFamily("SOLANA")
	if err != nil {
		t.Fatalf("ChainFamily(SOLANA): %v", err)
	}
	if fam != asset.FamilySolana {
		t.Errorf("ChainFamily(SOLANA) = %q, want solana", fam)
	}
}

func TestIsSolana(t *testing.T) {
	if !asset.IsSolana("SOLANA") || !asset.IsSolana("solana") {
		t.Error("SOLANA should be recognized regardless of case")
	}
	if asset.IsSolana("ETHEREUM") {
		t.Error("ETHEREUM is not a Solana-family chain")
	}
}

func TestChainIcon(t *testing.T) {
	if icon := asset.ChainIcon("SOLANA"); icon == "" {
		t.Error("expected icon path for SOLANA")
	}
	if icon := asset.ChainIcon("UNKNOWN"); icon != "" {
		t.Errorf("unknown chain icon should be empty, got %q", icon)
	}
}

func TestTokenValidate(t *testing.T) {
	tok := &asset.Token{Chain: "ETHEREUM", Symbol: "USDC", Decimals: 6}
	if err := tok.Validate(); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}

	bad := &asset.Token{Chain: "NOPE", Symbol: "X", Decimals: 6}
	if err := bad.Validate(); err == nil {
		t.Error("token on unknown chain should fail validation")
	}

	neg := &asset.Token{Chain: "ETHEREUM", Symbol: "X", Decimals: -1}
	if err := neg.Validate(); err == nil {
		t.Error("negative decimals should fail validation")
	}
}
