// Package asset provides the token model, chain registry, and amount
// conversion for the swap engine. Base-unit values are exact integer
// strings; decimal.Decimal is used at boundaries (parsing, display).
package asset

import (
	"fmt"
	"strings"
)

// ChainIDSolana is the sentinel chain id used by the routing aggregator
// for Solana. It is far outside the EVM chain-id space on purpose.
const ChainIDSolana uint64 = 1151111081099710

// EVM chain ids.
const (
	ChainIDEthereum uint64 = 1
	ChainIDPolygon  uint64 = 137
	ChainIDBase     uint64 = 8453
	ChainIDBSC      uint64 = 56
	ChainIDArbitrum uint64 = 42161
	ChainIDOptimism uint64 = 10
)

// Family is the address namespace a chain belongs to. Every EVM chain
// shares one address; Solana has its own.
type Family string

const (
	FamilyEVM    Family = "evm"
	FamilySolana Family = "solana"
)

// Chain describes one supported network.
type Chain struct {
	Name   string
	ID     uint64
	Family Family
	Icon   string
}

// UnknownChainError is returned when a chain name has no registry entry.
// Lookups never fall back to a default id: a wrong chain id silently
// used in a quote request is worse than a visible failure.
type UnknownChainError struct {
	Name string
}

func (e *UnknownChainError) Error() string {
	return fmt.Sprintf("asset: unknown chain %q", e.Name)
}

var chains = map[string]Chain{
	"ETHEREUM": {Name: "ETHEREUM", ID: ChainIDEthereum, Family: FamilyEVM, Icon: "/icons/chains/ethereum.png"},
	"POLYGON":  {Name: "POLYGON", ID: ChainIDPolygon, Family: FamilyEVM, Icon: "/icons/chains/polygon.png"},
	"BASE":     {Name: "BASE", ID: ChainIDBase, Family: FamilyEVM, Icon: "/icons/chains/base.png"},
	"BSC":      {Name: "BSC", ID: ChainIDBSC, Family: FamilyEVM, Icon: "/icons/chains/bsc.png"},
	"ARBITRUM": {Name: "ARBITRUM", ID: ChainIDArbitrum, Family: FamilyEVM, Icon: "/icons/chains/arbitrum.png"},
	"OPTIMISM": {Name: "OPTIMISM", ID: ChainIDOptimism, Family: FamilyEVM, Icon: "/icons/chains/optimism.png"},
	"SOLANA":   {Name: "SOLANA", ID: ChainIDSolana, Family: FamilySolana, Icon: "/icons/chains/solana.png"},
}

// LookupChain resolves a chain by its symbolic name (case-insensitive).
func LookupChain(name string) (Chain, error) {
	c, ok := chains[strings.ToUpper(name)]
	if !ok {
		return Chain{}, &UnknownChainError{Name: name}
	}
	return c, nil
}

// ChainID returns the numeric id registered for a chain name.
func ChainID(name string) (uint64, error) {
	c, err := LookupChain(name)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// ChainIcon returns the icon path for a chain name, or "" if unknown.
// Icons are cosmetic; this is the one lookup allowed to degrade.
func ChainIcon(name string) string {
	c, err := LookupChain(name)
	if err != nil {
		return ""
	}
	return c.Icon
}

// IsSolana reports whether a chain name (or the Solana sentinel id,
// when the name is numeric-sourced) belongs to the Solana family.
func IsSolana(name string) bool {
	if strings.EqualFold(name, "SOLANA") {
		return true
	}
	c, err := LookupChain(name)
	if err != nil {
		return false
	}
	return c.Family == FamilySolana
}

// ChainFamily returns the address family for a chain name.
func ChainFamily(name string) (Family, error) {
	c, err := LookupChain(name)
	if err != nil {
		return "", err
	}
	return c.Family, nil
}

// Chains returns all registered chains.
func Chains() []Chain {
	out := make([]Chain, 0, len(chains))
	for _, c := range chains {
		out = append(out, c)
	}
	return out
}
