// Package domain holds the wallet address model.
package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	solana "github.com/gagliardetto/solana-go"

	"github.com/Travisswop/swap-engine/internal/asset"
)

// AddressSet holds one address per chain family. The EVM address is
// shared by every EVM chain; either field may be empty when the user
// has not connected that family.
type AddressSet struct {
	EVM    string
	Solana string
}

// For returns the address for a chain family, or "" when absent.
func (s AddressSet) For(family asset.Family) string {
	switch family {
	case asset.FamilySolana:
		return s.Solana
	case asset.FamilyEVM:
		return s.EVM
	default:
		return ""
	}
}

// Validate checks that every present address is well formed for its
// family. Empty fields are allowed.
func (s AddressSet) Validate() error {
	if s.EVM != "" && !common.IsHexAddress(s.EVM) {
		return fmt.Errorf("wallet: invalid EVM address %q", s.EVM)
	}
	if s.Solana != "" {
		if _, err := solana.PublicKeyFromBase58(s.Solana); err != nil {
			return fmt.Errorf("wallet: invalid Solana address %q: %w", s.Solana, err)
		}
	}
	return nil
}

// Empty reports whether no address is connected at all.
func (s AddressSet) Empty() bool {
	return s.EVM == "" && s.Solana == ""
}
