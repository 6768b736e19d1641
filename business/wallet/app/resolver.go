package app

import (
	"sync"

	"github.com/Travisswop/swap-engine/business/wallet/domain"
	"github.com/Travisswop/swap-engine/internal/asset"
)

// Resolver maps a token's chain to the user's address for that chain
// family. A missing address resolves to "": the caller treats "" as
// not-ready and must not issue quote requests with it.
//
// SetAddresses replaces the whole set atomically and bumps a
// generation counter. Callers snapshot the generation when they start
// long-running work and discard results if it moved, so an account
// switch can never apply stale addresses.
type Resolver struct {
	mu         sync.RWMutex
	addresses  domain.AddressSet
	generation uint64
}

func NewResolver(addresses domain.AddressSet) *Resolver {
	return &Resolver{addresses: addresses}
}

// Resolve returns the sending address for a token, or "" when the
// chain is unknown or that family is not connected.
func (r *Resolver) Resolve(token *asset.Token) string {
	if token == nil {
		return ""
	}
	return r.ResolveChain(token.Chain)
}

// ResolveChain resolves by chain name.
func (r *Resolver) ResolveChain(chain string) string {
	family, err := asset.ChainFamily(chain)
	if err != nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.addresses.For(family)
}

// SetAddresses swaps in a new address set. Invalid sets are rejected
// and the current set stays active.
func (r *Resolver) SetAddresses(addresses domain.AddressSet) error {
	if err := addresses.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.addresses = addresses
	r.generation++
	r.mu.Unlock()
	return nil
}

// Generation returns the current address-set generation.
func (r *Resolver) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Addresses returns a copy of the current set.
func (r *Resolver) Addresses() domain.AddressSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.addresses
}
