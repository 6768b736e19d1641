// Package app contains the catalog search service and its ports.
package app

import (
	"context"

	"github.com/Travisswop/swap-engine/internal/asset"
)

// Source lists the tradeable tokens for one chain. Implementations
// return tokens in the provider's order; ranking happens in the
// service.
type Source interface {
	Tokens(ctx context.Context, chain string) ([]asset.Token, error)
}
