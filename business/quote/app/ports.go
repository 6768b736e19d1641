// Package app contains the quote application service and its ports.
package app

import (
	"context"

	"github.com/Travisswop/swap-engine/business/quote/domain"
)

// Provider fetches routes from an external aggregator. Implementations
// return the aggregator's best route first.
type Provider interface {
	GetQuote(ctx context.Context, req domain.Request) ([]domain.Route, error)
}
