// Package app contains the address resolver and submission ports.
package app

import (
	"context"

	"github.com/Travisswop/swap-engine/business/wallet/domain"
)

// Submitter signs and broadcasts a prepared transaction, returning the
// transaction hash.
type Submitter interface {
	Submit(ctx context.Context, tx domain.Transaction) (string, error)
}
