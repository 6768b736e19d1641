// Package domain defines the quote request and route types exchanged
// with the routing aggregator.
package domain

import (
	"math/big"

	"github.com/Travisswop/swap-engine/internal/apperror"
)

// Request describes one quote lookup. Amount is in the pay token's
// base units as a positive integer string.
type Request struct {
	FromChain   uint64
	ToChain     uint64
	FromToken   string // contract address, "" = native
	ToToken     string
	FromAmount  string
	FromAddress string
	ToAddress   string
	Slippage    float64
}

// Validate enforces the preconditions the aggregator requires. The
// engine only calls the aggregator once these hold; a failure here is
// a programming error upstream, not user input.
func (r Request) Validate() error {
	if r.FromChain == 0 || r.ToChain == 0 {
		return apperror.Validation(apperror.CodeQuoteRequestInvalid, "chain ids must be set")
	}
	if !isPositiveInteger(r.FromAmount) {
		return apperror.Validation(apperror.CodeQuoteRequestInvalid, "fromAmount must be a positive integer")
	}
	if r.FromAddress == "" {
		return apperror.Validation(apperror.CodeAddressUnresolved, "fromAddress is required")
	}
	return nil
}

func isPositiveInteger(s string) bool {
	n, ok := new(big.Int).SetString(s, 10)
	return ok && n.Sign() > 0
}

// TransactionRequest is the prepared transaction carried by a route,
// ready for signing and submission.
type TransactionRequest struct {
	To       string
	Data     string // 0x-prefixed calldata
	Value    string // base units
	GasLimit string
	GasPrice string
	ChainID  uint64
	From     string
}

// Route is one executable path returned by the aggregator. ToAmount is
// the authoritative expected output in the receive token's base units.
type Route struct {
	ID                 string
	Tool               string // bridge/DEX the aggregator picked
	FromAmount         string
	ToAmount           string
	ToAmountMin        string
	GasCostUSD         string
	ExecutionDuration  int // seconds
	TransactionRequest *TransactionRequest
}

// Executable reports whether the route carries a submittable transaction.
func (r *Route) Executable() bool {
	return r != nil && r.TransactionRequest != nil && r.TransactionRequest.To != ""
}
