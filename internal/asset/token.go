package asset

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMissingDecimals is returned when a token arrives from the catalog
// without a decimals value. Conversions are undefined without it, so the
// token is rejected at the boundary instead of defaulting.
var ErrMissingDecimals = errors.New("asset: token has no decimals")

// Market holds optional market data attached to a token by the catalog.
type Market struct {
	Price       decimal.Decimal
	Change24H   decimal.Decimal
	Change7D    decimal.Decimal
	Change30D   decimal.Decimal
	MarketCap   decimal.Decimal
	Volume24H   decimal.Decimal
	Description string
}

// HasPrice reports whether a usable spot price is present.
func (m *Market) HasPrice() bool {
	return m != nil && m.Price.IsPositive()
}

// Token is a fungible asset on one chain. Address is empty for native
// assets. Tokens are created by the catalog per search request and held
// in the swap session's pay/receive slots; they are never persisted.
type Token struct {
	Chain    string // symbolic chain name, must resolve in the registry
	Address  string // contract address, "" = native
	Symbol   string
	Name     string
	Decimals int
	LogoURI  string
	Balance  string // human-readable decimal string, may be empty
	Market   *Market
}

// Validate checks the invariants the engine relies on.
func (t *Token) Validate() error {
	if t.Symbol == "" {
		return errors.New("asset: token has no symbol")
	}
	if t.Decimals < 0 {
		return fmt.Errorf("asset: token %s has negative decimals", t.Symbol)
	}
	if _, err := LookupChain(t.Chain); err != nil {
		return err
	}
	return nil
}

// IsNative reports whether the token is the chain's native asset.
func (t *Token) IsNative() bool {
	return t.Address == ""
}

// ChainID returns the numeric chain id for the token's chain.
func (t *Token) ChainID() (uint64, error) {
	return ChainID(t.Chain)
}

// Price returns the market price, or zero when absent.
func (t *Token) Price() decimal.Decimal {
	if t.Market == nil {
		return decimal.Zero
	}
	return t.Market.Price
}

// Key identifies a token within one session (chain + address + symbol;
// address alone is ambiguous for natives).
func (t *Token) Key() string {
	return t.Chain + "/" + t.Address + "/" + t.Symbol
}

func (t *Token) String() string {
	return fmt.Sprintf("%s@%s", t.Symbol, t.Chain)
}
