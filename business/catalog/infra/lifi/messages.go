package lifi

// Wire types for the catalog's /v1/tokens endpoint. The response is
// keyed by numeric chain id rendered as a string.

type tokensResponse struct {
	Tokens map[string][]tokenResponse `json:"tokens"`
}

type tokenResponse struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals *int   `json:"decimals"`
	ChainID  uint64 `json:"chainId"`
	PriceUSD string `json:"priceUSD"`
	LogoURI  string `json:"logoURI"`
}
