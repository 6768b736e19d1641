package lifi

// Wire types for the aggregator's /v1/quote endpoint.

type quoteResponse struct {
	ID                 string              `json:"id"`
	Tool               string              `json:"tool"`
	Estimate           estimate            `json:"estimate"`
	TransactionRequest *transactionRequest `json:"transactionRequest"`
}

type estimate struct {
	FromAmount        string    `json:"fromAmount"`
	ToAmount          string    `json:"toAmount"`
	ToAmountMin       string    `json:"toAmountMin"`
	ExecutionDuration float64   `json:"executionDuration"`
	GasCosts          []gasCost `json:"gasCosts"`
}

type gasCost struct {
	AmountUSD string `json:"amountUSD"`
}

type transactionRequest struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	GasLimit string `json:"gasLimit"`
	GasPrice string `json:"gasPrice"`
	ChainID  uint64 `json:"chainId"`
	From     string `json:"from"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    any    `json:"code"`
}
