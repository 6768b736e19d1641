package domain

// Transaction is a prepared transaction handed to a submitter. String
// numeric fields keep the aggregator's encoding (0x-prefixed hex or
// plain decimal); the submitter parses them.
type Transaction struct {
	ChainID  uint64
	To       string
	Data     string
	Value    string
	GasLimit string
	GasPrice string
	From     string
}
