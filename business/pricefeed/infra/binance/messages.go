package binance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// WSRequest is a WebSocket subscription request.
type WSRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

// StreamEvent wraps combined-stream messages.
type StreamEvent struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// MiniTickerEvent is a rolling 24h ticker.
// Stream: <symbol>@miniTicker
type MiniTickerEvent struct {
	EventType  string `json:"e"` // "24hrMiniTicker"
	EventTime  int64  `json:"E"` // Event time (ms)
	Symbol     string `json:"s"` // Symbol
	ClosePrice string `json:"c"` // Latest price
	OpenPrice  string `json:"o"`
	HighPrice  string `json:"h"`
	LowPrice   string `json:"l"`
}

// ParsePrice parses the latest price as decimal.
func (e *MiniTickerEvent) ParsePrice() (decimal.Decimal, error) {
	return decimal.NewFromString(e.ClosePrice)
}
