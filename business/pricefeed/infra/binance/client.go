// Package binance streams spot prices over a Binance-style WebSocket
// market-data endpoint.
package binance

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/Travisswop/swap-engine/internal/logger"
	"github.com/Travisswop/swap-engine/internal/wsconn"
)

const meterName = "pricefeed"

// Client implements app.Stream on a reconnecting WebSocket.
type Client struct {
	conn *wsconn.Client
	log  logger.LoggerInterface

	onPrice    func(symbol string, price decimal.Decimal)
	handlersMu sync.RWMutex

	subs   map[string]struct{}
	subsMu sync.Mutex
	nextID atomic.Int64

	messagesReceived metric.Int64Counter
	parseErrors      metric.Int64Counter
}

// NewClient builds a client from a wsconn config.
func NewClient(cfg wsconn.Config, log logger.LoggerInterface) (*Client, error) {
	conn, err := wsconn.New(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn: conn,
		log:  log,
		subs: make(map[string]struct{}),
	}

	meter := otel.Meter(meterName)
	c.messagesReceived, err = meter.Int64Counter("pricefeed_messages_total",
		metric.WithDescription("Total price feed messages received"))
	if err != nil {
		return nil, err
	}
	c.parseErrors, err = meter.Int64Counter("pricefeed_parse_errors_total",
		metric.WithDescription("Total price feed messages that failed to parse"))
	if err != nil {
		return nil, err
	}

	conn.OnMessage(c.handleMessage)
	conn.OnStateChange(func(state wsconn.State, cause error) {
		if state == wsconn.StateConnected {
			// Re-establish subscriptions after a reconnect.
			go c.resubscribe()
		}
		if cause != nil {
			log.Warn(context.Background(), "price feed state change",
				"state", string(state), "error", cause)
		}
	})

	return c, nil
}

// OnPrice registers the price handler.
func (c *Client) OnPrice(handler func(symbol string, price decimal.Decimal)) {
	c.handlersMu.Lock()
	c.onPrice = handler
	c.handlersMu.Unlock()
}

// Connect opens the stream.
func (c *Client) Connect(ctx context.Context) error {
	return c.conn.Connect(ctx)
}

// Subscribe adds miniTicker subscriptions for the given symbols.
func (c *Client) Subscribe(ctx context.Context, symbols ...string) error {
	streams := make([]string, 0, len(symbols))

	c.subsMu.Lock()
	for _, symbol := range symbols {
		stream := strings.ToLower(symbol) + "@miniTicker"
		if _, ok := c.subs[stream]; ok {
			continue
		}
		c.subs[stream] = struct{}{}
		streams = append(streams, stream)
	}
	c.subsMu.Unlock()

	if len(streams) == 0 || !c.conn.IsConnected() {
		return nil
	}

	return c.conn.SendJSON(ctx, WSRequest{
		Method: "SUBSCRIBE",
		Params: streams,
		ID:     c.nextID.Add(1),
	})
}

// Close shuts the stream down.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) handleMessage(ctx context.Context, data []byte) {
	c.messagesReceived.Add(ctx, 1)

	payload := data
	var wrapper StreamEvent
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Data) > 0 {
		payload = wrapper.Data
	}

	var event MiniTickerEvent
	if err := json.Unmarshal(payload, &event); err != nil || event.Symbol == "" {
		return // subscription acks and unknown events land here
	}

	price, err := event.ParsePrice()
	if err != nil {
		c.parseErrors.Add(ctx, 1)
		c.log.Debug(ctx, "unparseable price", "symbol", event.Symbol, "raw", event.ClosePrice)
		return
	}

	c.handlersMu.RLock()
	handler := c.onPrice
	c.handlersMu.RUnlock()
	if handler != nil {
		handler(event.Symbol, price)
	}
}

func (c *Client) resubscribe() {
	c.subsMu.Lock()
	streams := make([]string, 0, len(c.subs))
	for stream := range c.subs {
		streams = append(streams, stream)
	}
	c.subsMu.Unlock()

	if len(streams) == 0 {
		return
	}

	err := c.conn.SendJSON(context.Background(), WSRequest{
		Method: "SUBSCRIBE",
		Params: streams,
		ID:     c.nextID.Add(1),
	})
	if err != nil {
		c.log.Warn(context.Background(), "resubscribe failed", "error", err)
	}
}
