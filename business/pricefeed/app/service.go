// Package app keeps a live price cache fed by a market-data stream.
// The cached prices drive the session's synchronous receive estimate;
// aggregator routes stay authoritative.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Travisswop/swap-engine/internal/logger"
)

// Stream delivers spot prices for subscribed symbols.
type Stream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols ...string) error
	OnPrice(handler func(symbol string, price decimal.Decimal))
	Close() error
}

type entry struct {
	price decimal.Decimal
	at    time.Time
}

// Service caches the latest price per symbol. Prices older than
// staleTimeout read as absent; a stale estimate is worse than none.
type Service struct {
	stream       Stream
	staleTimeout time.Duration
	log          logger.LoggerInterface

	mu     sync.RWMutex
	prices map[string]entry
	now    func() time.Time
}

func NewService(stream Stream, staleTimeout time.Duration, log logger.LoggerInterface) *Service {
	s := &Service{
		stream:       stream,
		staleTimeout: staleTimeout,
		log:          log,
		prices:       make(map[string]entry),
		now:          time.Now,
	}
	if stream != nil {
		stream.OnPrice(s.update)
	}
	return s
}

// Start connects the stream. Connection failures are reported but not
// fatal: the engine falls back to catalog prices.
func (s *Service) Start(ctx context.Context) error {
	if s.stream == nil {
		return nil
	}
	if err := s.stream.Connect(ctx); err != nil {
		s.log.Warn(ctx, "price feed unavailable, using catalog prices", "error", err)
		return err
	}
	return nil
}

// Watch subscribes to a symbol's price updates.
func (s *Service) Watch(ctx context.Context, symbols ...string) error {
	if s.stream == nil {
		return nil
	}
	return s.stream.Subscribe(ctx, symbols...)
}

// Price returns the cached price for a symbol when fresh.
func (s *Service) Price(symbol string) (decimal.Decimal, bool) {
	s.mu.RLock()
	e, ok := s.prices[symbol]
	s.mu.RUnlock()
	if !ok {
		return decimal.Zero, false
	}
	if s.staleTimeout > 0 && s.now().Sub(e.at) > s.staleTimeout {
		return decimal.Zero, false
	}
	return e.price, true
}

// Close shuts the stream down.
func (s *Service) Close() error {
	if s.stream == nil {
		return nil
	}
	return s.stream.Close()
}

func (s *Service) update(symbol string, price decimal.Decimal) {
	if !price.IsPositive() {
		return
	}
	s.mu.Lock()
	s.prices[symbol] = entry{price: price, at: s.now()}
	s.mu.Unlock()
}
