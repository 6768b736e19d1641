package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Travisswop/swap-engine/internal/logger"
)

type fakeStream struct {
	handler    func(string, decimal.Decimal)
	subscribed []string
}

func (f *fakeStream) Connect(ctx context.Context) error { return nil }
func (f *fakeStream) Subscribe(ctx context.Context, symbols ...string) error {
	f.subscribed = append(f.subscribed, symbols...)
	return nil
}
func (f *fakeStream) OnPrice(h func(string, decimal.Decimal)) { f.handler = h }
func (f *fakeStream) Close() error                            { return nil }

func TestPrice_FreshAndAbsent(t *testing.T) {
	stream := &fakeStream{}
	svc := NewService(stream, time.Minute, logger.Nop{})

	if _, ok := svc.Price("ETH"); ok {
		t.Error("unknown symbol must read as absent")
	}

	stream.handler("ETH", decimal.NewFromInt(2500))
	price, ok := svc.Price("ETH")
	if !ok || !price.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Price(ETH) = %s, %v", price, ok)
	}
}

func TestPrice_StaleReadsAsAbsent(t *testing.T) {
	stream := &fakeStream{}
	svc := NewService(stream, time.Minute, logger.Nop{})

	base := time.Now()
	svc.now = func() time.Time { return base }
	stream.handler("SOL", decimal.NewFromInt(150))

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok := svc.Price("SOL"); ok {
		t.Error("price past the stale timeout must read as absent")
	}
}

func TestUpdate_IgnoresNonPositive(t *testing.T) {
	stream := &fakeStream{}
	svc := NewService(stream, time.Minute, logger.Nop{})

	stream.handler("ETH", decimal.Zero)
	if _, ok := svc.Price("ETH"); ok {
		t.Error("zero price must not enter the cache")
	}
}

func TestWatch_ForwardsSymbols(t *testing.T) {
	stream := &fakeStream{}
	svc := NewService(stream, time.Minute, logger.Nop{})

	if err := svc.Watch(context.Background(), "ETHUSDT", "SOLUSDT"); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if len(stream.subscribed) != 2 {
		t.Errorf("subscribed = %v", stream.subscribed)
	}
}
