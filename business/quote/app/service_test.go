package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Travisswop/swap-engine/business/quote/app"
	"github.com/Travisswop/swap-engine/business/quote/domain"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/logger"
)

type fakeProvider struct {
	routes []domain.Route
	err    error
	delay  time.Duration
}

func (f *fakeProvider) GetQuote(ctx context.Context, req domain.Request) ([]domain.Route, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.routes, f.err
}

func request() domain.Request {
	return domain.Request{
		FromChain:   1,
		ToChain:     137,
		FromToken:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		FromAmount:  "1000000",
		FromAddress: "0x1111111111111111111111111111111111111111",
	}
}

func TestFetchRoutes_ReturnsProviderRoutes(t *testing.T) {
	want := []domain.Route{{ID: "a", Tool: "hop", ToAmount: "990000"}}
	svc := app.NewService(&fakeProvider{routes: want}, time.Second, logger.Nop{})

	routes, err := svc.FetchRoutes(context.Background(), request())
	if err != nil {
		t.Fatalf("FetchRoutes: %v", err)
	}
	if len(routes) != 1 || routes[0].ID != "a" {
		t.Errorf("routes = %+v, want %+v", routes, want)
	}
}

func TestFetchRoutes_InvalidRequestRejectedBeforeProvider(t *testing.T) {
	svc := app.NewService(&fakeProvider{}, time.Second, logger.Nop{})

	req := request()
	req.FromAmount = "0"
	_, err := svc.FetchRoutes(context.Background(), req)
	if apperror.GetCode(err) != apperror.CodeQuoteRequestInvalid {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeQuoteRequestInvalid)
	}
}

func TestFetchRoutes_EmptyIsNoRoutesFound(t *testing.T) {
	svc := app.NewService(&fakeProvider{routes: nil}, time.Second, logger.Nop{})

	_, err := svc.FetchRoutes(context.Background(), request())
	if apperror.GetCode(err) != apperror.CodeNoRoutesFound {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeNoRoutesFound)
	}
}

func TestFetchRoutes_TimeoutIsDistinctFromNoRoutes(t *testing.T) {
	svc := app.NewService(&fakeProvider{delay: 200 * time.Millisecond}, 20*time.Millisecond, logger.Nop{})

	_, err := svc.FetchRoutes(context.Background(), request())
	if apperror.GetCode(err) != apperror.CodeQuoteTimeout {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeQuoteTimeout)
	}
}

func TestFetchRoutes_CancellationPassesThrough(t *testing.T) {
	svc := app.NewService(&fakeProvider{delay: time.Second}, time.Minute, logger.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.FetchRoutes(ctx, request())
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBest(t *testing.T) {
	if app.Best(nil) != nil {
		t.Error("Best(nil) must be nil")
	}
	routes := []domain.Route{{ID: "first"}, {ID: "second"}}
	if best := app.Best(routes); best == nil || best.ID != "first" {
		t.Errorf("Best = %+v, want first route", app.Best(routes))
	}
}
