package app

import (
	"context"
	"errors"
	"time"

	"github.com/Travisswop/swap-engine/business/quote/domain"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/logger"
)

// Service validates quote requests, bounds them with the configured
// timeout, and maps transport failures to typed errors. A timed-out
// request and a no-routes answer are different conditions and keep
// different codes.
type Service struct {
	provider Provider
	timeout  time.Duration
	log      logger.LoggerInterface
}

func NewService(provider Provider, timeout time.Duration, log logger.LoggerInterface) *Service {
	return &Service{provider: provider, timeout: timeout, log: log}
}

// FetchRoutes returns the candidate routes for a request, best first.
func (s *Service) FetchRoutes(ctx context.Context, req domain.Request) ([]domain.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	routes, err := s.provider.GetQuote(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Warn(ctx, "quote request timed out",
				"fromChain", req.FromChain, "toChain", req.ToChain, "elapsed", elapsed)
			return nil, apperror.Wrap(err, apperror.CodeQuoteTimeout, "aggregator quote")
		}
		if errors.Is(err, context.Canceled) {
			// Superseded by newer input; the orchestrator discards this.
			return nil, err
		}
		return nil, err
	}

	if len(routes) == 0 {
		return nil, apperror.New(apperror.CodeNoRoutesFound)
	}

	s.log.Debug(ctx, "routes fetched",
		"count", len(routes), "tool", routes[0].Tool, "elapsed", elapsed)
	return routes, nil
}

// Best returns the aggregator's preferred route.
func Best(routes []domain.Route) *domain.Route {
	if len(routes) == 0 {
		return nil
	}
	return &routes[0]
}
