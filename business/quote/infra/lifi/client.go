// Package lifi implements the quote provider against a LI.FI-style
// routing aggregator.
package lifi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Travisswop/swap-engine/business/quote/domain"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/circuitbreaker"
	"github.com/Travisswop/swap-engine/internal/httpclient"
	"github.com/Travisswop/swap-engine/internal/logger"
	"github.com/Travisswop/swap-engine/internal/ratelimit"
)

const tracerName = "lifi-quote"

// Client fetches quotes from the aggregator. Calls are rate limited and
// run through a circuit breaker; the breaker counts transport and
// server failures only, a no-routes answer is a valid response.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[[]domain.Route]
	log     logger.LoggerInterface
	tracer  trace.Tracer
}

func NewClient(http httpclient.Client, limiter *ratelimit.Limiter, log logger.LoggerInterface) *Client {
	cbCfg := circuitbreaker.DefaultConfig("lifi-quote")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	return &Client{
		http:    http,
		limiter: limiter,
		breaker: circuitbreaker.New[[]domain.Route](cbCfg),
		log:     log,
		tracer:  otel.Tracer(tracerName),
	}
}

// GetQuote implements app.Provider.
func (c *Client) GetQuote(ctx context.Context, req domain.Request) ([]domain.Route, error) {
	ctx, span := c.tracer.Start(ctx, "lifi.GetQuote",
		trace.WithAttributes(
			attribute.Int64("from_chain", int64(req.FromChain)),
			attribute.Int64("to_chain", int64(req.ToChain)),
		),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	routes, err := c.breaker.Execute(func() ([]domain.Route, error) {
		return c.fetch(ctx, req)
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			span.SetStatus(codes.Error, "circuit open")
			return nil, apperror.Wrap(err, apperror.CodeCircuitOpen, "aggregator quote")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("routes", len(routes)))
	return routes, nil
}

func (c *Client) fetch(ctx context.Context, req domain.Request) ([]domain.Route, error) {
	params := map[string]string{
		"fromChain":   strconv.FormatUint(req.FromChain, 10),
		"toChain":     strconv.FormatUint(req.ToChain, 10),
		"fromToken":   tokenParam(req.FromToken),
		"toToken":     tokenParam(req.ToToken),
		"fromAmount":  req.FromAmount,
		"fromAddress": req.FromAddress,
	}
	if req.ToAddress != "" {
		params["toAddress"] = req.ToAddress
	}
	if req.Slippage > 0 {
		params["slippage"] = strconv.FormatFloat(req.Slippage, 'f', -1, 64)
	}

	var result quoteResponse
	_, err := c.http.NewRequest().
		SetQueryParams(params).
		SetResult(&result).
		SetErrorHandler(decodeError).
		Get(ctx, "/v1/quote")
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeNoRoutesFound {
			// Valid answer, not a provider failure.
			return nil, nil
		}
		return nil, err
	}

	route := toRoute(result)
	if route.ToAmount == "" {
		return nil, nil
	}
	return []domain.Route{route}, nil
}

// decodeError extracts the aggregator's message field from error
// bodies and maps the status to a typed failure.
func decodeError(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}

	message := ""
	var wire errorResponse
	if json.Unmarshal(body, &wire) == nil {
		message = wire.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	context := fmt.Sprintf("aggregator status %d: %s", statusCode, message)

	switch {
	case statusCode == 404, strings.Contains(strings.ToLower(message), "no route"):
		return apperror.New(apperror.CodeNoRoutesFound, apperror.WithContext(context))
	case statusCode == 400:
		return apperror.New(apperror.CodeQuoteRequestInvalid, apperror.WithContext(context))
	case statusCode == 429:
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext(context))
	case statusCode >= 500:
		return apperror.New(apperror.CodeServiceUnavailable, apperror.WithContext(context))
	default:
		return apperror.New(apperror.CodeQuoteFailed, apperror.WithContext(context))
	}
}

func toRoute(resp quoteResponse) domain.Route {
	route := domain.Route{
		ID:                resp.ID,
		Tool:              resp.Tool,
		FromAmount:        resp.Estimate.FromAmount,
		ToAmount:          resp.Estimate.ToAmount,
		ToAmountMin:       resp.Estimate.ToAmountMin,
		ExecutionDuration: int(resp.Estimate.ExecutionDuration),
		GasCostUSD:        sumGasCostsUSD(resp.Estimate.GasCosts),
	}
	if tx := resp.TransactionRequest; tx != nil {
		route.TransactionRequest = &domain.TransactionRequest{
			To:       tx.To,
			Data:     tx.Data,
			Value:    tx.Value,
			GasLimit: tx.GasLimit,
			GasPrice: tx.GasPrice,
			ChainID:  tx.ChainID,
			From:     tx.From,
		}
	}
	return route
}

func sumGasCostsUSD(costs []gasCost) string {
	total := decimal.Zero
	for _, c := range costs {
		d, err := decimal.NewFromString(c.AmountUSD)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	if total.IsZero() {
		return ""
	}
	return total.String()
}

// tokenParam maps the empty native sentinel to the address form the
// aggregator expects.
func tokenParam(address string) string {
	if address == "" {
		return "0x0000000000000000000000000000000000000000"
	}
	return address
}
