// Package lifi fetches chain token lists from a LI.FI-style catalog
// endpoint.
package lifi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/httpclient"
	"github.com/Travisswop/swap-engine/internal/logger"
	"github.com/Travisswop/swap-engine/internal/ratelimit"
)

const tracerName = "lifi-catalog"

// Client implements app.Source against GET /v1/tokens.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	log     logger.LoggerInterface
	tracer  trace.Tracer
}

func NewClient(http httpclient.Client, limiter *ratelimit.Limiter, log logger.LoggerInterface) *Client {
	return &Client{
		http:    http,
		limiter: limiter,
		log:     log,
		tracer:  otel.Tracer(tracerName),
	}
}

// Tokens fetches the token list for one chain. Tokens arriving without
// a decimals value are dropped: conversions are undefined without it
// and a guessed precision corrupts every amount downstream.
func (c *Client) Tokens(ctx context.Context, chain string) ([]asset.Token, error) {
	registered, err := asset.LookupChain(chain)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "lifi.Tokens",
		trace.WithAttributes(attribute.String("chain", chain)),
	)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result tokensResponse
	_, err = c.http.NewRequest().
		SetQueryParam("chains", strconv.FormatUint(registered.ID, 10)).
		SetResult(&result).
		SetErrorHandler(catalogError).
		Get(ctx, "/v1/tokens")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Wrap(err, apperror.CodeCatalogTimeout, "token list")
		}
		return nil, err
	}

	wire := result.Tokens[strconv.FormatUint(registered.ID, 10)]
	tokens := make([]asset.Token, 0, len(wire))
	dropped := 0
	for _, raw := range wire {
		token, err := toToken(raw, registered.Name)
		if err != nil {
			dropped++
			continue
		}
		tokens = append(tokens, token)
	}
	if dropped > 0 {
		c.log.Debug(ctx, "dropped tokens without decimals", "chain", chain, "count", dropped)
	}

	span.SetAttributes(attribute.Int("tokens", len(tokens)))
	return tokens, nil
}

func catalogError(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	return apperror.New(apperror.CodeCatalogFetchFailed,
		apperror.WithContext(fmt.Sprintf("catalog status %d", statusCode)))
}

func toToken(raw tokenResponse, chainName string) (asset.Token, error) {
	if raw.Decimals == nil {
		return asset.Token{}, asset.ErrMissingDecimals
	}

	token := asset.Token{
		Chain:    chainName,
		Address:  nativeToEmpty(raw.Address),
		Symbol:   raw.Symbol,
		Name:     raw.Name,
		Decimals: *raw.Decimals,
		LogoURI:  raw.LogoURI,
	}

	if raw.PriceUSD != "" {
		if price, err := decimal.NewFromString(raw.PriceUSD); err == nil && price.IsPositive() {
			token.Market = &asset.Market{Price: price}
		}
	}

	if err := token.Validate(); err != nil {
		return asset.Token{}, err
	}
	return token, nil
}

// nativeToEmpty maps the aggregator's zero-address native sentinel to
// the model's empty-address form.
func nativeToEmpty(address string) string {
	if address == "0x0000000000000000000000000000000000000000" {
		return ""
	}
	return address
}
