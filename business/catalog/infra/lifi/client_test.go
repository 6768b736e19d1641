package lifi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Travisswop/swap-engine/business/catalog/infra/lifi"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/httpclient"
	"github.com/Travisswop/swap-engine/internal/logger"
	"github.com/Travisswop/swap-engine/internal/ratelimit"
)

func newClient(t *testing.T, handler http.HandlerFunc) *lifi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpc, err := httpclient.New(httpclient.Options{
		ProviderName: "catalog-test",
		BaseURL:      server.URL,
	})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return lifi.NewClient(httpc, ratelimit.New(600), logger.Nop{})
}

func TestTokens_DecodesAndMapsChain(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("chains"); got != "137" {
			t.Errorf("chains = %s, want 137", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tokens": {"137": [
			{"address": "0x2791bca1f2de4661ed88a30c99a7a9449aa84174", "symbol": "USDC", "name": "USD Coin", "decimals": 6, "chainId": 137, "priceUSD": "0.9998", "logoURI": "https://example.com/usdc.png"},
			{"address": "0x0000000000000000000000000000000000000000", "symbol": "POL", "name": "Polygon Ecosystem Token", "decimals": 18, "chainId": 137, "priceUSD": "0.52"}
		]}}`))
	})

	tokens, err := client.Tokens(context.Background(), "POLYGON")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens = %d, want 2", len(tokens))
	}

	usdc := tokens[0]
	if usdc.Chain != "POLYGON" || usdc.Symbol != "USDC" || usdc.Decimals != 6 {
		t.Errorf("unexpected token: %+v", usdc)
	}
	if !usdc.Market.HasPrice() {
		t.Error("expected USDC price to be set")
	}

	native := tokens[1]
	if !native.IsNative() {
		t.Errorf("zero address must map to the native sentinel, got %q", native.Address)
	}
}

func TestTokens_DropsTokensWithoutDecimals(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tokens": {"137": [
			{"address": "0xaaa0000000000000000000000000000000000001", "symbol": "GOOD", "name": "Good Token", "decimals": 18, "chainId": 137},
			{"address": "0xaaa0000000000000000000000000000000000002", "symbol": "BAD", "name": "No Decimals", "chainId": 137}
		]}}`))
	})

	tokens, err := client.Tokens(context.Background(), "POLYGON")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Symbol != "GOOD" {
		t.Errorf("tokens = %+v, want only GOOD", tokens)
	}
}

func TestTokens_UnknownChainRejectedLocally(t *testing.T) {
	called := false
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Tokens(context.Background(), "TRON")
	var unknown *asset.UnknownChainError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownChainError", err)
	}
	if called {
		t.Error("unknown chain must not reach the catalog endpoint")
	}
}

func TestTokens_ServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Tokens(context.Background(), "BASE")
	if apperror.GetCode(err) != apperror.CodeCatalogFetchFailed {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeCatalogFetchFailed)
	}
}
