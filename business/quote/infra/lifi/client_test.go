package lifi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Travisswop/swap-engine/business/quote/domain"
	"github.com/Travisswop/swap-engine/business/quote/infra/lifi"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/httpclient"
	"github.com/Travisswop/swap-engine/internal/logger"
	"github.com/Travisswop/swap-engine/internal/ratelimit"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*lifi.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpc, err := httpclient.New(httpclient.Options{
		ProviderName: "lifi-test",
		BaseURL:      server.URL,
	})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return lifi.NewClient(httpc, ratelimit.New(600), logger.Nop{}), server
}

func testRequest() domain.Request {
	return domain.Request{
		FromChain:   137,
		ToChain:     8453,
		FromToken:   "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
		FromAmount:  "150000000",
		FromAddress: "0x1111111111111111111111111111111111111111",
		ToAddress:   "0x2222222222222222222222222222222222222222",
		Slippage:    0.005,
	}
}

func TestGetQuote_Success(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/quote" {
			t.Errorf("path = %s, want /v1/quote", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("fromChain") != "137" || q.Get("fromAmount") != "150000000" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "q-1",
			"tool": "stargate",
			"estimate": {
				"fromAmount": "150000000",
				"toAmount": "149200000",
				"toAmountMin": "148454000",
				"executionDuration": 45,
				"gasCosts": [{"amountUSD": "0.12"}, {"amountUSD": "0.03"}]
			},
			"transactionRequest": {
				"to": "0x3333333333333333333333333333333333333333",
				"data": "0xdeadbeef",
				"value": "0x0",
				"gasLimit": "0x5208",
				"chainId": 137,
				"from": "0x1111111111111111111111111111111111111111"
			}
		}`))
	})

	routes, err := client.GetQuote(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}

	route := routes[0]
	if route.Tool != "stargate" {
		t.Errorf("tool = %s, want stargate", route.Tool)
	}
	if route.ToAmount != "149200000" {
		t.Errorf("toAmount = %s, want 149200000", route.ToAmount)
	}
	if route.GasCostUSD != "0.15" {
		t.Errorf("gasCostUSD = %s, want 0.15", route.GasCostUSD)
	}
	if !route.Executable() {
		t.Error("expected executable route")
	}
	if route.TransactionRequest.ChainID != 137 {
		t.Errorf("chainId = %d, want 137", route.TransactionRequest.ChainID)
	}
}

func TestGetQuote_NoRoutesIsEmptyNotError(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "No available quotes for the requested transfer"}`))
	})

	routes, err := client.GetQuote(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("no-routes must not be a provider failure, got: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(routes))
	}
}

func TestGetQuote_ErrorMessageExtracted(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Invalid fromAmount", "code": 1011}`))
	})

	_, err := client.GetQuote(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	if apperror.GetCode(err) != apperror.CodeQuoteRequestInvalid {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeQuoteRequestInvalid)
	}
	if !strings.Contains(err.Error(), "Invalid fromAmount") {
		t.Errorf("error %q does not carry the aggregator message", err.Error())
	}
}

func TestGetQuote_ServerErrorMapsToUnavailable(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	})

	_, err := client.GetQuote(context.Background(), testRequest())
	if apperror.GetCode(err) != apperror.CodeServiceUnavailable {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeServiceUnavailable)
	}
}

func TestGetQuote_NativeTokenSentinel(t *testing.T) {
	var gotFromToken string
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFromToken = r.URL.Query().Get("fromToken")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "no route"}`))
	})

	req := testRequest()
	req.FromToken = ""
	client.GetQuote(context.Background(), req)

	if gotFromToken != "0x0000000000000000000000000000000000000000" {
		t.Errorf("fromToken = %s, want zero address", gotFromToken)
	}
}
