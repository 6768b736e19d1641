package domain

import (
	"testing"

	"github.com/Travisswop/swap-engine/internal/apperror"
)

func validRequest() Request {
	return Request{
		FromChain:   137,
		ToChain:     8453,
		FromToken:   "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
		ToToken:     "",
		FromAmount:  "150000000",
		FromAddress: "0x1111111111111111111111111111111111111111",
		ToAddress:   "0x2222222222222222222222222222222222222222",
		Slippage:    0.005,
	}
}

func TestRequestValidate(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestRequestValidate_Amount(t *testing.T) {
	cases := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"empty", ""},
		{"negative", "-5"},
		{"decimal", "1.5"},
		{"text", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.FromAmount = tc.amount
			err := req.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperror.GetCode(err) != apperror.CodeQuoteRequestInvalid {
				t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeQuoteRequestInvalid)
			}
		})
	}
}

func TestRequestValidate_MissingFromAddress(t *testing.T) {
	req := validRequest()
	req.FromAddress = ""
	err := req.Validate()
	if apperror.GetCode(err) != apperror.CodeAddressUnresolved {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeAddressUnresolved)
	}
}

func TestRouteExecutable(t *testing.T) {
	var nilRoute *Route
	if nilRoute.Executable() {
		t.Error("nil route must not be executable")
	}
	route := &Route{ToAmount: "100"}
	if route.Executable() {
		t.Error("route without transaction must not be executable")
	}
	route.TransactionRequest = &TransactionRequest{To: "0x3333333333333333333333333333333333333333"}
	if !route.Executable() {
		t.Error("route with transaction must be executable")
	}
}
