package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Travisswop/swap-engine/business/catalog/app"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/logger"
)

type fakeSource struct {
	tokens []asset.Token
	err    error
}

func (f *fakeSource) Tokens(ctx context.Context, chain string) ([]asset.Token, error) {
	return f.tokens, f.err
}

func token(symbol, name string) asset.Token {
	return asset.Token{Chain: "POLYGON", Symbol: symbol, Name: name, Decimals: 18}
}

func TestRank_ExactBeforePrefixBeforeSubstring(t *testing.T) {
	tokens := []asset.Token{
		token("WUSDC", "Wrapped USDC"),  // substring
		token("USDCE", "Bridged USDC"),  // prefix
		token("USDC", "USD Coin"),       // exact
		token("DAI", "Dai Stablecoin"),  // no match
		token("XUSDC2", "Another USDC"), // substring
		token("USDC.E", "USD Coin PoS"), // prefix
	}

	got := app.Rank(tokens, "usdc", 20)

	want := []string{"USDC", "USDCE", "USDC.E", "WUSDC", "XUSDC2"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(got), len(want), got)
	}
	for i, symbol := range want {
		if got[i].Symbol != symbol {
			t.Errorf("result[%d] = %s, want %s", i, got[i].Symbol, symbol)
		}
	}
}

func TestRank_MatchesNameSubstring(t *testing.T) {
	tokens := []asset.Token{
		token("WETH", "Wrapped Ether"),
		token("MATIC", "Polygon"),
	}
	got := app.Rank(tokens, "ether", 20)
	if len(got) != 1 || got[0].Symbol != "WETH" {
		t.Errorf("got %+v, want WETH only", got)
	}
}

func TestRank_CapsResults(t *testing.T) {
	var tokens []asset.Token
	for i := 0; i < 50; i++ {
		tokens = append(tokens, token(fmt.Sprintf("AAA%d", i), "Token"))
	}

	if got := app.Rank(tokens, "aaa", 20); len(got) != 20 {
		t.Errorf("ranked results = %d, want 20", len(got))
	}
	if got := app.Rank(tokens, "", 20); len(got) != 20 {
		t.Errorf("unfiltered results = %d, want 20", len(got))
	}
}

func TestRank_StableWithinBand(t *testing.T) {
	tokens := []asset.Token{
		token("SOLX", "First"),
		token("SOLY", "Second"),
		token("SOLZ", "Third"),
	}
	got := app.Rank(tokens, "sol", 20)
	for i, symbol := range []string{"SOLX", "SOLY", "SOLZ"} {
		if got[i].Symbol != symbol {
			t.Fatalf("band order changed: %+v", got)
		}
	}
}

func TestSearch_UnknownChain(t *testing.T) {
	svc := app.NewService(&fakeSource{}, 20, logger.Nop{})

	_, err := svc.Search(context.Background(), "TRON", "usdc")
	var unknown *asset.UnknownChainError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownChainError", err)
	}
}

func TestSearch_SourceErrorPropagates(t *testing.T) {
	wantErr := errors.New("fetch failed")
	svc := app.NewService(&fakeSource{err: wantErr}, 20, logger.Nop{})

	_, err := svc.Search(context.Background(), "POLYGON", "usdc")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
