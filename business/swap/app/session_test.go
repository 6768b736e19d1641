package app_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalogapp "github.com/Travisswop/swap-engine/business/catalog/app"
	quoteapp "github.com/Travisswop/swap-engine/business/quote/app"
	quotedomain "github.com/Travisswop/swap-engine/business/quote/domain"
	swapapp "github.com/Travisswop/swap-engine/business/swap/app"
	"github.com/Travisswop/swap-engine/business/swap/domain"
	walletapp "github.com/Travisswop/swap-engine/business/wallet/app"
	walletdomain "github.com/Travisswop/swap-engine/business/wallet/domain"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/logger"
)

const (
	evmAddr    = "0x1111111111111111111111111111111111111111"
	solanaAddr = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

// recordingProvider counts quote calls and replies per request.
type recordingProvider struct {
	mu      sync.Mutex
	calls   []quotedomain.Request
	respond func(ctx context.Context, req quotedomain.Request) ([]quotedomain.Route, error)
}

func (p *recordingProvider) GetQuote(ctx context.Context, req quotedomain.Request) ([]quotedomain.Route, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	if p.respond != nil {
		return p.respond(ctx, req)
	}
	return []quotedomain.Route{routeFor(req)}, nil
}

func (p *recordingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *recordingProvider) lastCall() quotedomain.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}

func routeFor(req quotedomain.Request) quotedomain.Route {
	return quotedomain.Route{
		ID:         "r-" + req.FromAmount,
		Tool:       "hop",
		FromAmount: req.FromAmount,
		// Echo the input amount shifted so tests can tell routes apart.
		ToAmount: req.FromAmount,
		TransactionRequest: &quotedomain.TransactionRequest{
			To:      "0x3333333333333333333333333333333333333333",
			Data:    "0xdeadbeef",
			Value:   "0x0",
			ChainID: req.FromChain,
		},
	}
}

type fakeSubmitter struct {
	hash string
	err  error
	got  *walletdomain.Transaction
}

func (f *fakeSubmitter) Submit(ctx context.Context, tx walletdomain.Transaction) (string, error) {
	f.got = &tx
	return f.hash, f.err
}

type emptySource struct{}

func (emptySource) Tokens(ctx context.Context, chain string) ([]asset.Token, error) {
	return nil, nil
}

func usdc() *asset.Token {
	return &asset.Token{
		Chain: "POLYGON", Address: "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
		Symbol: "USDC", Name: "USD Coin", Decimals: 6,
		Market: &asset.Market{Price: decimal.NewFromInt(1)},
	}
}

func sol() *asset.Token {
	return &asset.Token{
		Chain: "SOLANA", Address: "So11111111111111111111111111111111111111112",
		Symbol: "SOL", Name: "Solana", Decimals: 9,
		Market: &asset.Market{Price: decimal.NewFromInt(150)},
	}
}

func weth() *asset.Token {
	return &asset.Token{
		Chain: "BASE", Address: "0x4200000000000000000000000000000000000006",
		Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18,
		Market: &asset.Market{Price: decimal.NewFromInt(2500)},
	}
}

func newSession(t *testing.T, provider *recordingProvider) *swapapp.Session {
	t.Helper()
	resolver := walletapp.NewResolver(walletdomain.AddressSet{EVM: evmAddr, Solana: solanaAddr})
	return newSessionWith(t, provider, resolver, &fakeSubmitter{hash: "0xabc"})
}

func newSessionWith(t *testing.T, provider *recordingProvider, resolver *walletapp.Resolver, submitter walletapp.Submitter) *swapapp.Session {
	t.Helper()
	quotes := quoteapp.NewService(provider, time.Second, logger.Nop{})
	catalog := catalogapp.NewService(emptySource{}, 20, logger.Nop{})
	session := swapapp.NewSession(quotes, catalog, resolver, submitter, nil,
		swapapp.Config{Debounce: 30 * time.Millisecond, Slippage: 0.005}, logger.Nop{})
	t.Cleanup(session.Close)
	return session
}

func waitForState(t *testing.T, s *swapapp.Session, want domain.State) domain.SwapIntent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if snap.State == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, last: %+v", want, s.Snapshot())
	return domain.SwapIntent{}
}

func TestEstimateShownImmediately(t *testing.T) {
	session := newSession(t, &recordingProvider{})
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())
	session.SetPayAmount("150")

	snap := session.Snapshot()
	if snap.State != domain.StateEstimating {
		t.Fatalf("state = %s, want %s", snap.State, domain.StateEstimating)
	}
	if !snap.Estimated {
		t.Error("expected the estimate flag while no route has landed")
	}
	// 150 USDC * $1 / $150 = 1 SOL at 9 decimals.
	if snap.ReceiveAmount != "1.000000000" {
		t.Errorf("estimate = %q, want 1.000000000", snap.ReceiveAmount)
	}
	if snap.PayAmountBase != "150000000" {
		t.Errorf("base amount = %q, want 150000000", snap.PayAmountBase)
	}
}

func TestEstimateWithoutPrices(t *testing.T) {
	session := newSession(t, &recordingProvider{})
	pay := usdc()
	pay.Market = nil
	session.SetPayToken(pay)
	session.SetReceiveToken(sol())
	session.SetPayAmount("150")

	snap := session.Snapshot()
	if snap.ReceiveAmount != "" {
		t.Errorf("estimate without prices = %q, want empty", snap.ReceiveAmount)
	}
	if snap.StatusMessage != "Price data unavailable" {
		t.Errorf("status = %q, want price-unavailable message", snap.StatusMessage)
	}
}

func TestDebounce_OneRequestForRapidTyping(t *testing.T) {
	provider := &recordingProvider{}
	session := newSession(t, provider)
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())

	for _, text := range []string{"1", "15", "150"} {
		session.SetPayAmount(text)
		time.Sleep(5 * time.Millisecond)
	}

	waitForState(t, session, domain.StateReady)
	if n := provider.callCount(); n != 1 {
		t.Fatalf("provider calls = %d, want 1", n)
	}
	if got := provider.lastCall().FromAmount; got != "150000000" {
		t.Errorf("quoted amount = %s, want the final input 150000000", got)
	}
}

func TestSupersession_StaleResponseNeverApplies(t *testing.T) {
	release := make(chan struct{})
	var inFlight atomic.Int32
	provider := &recordingProvider{
		respond: func(ctx context.Context, req quotedomain.Request) ([]quotedomain.Route, error) {
			if inFlight.Add(1) == 1 {
				// First request: hang until released, ignoring
				// cancellation, as a worst-case slow responder.
				<-release
				return []quotedomain.Route{routeFor(req)}, nil
			}
			return []quotedomain.Route{routeFor(req)}, nil
		},
	}
	session := newSession(t, provider)
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())

	session.SetPayAmount("1")
	waitForState(t, session, domain.StateQuoting)

	session.SetPayAmount("150")
	snap := waitForState(t, session, domain.StateReady)
	if snap.SelectedRoute.FromAmount != "150000000" {
		t.Fatalf("applied route is for %s, want 150000000", snap.SelectedRoute.FromAmount)
	}

	// Let the stale response land; it must not overwrite the newer one.
	close(release)
	time.Sleep(50 * time.Millisecond)

	snap = session.Snapshot()
	if snap.SelectedRoute == nil || snap.SelectedRoute.FromAmount != "150000000" {
		t.Errorf("stale response overwrote the intent: %+v", snap.SelectedRoute)
	}
}

func TestRouteOutputReplacesEstimate(t *testing.T) {
	provider := &recordingProvider{
		respond: func(ctx context.Context, req quotedomain.Request) ([]quotedomain.Route, error) {
			route := routeFor(req)
			route.ToAmount = "987000000" // 0.987 SOL
			return []quotedomain.Route{route}, nil
		},
	}
	session := newSession(t, provider)
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())
	session.SetPayAmount("150")

	snap := waitForState(t, session, domain.StateReady)
	if snap.Estimated {
		t.Error("estimate flag must clear once the route applies")
	}
	if snap.ReceiveAmount != "0.987" {
		t.Errorf("receive amount = %q, want the routed 0.987", snap.ReceiveAmount)
	}
}

func TestNoRoutes_SurfacesUserMessage(t *testing.T) {
	provider := &recordingProvider{
		respond: func(ctx context.Context, req quotedomain.Request) ([]quotedomain.Route, error) {
			return nil, nil
		},
	}
	session := newSession(t, provider)
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())
	session.SetPayAmount("150")

	snap := waitForState(t, session, domain.StateError)
	if snap.StatusMessage != "No routes found" {
		t.Errorf("status = %q, want %q", snap.StatusMessage, "No routes found")
	}
}

func TestMalformedAmountSuppressesQuoting(t *testing.T) {
	provider := &recordingProvider{}
	session := newSession(t, provider)
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())
	session.SetPayAmount("abc")

	time.Sleep(80 * time.Millisecond)
	snap := session.Snapshot()
	if snap.State != domain.StateIdle {
		t.Errorf("state = %s, want %s", snap.State, domain.StateIdle)
	}
	if snap.PayAmountBase != asset.ZeroBaseUnits {
		t.Errorf("base = %q, want zero sentinel", snap.PayAmountBase)
	}
	if provider.callCount() != 0 {
		t.Error("malformed amount must not reach the aggregator")
	}
}

func TestMissingWalletSuppressesQuoting(t *testing.T) {
	provider := &recordingProvider{}
	resolver := walletapp.NewResolver(walletdomain.AddressSet{EVM: evmAddr}) // no Solana
	session := newSessionWith(t, provider, resolver, &fakeSubmitter{})

	session.SetPayToken(sol()) // pay side resolves to ""
	session.SetReceiveToken(usdc())
	session.SetPayAmount("1")

	time.Sleep(80 * time.Millisecond)
	snap := session.Snapshot()
	if provider.callCount() != 0 {
		t.Error("missing pay address must suppress quote requests")
	}
	if snap.ReceiveAmount == "" {
		t.Error("estimate should still show without a wallet")
	}
	if snap.StatusMessage != "Wallet not connected" {
		t.Errorf("status = %q, want wallet message", snap.StatusMessage)
	}
}

func TestFlip(t *testing.T) {
	provider := &recordingProvider{}
	session := newSession(t, provider)
	session.SetPayToken(usdc())
	session.SetReceiveToken(weth())
	session.SetPayAmount("2500")

	waitForState(t, session, domain.StateReady)
	before := session.Snapshot()

	session.Flip()
	snap := session.Snapshot()

	if snap.PayToken.Symbol != "WETH" || snap.ReceiveToken.Symbol != "USDC" {
		t.Fatalf("tokens did not flip: pay=%s receive=%s", snap.PayToken.Symbol, snap.ReceiveToken.Symbol)
	}
	if snap.PayAmount != before.ReceiveAmount {
		t.Errorf("pay amount = %q, want the displayed receive amount %q", snap.PayAmount, before.ReceiveAmount)
	}
	if snap.State != domain.StateEstimating {
		t.Errorf("state after flip = %s, want %s", snap.State, domain.StateEstimating)
	}
	if snap.SelectedRoute != nil {
		t.Error("routes must clear on flip")
	}
}

func TestSelectReceiveChainClearsSlot(t *testing.T) {
	session := newSession(t, &recordingProvider{})
	session.SetPayToken(usdc())
	session.SetReceiveToken(sol())

	if err := session.SelectReceiveChain("BASE"); err != nil {
		t.Fatalf("SelectReceiveChain: %v", err)
	}
	if snap := session.Snapshot(); snap.ReceiveToken != nil {
		t.Error("receive slot must clear on chain switch")
	}

	if err := session.SelectReceiveChain("TRON"); err == nil {
		t.Error("unknown chain must be rejected")
	}
}

func TestExecute(t *testing.T) {
	submitter := &fakeSubmitter{hash: "0xfeed"}
	resolver := walletapp.NewResolver(walletdomain.AddressSet{EVM: evmAddr, Solana: solanaAddr})
	provider := &recordingProvider{}
	session := newSessionWith(t, provider, resolver, submitter)

	session.SetPayToken(usdc())
	session.SetReceiveToken(weth())
	session.SetPayAmount("150")
	waitForState(t, session, domain.StateReady)

	hash, err := session.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if hash != "0xfeed" {
		t.Errorf("hash = %s, want 0xfeed", hash)
	}
	if submitter.got == nil || submitter.got.To != "0x3333333333333333333333333333333333333333" {
		t.Errorf("submitted tx = %+v", submitter.got)
	}
	if !strings.Contains(session.Snapshot().StatusMessage, "0xfeed") {
		t.Errorf("status = %q, want submitted hash", session.Snapshot().StatusMessage)
	}
}

func TestExecute_NotReady(t *testing.T) {
	session := newSession(t, &recordingProvider{})
	session.SetPayToken(usdc())

	_, err := session.Execute(context.Background())
	if apperror.GetCode(err) != apperror.CodeInvalidState {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeInvalidState)
	}
	if session.Snapshot().StatusMessage == "" {
		t.Error("execute failure must be user-visible")
	}
}

func TestExecute_SubmissionFailureSurfaces(t *testing.T) {
	submitter := &fakeSubmitter{err: apperror.New(apperror.CodeSubmissionFailed)}
	resolver := walletapp.NewResolver(walletdomain.AddressSet{EVM: evmAddr})
	session := newSessionWith(t, &recordingProvider{}, resolver, submitter)

	session.SetPayToken(usdc())
	session.SetReceiveToken(weth())
	session.SetPayAmount("10")
	waitForState(t, session, domain.StateReady)

	_, err := session.Execute(context.Background())
	if apperror.GetCode(err) != apperror.CodeSubmissionFailed {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeSubmissionFailed)
	}
	snap := session.Snapshot()
	if snap.State != domain.StateError || snap.StatusMessage == "" {
		t.Errorf("submission failure not surfaced: %+v", snap)
	}
}

func TestAccountSwitchInvalidatesInFlightQuote(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	provider := &recordingProvider{
		respond: func(ctx context.Context, req quotedomain.Request) ([]quotedomain.Route, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			return []quotedomain.Route{routeFor(req)}, nil
		},
	}
	resolver := walletapp.NewResolver(walletdomain.AddressSet{EVM: evmAddr})
	session := newSessionWith(t, provider, resolver, &fakeSubmitter{})

	session.SetPayToken(usdc())
	session.SetReceiveToken(weth())
	session.SetPayAmount("10")
	<-started

	// Switch accounts while the quote is in flight.
	other := "0x2222222222222222222222222222222222222222"
	if err := resolver.SetAddresses(walletdomain.AddressSet{EVM: other}); err != nil {
		t.Fatal(err)
	}
	close(release)

	snap := waitForState(t, session, domain.StateReady)
	if snap.FromAddress != other {
		t.Errorf("fromAddress = %s, want the new account %s", snap.FromAddress, other)
	}
	if got := provider.lastCall().FromAddress; got != other {
		t.Errorf("requoted with %s, want %s", got, other)
	}
}
