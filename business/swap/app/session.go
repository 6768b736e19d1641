// Package app implements the swap session orchestrator: it owns the
// intent, debounces input, keeps the estimate and the authoritative
// quote straight, and submits the selected route.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	catalogapp "github.com/Travisswop/swap-engine/business/catalog/app"
	quoteapp "github.com/Travisswop/swap-engine/business/quote/app"
	quotedomain "github.com/Travisswop/swap-engine/business/quote/domain"
	"github.com/Travisswop/swap-engine/business/swap/domain"
	walletapp "github.com/Travisswop/swap-engine/business/wallet/app"
	walletdomain "github.com/Travisswop/swap-engine/business/wallet/domain"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/logger"
)

// DefaultDebounce is the trailing debounce applied to amount and token
// changes before a quote request fires.
const DefaultDebounce = 300 * time.Millisecond

// PriceSource resolves a live spot price for a symbol. Optional; the
// session falls back to catalog prices.
type PriceSource interface {
	Price(symbol string) (decimal.Decimal, bool)
}

// Config tunes one session.
type Config struct {
	Debounce time.Duration
	Slippage float64
}

// Session is the swap orchestrator. All methods are safe for
// concurrent use; state changes are published through OnChange.
//
// Every quote request carries a sequence number taken under the lock.
// Only the response matching the latest issued sequence may mutate the
// intent; anything older is discarded, so a stale quote can never
// overwrite a newer amount's result. Superseding a request also
// cancels its context.
type Session struct {
	quotes    *quoteapp.Service
	catalog   *catalogapp.Service
	resolver  *walletapp.Resolver
	submitter walletapp.Submitter
	prices    PriceSource
	log       logger.LoggerInterface
	cfg       Config

	mu       sync.Mutex
	intent   domain.SwapIntent
	seq      uint64
	walletGn uint64
	debounce *time.Timer
	cancel   context.CancelFunc

	onChange func(domain.SwapIntent)
}

func NewSession(
	quotes *quoteapp.Service,
	catalog *catalogapp.Service,
	resolver *walletapp.Resolver,
	submitter walletapp.Submitter,
	prices PriceSource,
	cfg Config,
	log logger.LoggerInterface,
) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Session{
		quotes:    quotes,
		catalog:   catalog,
		resolver:  resolver,
		submitter: submitter,
		prices:    prices,
		log:       log,
		cfg:       cfg,
		intent:    domain.SwapIntent{State: domain.StateIdle},
	}
}

// OnChange registers the snapshot listener. It is called after every
// state change, outside the session lock.
func (s *Session) OnChange(fn func(domain.SwapIntent)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current intent.
func (s *Session) Snapshot() domain.SwapIntent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetPayToken sets the pay slot and refreshes.
func (s *Session) SetPayToken(token *asset.Token) {
	s.mu.Lock()
	s.intent.PayToken = token
	s.refreshLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetReceiveToken sets the receive slot and refreshes.
func (s *Session) SetReceiveToken(token *asset.Token) {
	s.mu.Lock()
	s.intent.ReceiveToken = token
	s.refreshLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetPayAmount updates the typed amount. Malformed text converts to
// the zero sentinel and simply suppresses quoting; typing is not an
// error condition.
func (s *Session) SetPayAmount(text string) {
	s.mu.Lock()
	s.intent.PayAmount = text
	s.refreshLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Flip atomically exchanges the pay and receive sides. The displayed
// receive amount becomes the new pay amount, then a fresh cycle runs.
func (s *Session) Flip() {
	s.mu.Lock()
	s.intent.PayToken, s.intent.ReceiveToken = s.intent.ReceiveToken, s.intent.PayToken
	s.intent.PayAmount, s.intent.ReceiveAmount = s.intent.ReceiveAmount, ""
	s.refreshLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SelectReceiveChain clears the receive slot when the user switches
// the destination chain; the UI re-searches the catalog for it.
func (s *Session) SelectReceiveChain(chain string) error {
	if _, err := asset.LookupChain(chain); err != nil {
		return err
	}
	s.mu.Lock()
	s.intent.ReceiveToken = nil
	s.refreshLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// SearchTokens proxies a catalog search for the UI.
func (s *Session) SearchTokens(ctx context.Context, chain, query string) ([]asset.Token, error) {
	return s.catalog.Search(ctx, chain, query)
}

// Execute submits the selected route's transaction. Failures surface
// in the returned error and in the session status.
func (s *Session) Execute(ctx context.Context) (string, error) {
	s.mu.Lock()
	intent := s.snapshotLocked()
	s.mu.Unlock()

	if !intent.CanQuote() {
		return "", s.failExecute(apperror.New(apperror.CodeInvalidState,
			apperror.WithContext("swap is not ready to execute")))
	}
	if intent.ToAddress == "" {
		return "", s.failExecute(apperror.New(apperror.CodeWalletNotReady))
	}
	if !intent.SelectedRoute.Executable() {
		return "", s.failExecute(apperror.New(apperror.CodeInvalidState,
			apperror.WithContext("no executable route selected")))
	}
	if s.submitter == nil {
		return "", s.failExecute(apperror.New(apperror.CodeWalletNotReady,
			apperror.WithContext("no signer configured")))
	}

	tx := intent.SelectedRoute.TransactionRequest
	hash, err := s.submitter.Submit(ctx, walletdomain.Transaction{
		ChainID:  tx.ChainID,
		To:       tx.To,
		Data:     tx.Data,
		Value:    tx.Value,
		GasLimit: tx.GasLimit,
		GasPrice: tx.GasPrice,
		From:     tx.From,
	})
	if err != nil {
		s.log.Error(ctx, "route submission failed", "error", err)
		return "", s.failExecute(err)
	}

	s.mu.Lock()
	s.intent.StatusMessage = "Transaction submitted: " + hash
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return hash, nil
}

// Close stops the debounce timer and cancels any in-flight quote.
func (s *Session) Close() {
	s.mu.Lock()
	if s.debounce != nil {
		s.debounce.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// refreshLocked re-derives addresses, the base amount, and the
// estimate, then schedules a quote request behind the debounce. The
// caller holds the lock.
func (s *Session) refreshLocked() {
	// Any input change invalidates in-flight work.
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}

	s.walletGn = s.resolver.Generation()
	s.intent.FromAddress = s.resolver.Resolve(s.intent.PayToken)
	s.intent.ToAddress = s.resolver.Resolve(s.intent.ReceiveToken)
	s.intent.Routes = nil
	s.intent.SelectedRoute = nil
	s.intent.StatusMessage = ""

	if s.intent.PayToken != nil {
		s.intent.PayAmountBase = asset.ToBaseUnits(s.intent.PayAmount, s.intent.PayToken.Decimals)
	} else {
		s.intent.PayAmountBase = asset.ZeroBaseUnits
	}

	if s.intent.PayToken == nil || s.intent.ReceiveToken == nil ||
		s.intent.PayAmountBase == asset.ZeroBaseUnits {
		s.intent.ReceiveAmount = ""
		s.intent.Estimated = false
		s.intent.State = domain.StateIdle
		return
	}

	s.estimateLocked()
	s.intent.State = domain.StateEstimating

	if s.intent.FromAddress == "" {
		// No address for the pay chain: show the estimate but never
		// send an unanswerable quote request.
		s.intent.StatusMessage = apperror.MessageFor(apperror.CodeWalletNotReady)
		return
	}

	seq := s.seq
	s.debounce = time.AfterFunc(s.cfg.Debounce, func() {
		s.requestQuote(seq)
	})
}

// estimateLocked fills ReceiveAmount with the price-ratio estimate
// when both sides have a positive price.
func (s *Session) estimateLocked() {
	amount, ok := asset.ParsePositive(s.intent.PayAmount)
	if !ok {
		s.intent.ReceiveAmount = ""
		s.intent.Estimated = false
		return
	}

	payPrice := s.price(s.intent.PayToken)
	receivePrice := s.price(s.intent.ReceiveToken)
	if !payPrice.IsPositive() || !receivePrice.IsPositive() {
		s.intent.ReceiveAmount = ""
		s.intent.Estimated = false
		s.intent.StatusMessage = apperror.MessageFor(apperror.CodePriceUnavailable)
		return
	}

	estimate := amount.Mul(payPrice).Div(receivePrice)
	s.intent.ReceiveAmount = asset.FormatAmount(estimate, s.intent.ReceiveToken.Decimals)
	s.intent.Estimated = true
}

func (s *Session) price(token *asset.Token) decimal.Decimal {
	if token == nil {
		return decimal.Zero
	}
	if s.prices != nil {
		if p, ok := s.prices.Price(strings.ToUpper(token.Symbol) + "USDT"); ok {
			return p
		}
	}
	return token.Price()
}

// requestQuote runs after the debounce. seq is the sequence this
// request was issued under; the response only applies while it still
// equals the latest.
func (s *Session) requestQuote(seq uint64) {
	s.mu.Lock()
	if seq != s.seq || !s.intent.CanQuote() {
		s.mu.Unlock()
		return
	}

	fromChain, err := s.intent.PayToken.ChainID()
	if err != nil {
		s.applyErrorLocked(err)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return
	}
	toChain, err := s.intent.ReceiveToken.ChainID()
	if err != nil {
		s.applyErrorLocked(err)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return
	}

	req := quotedomain.Request{
		FromChain:   fromChain,
		ToChain:     toChain,
		FromToken:   s.intent.PayToken.Address,
		ToToken:     s.intent.ReceiveToken.Address,
		FromAmount:  s.intent.PayAmountBase,
		FromAddress: s.intent.FromAddress,
		ToAddress:   s.intent.ToAddress,
		Slippage:    s.cfg.Slippage,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.intent.State = domain.StateQuoting
	walletGn := s.walletGn
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	routes, fetchErr := s.quotes.FetchRoutes(ctx, req)

	s.mu.Lock()
	if seq != s.seq {
		// Superseded while in flight; a newer request owns the intent.
		s.mu.Unlock()
		return
	}
	if walletGn != s.resolver.Generation() {
		// Account switched mid-flight; the result was quoted for the
		// old addresses. Start over with the new ones.
		s.refreshLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return
	}

	if fetchErr != nil {
		if errors.Is(fetchErr, context.Canceled) {
			s.mu.Unlock()
			return
		}
		s.applyErrorLocked(fetchErr)
	} else {
		s.applyRoutesLocked(routes)
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// applyRoutesLocked installs the authoritative quote. The routed
// output replaces the estimate.
func (s *Session) applyRoutesLocked(routes []quotedomain.Route) {
	s.intent.Routes = routes
	s.intent.SelectedRoute = quoteapp.Best(routes)
	s.intent.ReceiveAmount = asset.FromBaseUnits(
		s.intent.SelectedRoute.ToAmount, s.intent.ReceiveToken.Decimals)
	s.intent.Estimated = false
	s.intent.State = domain.StateReady
	s.intent.StatusMessage = ""
}

func (s *Session) applyErrorLocked(err error) {
	s.intent.Routes = nil
	s.intent.SelectedRoute = nil
	s.intent.State = domain.StateError
	s.intent.StatusMessage = apperror.DisplayFor(err)
}

func (s *Session) failExecute(err error) error {
	s.mu.Lock()
	s.intent.State = domain.StateError
	s.intent.StatusMessage = apperror.DisplayFor(err)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return err
}

func (s *Session) snapshotLocked() domain.SwapIntent {
	snap := s.intent
	if len(s.intent.Routes) > 0 {
		snap.Routes = make([]quotedomain.Route, len(s.intent.Routes))
		copy(snap.Routes, s.intent.Routes)
	}
	return snap
}

func (s *Session) notify(snap domain.SwapIntent) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
