// Package domain holds the swap session state model.
package domain

import (
	quotedomain "github.com/Travisswop/swap-engine/business/quote/domain"
	"github.com/Travisswop/swap-engine/internal/asset"
)

// State is the session's quoting lifecycle.
//
// Idle -> Estimating on any input change, Estimating -> Quoting when
// the debounce fires, Quoting -> Ready or Error when the latest quote
// lands. Superseded responses never transition the state.
type State string

const (
	StateIdle       State = "idle"
	StateEstimating State = "estimating"
	StateQuoting    State = "quoting"
	StateReady      State = "ready"
	StateError      State = "error"
)

// SwapIntent is a snapshot of the session: what the user wants to
// swap and where the engine is with it. Token and route pointers are
// read-only to snapshot holders.
type SwapIntent struct {
	PayToken     *asset.Token
	ReceiveToken *asset.Token

	PayAmount     string // human text, as typed
	PayAmountBase string // base units, "0" when invalid

	// ReceiveAmount is displayed. It holds the synchronous price-ratio
	// estimate until an authoritative route output replaces it.
	ReceiveAmount string
	// Estimated is true while ReceiveAmount is the local estimate.
	Estimated bool

	FromAddress string
	ToAddress   string

	Routes        []quotedomain.Route
	SelectedRoute *quotedomain.Route

	State         State
	StatusMessage string // user-visible, empty when healthy
}

// CanQuote reports whether the intent is complete enough to ask the
// aggregator for routes.
func (i *SwapIntent) CanQuote() bool {
	return i.PayToken != nil &&
		i.ReceiveToken != nil &&
		i.PayAmountBase != "" &&
		i.PayAmountBase != asset.ZeroBaseUnits &&
		i.FromAddress != ""
}

// CanExecute reports whether the intent holds a submittable route.
func (i *SwapIntent) CanExecute() bool {
	return i.CanQuote() && i.ToAddress != "" && i.SelectedRoute.Executable()
}
