// Package ui provides the Bubble Tea TUI for the swap engine.
package ui

import (
	"time"

	swapdomain "github.com/Travisswop/swap-engine/business/swap/domain"
	"github.com/Travisswop/swap-engine/internal/asset"
)

// Message types for TUI updates

// IntentMsg carries a fresh swap snapshot from the session.
type IntentMsg struct {
	Intent swapdomain.SwapIntent
}

// TokensMsg carries catalog search results for the token picker.
type TokensMsg struct {
	Tokens []asset.Token
	Query  string
}

// SubmittedMsg is sent when a route submission returns a hash.
type SubmittedMsg struct {
	Hash string
}

// ConnectionStatusMsg is sent when a dependency's connection status
// changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// PriceMsg is sent when a live ticker price arrives.
type PriceMsg struct {
	Symbol string
	Price  string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
