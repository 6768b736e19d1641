// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// SwapSide is the displayed state of one side of the swap.
type SwapSide struct {
	Label  string
	Symbol string
	Chain  string
	Amount string
}

// SummaryComponent renders the pay/receive panel.
type SummaryComponent struct {
	pay       SwapSide
	receive   SwapSide
	estimated bool
}

// NewSummaryComponent creates a new summary component.
func NewSummaryComponent() *SummaryComponent {
	return &SummaryComponent{
		pay:     SwapSide{Label: "You pay"},
		receive: SwapSide{Label: "You receive"},
	}
}

// Update replaces both sides. estimated marks the receive amount as a
// price-ratio approximation rather than a routed quote.
func (s *SummaryComponent) Update(pay, receive SwapSide, estimated bool) {
	pay.Label, receive.Label = "You pay", "You receive"
	s.pay = pay
	s.receive = receive
	s.estimated = estimated
}

// View renders the summary.
func (s *SummaryComponent) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	amountStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	tokenStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	estimateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	render := func(side SwapSide, approx bool) string {
		symbol := side.Symbol
		if symbol == "" {
			symbol = "---"
		}
		amount := side.Amount
		if amount == "" {
			amount = "0"
		}
		prefix := ""
		if approx {
			prefix = estimateStyle.Render("≈ ")
		}
		line := fmt.Sprintf("%s\n%s%s %s",
			labelStyle.Render(side.Label),
			prefix,
			amountStyle.Render(amount),
			tokenStyle.Render(symbol),
		)
		if side.Chain != "" {
			line += labelStyle.Render(" on " + side.Chain)
		}
		return line
	}

	return render(s.pay, false) + "\n\n" + render(s.receive, s.estimated)
}
