// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// TokenRow represents one catalog token in the picker list.
type TokenRow struct {
	Symbol string
	Name   string
	Chain  string
	Price  string
}

// TokenListComponent renders catalog search results with a movable
// selection.
type TokenListComponent struct {
	rows     []TokenRow
	selected int
}

// NewTokenListComponent creates a new token list component.
func NewTokenListComponent() *TokenListComponent {
	return &TokenListComponent{}
}

// Set replaces the token list and clamps the selection.
func (t *TokenListComponent) Set(rows []TokenRow) {
	t.rows = rows
	if t.selected >= len(rows) {
		t.selected = 0
	}
}

// Clear drops all tokens.
func (t *TokenListComponent) Clear() {
	t.rows = nil
	t.selected = 0
}

// MoveUp moves the selection up.
func (t *TokenListComponent) MoveUp() {
	if t.selected > 0 {
		t.selected--
	}
}

// MoveDown moves the selection down.
func (t *TokenListComponent) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
	}
}

// Selected returns the index of the highlighted token, or -1 when the
// list is empty.
func (t *TokenListComponent) Selected() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.selected
}

// Len returns the number of tokens.
func (t *TokenListComponent) Len() int {
	return len(t.rows)
}

// View renders the token list.
func (t *TokenListComponent) View() string {
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	if len(t.rows) == 0 {
		return mutedStyle.Render("  No tokens match...")
	}

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))

	var result string
	for i, row := range t.rows {
		line := fmt.Sprintf("  %-10s %-24s %-9s %s",
			truncate(row.Symbol, 10), truncate(row.Name, 24), row.Chain, row.Price)
		if i == t.selected {
			line = selectedStyle.Render("▸ " + line[2:])
		} else {
			line = mutedStyle.Render(line)
		}
		result += line + "\n"
	}
	return result
}
