// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// RouteRow represents one aggregator route in the list.
type RouteRow struct {
	Tool     string
	Receive  string
	GasUSD   string
	Duration string
}

// RoutesComponent renders the route list with a movable selection.
type RoutesComponent struct {
	rows     []RouteRow
	selected int
}

// NewRoutesComponent creates a new routes component.
func NewRoutesComponent() *RoutesComponent {
	return &RoutesComponent{}
}

// Set replaces the route list and resets the selection.
func (r *RoutesComponent) Set(rows []RouteRow) {
	r.rows = rows
	r.selected = 0
}

// Clear drops all routes.
func (r *RoutesComponent) Clear() {
	r.rows = nil
	r.selected = 0
}

// MoveUp moves the selection up.
func (r *RoutesComponent) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *RoutesComponent) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// Selected returns the index of the highlighted route.
func (r *RoutesComponent) Selected() int {
	return r.selected
}

// Len returns the number of routes.
func (r *RoutesComponent) Len() int {
	return len(r.rows)
}

// View renders the routes component.
func (r *RoutesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	if len(r.rows) == 0 {
		return headerStyle.Render("ROUTES") + "\n\nNo routes yet..."
	}

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	result := headerStyle.Render(fmt.Sprintf("ROUTES (%d)", len(r.rows))) + "\n"
	result += "┌──────────────┬──────────────────┬─────────┬───────┐\n"
	result += "│     Tool     │     Receive      │   Gas   │  ETA  │\n"
	result += "├──────────────┼──────────────────┼─────────┼───────┤\n"

	for i, row := range r.rows {
		marker := "  "
		line := fmt.Sprintf("│%s%-12s│%17s │%8s │%6s │",
			marker, truncate(row.Tool, 12), truncate(row.Receive, 16), row.GasUSD, row.Duration)
		if i == r.selected {
			line = fmt.Sprintf("│%s│", selectedStyle.Render(
				fmt.Sprintf("▸ %-12s│%17s │%8s │%6s ",
					truncate(row.Tool, 12), truncate(row.Receive, 16), row.GasUSD, row.Duration)))
		}
		result += line + "\n"
	}

	result += "└──────────────┴──────────────────┴─────────┴───────┘\n"
	result += mutedStyle.Render("↑↓: select route")
	return result
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
