// Package ui provides the Bubble Tea TUI for the swap engine.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	swapapp "github.com/Travisswop/swap-engine/business/swap/app"
	swapdomain "github.com/Travisswop/swap-engine/business/swap/domain"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before
// auto-advancing.
const WelcomeDuration = 2 * time.Second

// pickTarget is which swap slot the token picker fills.
type pickTarget int

const (
	pickNone pickTarget = iota
	pickPay
	pickReceive
)

// receiveChains is the cycle order for the receive-chain binding.
var receiveChains = []string{
	"ETHEREUM", "POLYGON", "BASE", "BSC", "ARBITRUM", "OPTIMISM", "SOLANA",
}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	session *swapapp.Session
	keys    KeyMap

	// Components
	amount  textinput.Model
	search  textinput.Model
	summary *components.SummaryComponent
	routes  *components.RoutesComponent
	tokens  *components.TokenListComponent
	status  *components.StatusComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready      bool
	quitting   bool
	width      int
	height     int
	intent     swapdomain.SwapIntent
	picking    pickTarget
	results    []asset.Token
	chainIdx   int
	prices     map[string]string
	lastUpdate time.Time
	errors     []ErrorEntry
	logs       []string
}

// New creates a new TUI model bound to a swap session.
func New(session *swapapp.Session) Model {
	amount := textinput.New()
	amount.Placeholder = "0.0"
	amount.CharLimit = 32
	amount.Width = 24
	amount.Focus()

	search := textinput.New()
	search.Placeholder = "search tokens..."
	search.CharLimit = 48
	search.Width = 32

	return Model{
		session:      session,
		keys:         DefaultKeyMap(),
		amount:       amount,
		search:       search,
		summary:      components.NewSummaryComponent(),
		routes:       components.NewRoutesComponent(),
		tokens:       components.NewTokenListComponent(),
		status:       components.NewStatusComponent(),
		phase:        PhaseWelcome,
		welcomeStart: time.Now(),
		intent:       session.Snapshot(),
		prices:       make(map[string]string),
		errors:       make([]ErrorEntry, 0, 3),
		logs:         make([]string, 0, 10),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), textinput.Blink)
}

// tickCmd sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// searchCmd queries the catalog off the UI loop.
func (m Model) searchCmd(chain, query string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tokens, err := session.SearchTokens(ctx, chain, query)
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return TokensMsg{Tokens: tokens, Query: query}
	}
}

// executeCmd submits the selected route off the UI loop.
func (m Model) executeCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		hash, err := session.Execute(ctx)
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return SubmittedMsg{Hash: hash}
	}
}

// pickChain is the catalog chain for the current picker target.
func (m Model) pickChain() string {
	if m.picking == pickReceive {
		return receiveChains[m.chainIdx]
	}
	if m.intent.PayToken != nil {
		return m.intent.PayToken.Chain
	}
	return receiveChains[m.chainIdx]
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			return m, nil
		}
		if m.picking != pickNone {
			return m.updatePicker(msg)
		}
		return m.updateDashboard(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
		}
		return m, tickCmd()

	case IntentMsg:
		m.applyIntent(msg.Intent)
		m.lastUpdate = time.Now()

	case TokensMsg:
		// Results for a superseded query are stale; the session does
		// the same for quotes.
		if msg.Query == strings.TrimSpace(m.search.Value()) {
			m.results = msg.Tokens
			m.tokens.Set(tokenRows(msg.Tokens))
		}

	case SubmittedMsg:
		m.logs = addLog(m.logs, "info", "submitted "+msg.Hash)
		m.applyIntent(m.session.Snapshot())
		m.lastUpdate = time.Now()

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})
		m.lastUpdate = time.Now()

	case PriceMsg:
		m.prices[msg.Symbol] = msg.Price
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
		m.applyIntent(m.session.Snapshot())

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

// updatePicker handles keys while the token picker is open.
func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CancelPick):
		m.picking = pickNone
		m.search.SetValue("")
		m.search.Blur()
		m.tokens.Clear()
		m.results = nil
		m.amount.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.tokens.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.tokens.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		idx := m.tokens.Selected()
		if idx < 0 || idx >= len(m.results) {
			return m, nil
		}
		token := m.results[idx]
		if m.picking == pickPay {
			m.session.SetPayToken(&token)
		} else {
			m.session.SetReceiveToken(&token)
		}
		m.picking = pickNone
		m.search.SetValue("")
		m.search.Blur()
		m.tokens.Clear()
		m.results = nil
		m.amount.Focus()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		return m, tea.Batch(cmd, m.searchCmd(m.pickChain(), strings.TrimSpace(m.search.Value())))
	}
	return m, cmd
}

// updateDashboard handles keys on the main screen.
func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Flip):
		m.session.Flip()
		m.amount.SetValue(m.session.Snapshot().PayAmount)
		return m, nil

	case key.Matches(msg, m.keys.Execute):
		return m, m.executeCmd()

	case key.Matches(msg, m.keys.PickPay):
		m.picking = pickPay
		m.amount.Blur()
		m.search.Focus()
		return m, m.searchCmd(m.pickChain(), "")

	case key.Matches(msg, m.keys.PickRecv):
		m.picking = pickReceive
		m.amount.Blur()
		m.search.Focus()
		return m, m.searchCmd(m.pickChain(), "")

	case key.Matches(msg, m.keys.NextChain):
		m.chainIdx = (m.chainIdx + 1) % len(receiveChains)
		if err := m.session.SelectReceiveChain(receiveChains[m.chainIdx]); err != nil {
			m.logs = addLog(m.logs, "error", err.Error())
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.routes.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.routes.MoveDown()
		return m, nil
	}

	before := m.amount.Value()
	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	if m.amount.Value() != before {
		m.session.SetPayAmount(m.amount.Value())
	}
	return m, cmd
}

// applyIntent refreshes every component from a session snapshot.
func (m *Model) applyIntent(intent swapdomain.SwapIntent) {
	m.intent = intent

	pay := components.SwapSide{Amount: intent.PayAmount}
	if intent.PayToken != nil {
		pay.Symbol = intent.PayToken.Symbol
		pay.Chain = intent.PayToken.Chain
	}
	receive := components.SwapSide{Amount: intent.ReceiveAmount}
	if intent.ReceiveToken != nil {
		receive.Symbol = intent.ReceiveToken.Symbol
		receive.Chain = intent.ReceiveToken.Chain
	}
	m.summary.Update(pay, receive, intent.Estimated)

	rows := make([]components.RouteRow, 0, len(intent.Routes))
	for _, route := range intent.Routes {
		receiveAmount := route.ToAmount
		if intent.ReceiveToken != nil {
			receiveAmount = asset.FromBaseUnits(route.ToAmount, intent.ReceiveToken.Decimals)
		}
		rows = append(rows, components.RouteRow{
			Tool:     route.Tool,
			Receive:  receiveAmount,
			GasUSD:   "$" + route.GasCostUSD,
			Duration: fmt.Sprintf("%ds", route.ExecutionDuration),
		})
	}
	m.routes.Set(rows)
}

func tokenRows(tokens []asset.Token) []components.TokenRow {
	rows := make([]components.TokenRow, 0, len(tokens))
	for _, t := range tokens {
		price := ""
		if t.Market.HasPrice() {
			price = "$" + t.Price().StringFixed(2)
		}
		rows = append(rows, components.TokenRow{
			Symbol: t.Symbol,
			Name:   t.Name,
			Chain:  t.Chain,
			Price:  price,
		})
	}
	return rows
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" ⇄ Swap Engine ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	if m.picking != pickNone {
		b.WriteString(m.renderPicker())
	} else {
		b.WriteString(m.renderSwapPanel())
	}

	b.WriteString("\n\n")

	if m.status.Len() > 0 {
		b.WriteString(m.status.View())
		b.WriteString("\n")
	}

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "ctrl+c: quit • ctrl+p: pay token • ctrl+r: receive token • ctrl+n: chain • ctrl+f: flip • ctrl+x: execute"
	if m.picking != pickNone {
		help = "esc: cancel • ↑↓: move • enter: select"
	}
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

// renderSwapPanel renders the amount input, summary, and routes.
func (m Model) renderSwapPanel() string {
	var left strings.Builder
	left.WriteString(MutedValue.Render("Amount"))
	left.WriteString("\n")
	left.WriteString(m.amount.View())
	left.WriteString("\n\n")
	left.WriteString(m.summary.View())
	left.WriteString("\n\n")
	left.WriteString(m.renderState())

	right := m.routes.View()

	if m.width > 100 {
		leftBox := FocusedBoxStyle.Width(m.width/2 - 2).Render(left.String())
		rightBox := BoxStyle.Width(m.width/2 - 2).Render(right)
		return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}
	return FocusedBoxStyle.Width(m.width-4).Render(left.String()) +
		"\n" + BoxStyle.Width(m.width-4).Render(right)
}

// renderPicker renders the token search overlay.
func (m Model) renderPicker() string {
	target := "pay"
	if m.picking == pickReceive {
		target = "receive"
	}
	var sb strings.Builder
	sb.WriteString(MutedValue.Render(fmt.Sprintf("Pick %s token on %s", target, m.pickChain())))
	sb.WriteString("\n")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.tokens.View())
	width := m.width - 4
	if width < 40 {
		width = 40
	}
	return FocusedBoxStyle.Width(width).Render(sb.String())
}

// renderState renders the session state badge and status message.
func (m Model) renderState() string {
	var badge string
	switch m.intent.State {
	case swapdomain.StateIdle:
		badge = StateIdleStyle.Render("IDLE")
	case swapdomain.StateEstimating:
		badge = StateBusyStyle.Render("≈ ESTIMATING")
	case swapdomain.StateQuoting:
		spinners := []string{"◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/200) % len(spinners)
		badge = StateBusyStyle.Render(spinners[idx] + " QUOTING")
	case swapdomain.StateReady:
		badge = StateReadyStyle.Render("✓ READY")
	case swapdomain.StateError:
		badge = StateErrorStyle.Render("✗ ERROR")
	default:
		badge = StateIdleStyle.Render(string(m.intent.State))
	}
	if m.intent.StatusMessage != "" {
		badge += "  " + MutedValue.Render(m.intent.StatusMessage)
	}
	return badge
}

func (m Model) renderStatusBar() string {
	var parts []string

	chain := receiveChains[m.chainIdx]
	parts = append(parts, MutedValue.Render("Receive chain: ")+chain)

	if m.intent.FromAddress != "" {
		parts = append(parts, PositiveValue.Render("● wallet "+shorten(m.intent.FromAddress)))
	} else {
		parts = append(parts, NegativeValue.Render("○ no wallet"))
	}

	for _, symbol := range []string{"ETHUSDT", "SOLUSDT"} {
		if price, ok := m.prices[symbol]; ok {
			parts = append(parts, MutedValue.Render(symbol+" ")+price)
		}
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

func shorten(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
   ███████╗██╗    ██╗ █████╗ ██████╗
   ██╔════╝██║    ██║██╔══██╗██╔══██╗
   ███████╗██║ █╗ ██║███████║██████╔╝
   ╚════██║██║███╗██║██╔══██║██╔═══╝
   ███████║╚███╔███╔╝██║  ██║██║
   ╚══════╝ ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("        C R O S S - C H A I N   E N G I N E"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("          Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("        Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Run starts the Bubble Tea program.
func Run(session *swapapp.Session) error {
	Program = tea.NewProgram(New(session), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
