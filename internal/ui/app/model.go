package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "timebox/internal/modules/session/dto"
	settingsdto "timebox/internal/modules/settings/dto"
	statsdto "timebox/internal/modules/stats/dto"
	timeboxdto "timebox/internal/modules/timebox/dto"
	"timebox/internal/ui/components"
	"timebox/internal/ui/theme"
	timerview "timebox/internal/ui/views/timer"
)

// TickInterval is how often elapsed and remaining time are recomputed from
// the runtime's absolute epochs.
const TickInterval = 500 * time.Millisecond

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error)
	Pause(ctx context.Context) bool
	Resume(ctx context.Context) bool
	Stop(ctx context.Context) (sessiondto.SessionOutput, bool, error)
	Finalize(ctx context.Context, input sessiondto.FinalizeInput) (sessiondto.FinalizeOutput, bool, error)
	Cancel(ctx context.Context) (bool, error)
	Runtime(ctx context.Context) sessiondto.RuntimeOutput
	StartUrgeBuffer(ctx context.Context)
	UpdateUrgeBuffer(ctx context.Context) int
	RecordUrgeDelay(ctx context.Context, outcome string) error
}

type statsPort interface {
	Recalculate(ctx context.Context) (statsdto.StatsOutput, error)
}

type strategyPort interface {
	EnabledStrategies(ctx context.Context) ([]settingsdto.StrategyOutput, error)
	RunStrategy(ctx context.Context, category, id string) (settingsdto.StrategyOutput, error)
}

type laterPort interface {
	AddLater(ctx context.Context, title, boxType string) (timeboxdto.LaterItemOutput, error)
}

// Options describe the session the focus screen starts.
type Options struct {
	TimeboxID  string
	Title      string
	Type       string
	Minutes    int
	Appearance string
}

// ─── phases ──────────────────────────────────────────────────────────────────

type phase int

const (
	phaseStarting phase = iota
	phaseFocus
	phaseReview
	phaseDone
)

// ─── async messages ──────────────────────────────────────────────────────────

type tickMsg time.Time

type startedMsg struct {
	session sessiondto.SessionOutput
	err     error
}

type stoppedMsg struct {
	ok  bool
	err error
}

type finalizedMsg struct {
	out   sessiondto.FinalizeOutput
	stats statsdto.StatsOutput
	err   error
}

type cancelledMsg struct{ err error }

type strategiesMsg struct {
	items []settingsdto.StrategyOutput
	err   error
}

type statusMsg string

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Pause      key.Binding
	Stop       key.Binding
	Urge       key.Binding
	Stayed     key.Binding
	Left       key.Binding
	Palette    key.Binding
	Discomfort key.Binding
	Later      key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:      key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop & review")),
		Urge:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "urge buffer")),
		Stayed:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "stayed")),
		Left:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "left")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Discomfort: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discomfort strategy")),
		Later:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "park for later")),
		Cancel:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel session")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "cancel & quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Stop, k.Urge, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Stop, k.Cancel},
		{k.Urge, k.Stayed, k.Left},
		{k.Palette, k.Discomfort, k.Later},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model hosts one focus session from start to review. The runtime lives in
// the session port; the model only polls it and forwards key presses.
type Model struct {
	opts Options

	session    sessionPort
	stats      statsPort
	strategies strategyPort
	later      laterPort

	styles   theme.Styles
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	review   components.ReviewForm
	timer    timerview.Model

	phase     phase
	runtime   sessiondto.RuntimeOutput
	finalized sessiondto.FinalizeOutput
	summary   statsdto.StatsOutput
	alerted   bool
	status    string
	width     int
	height    int
}

func NewModel(opts Options, session sessionPort, stats statsPort, strategies strategyPort, later laterPort) Model {
	styles := theme.ForAppearance(opts.Appearance)
	return Model{
		opts:       opts,
		session:    session,
		stats:      stats,
		strategies: strategies,
		later:      later,
		styles:     styles,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(styles, basePaletteHints()),
		review:     components.NewReviewForm(styles),
		timer:      timerview.New(styles),
		status:     "starting",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.loadStrategiesCmd())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.palette.SetWidth(min(msg.Width-4, 80))
		m.timer.SetWidth(msg.Width)
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			m.phase = phaseDone
			return m, nil
		}
		m.phase = phaseFocus
		m.status = "focus"
		m.runtime = m.session.Runtime(context.Background())
		return m, tick()

	case tickMsg:
		if m.phase != phaseFocus {
			return m, nil
		}
		ctx := context.Background()
		if m.runtime.UrgeActive {
			m.session.UpdateUrgeBuffer(ctx)
		}
		m.runtime = m.session.Runtime(ctx)
		if m.runtime.Status == "running" && m.runtime.RemainingSec == 0 && !m.alerted {
			m.alerted = true
			m.status = "time is up, press s to review"
		}
		return m, tick()

	case stoppedMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.ok {
			return m, nil
		}
		m.phase = phaseReview
		m.status = "review"
		m.runtime = m.session.Runtime(context.Background())
		cmd := m.review.Focus()
		return m, cmd

	case components.ReviewSubmitMsg:
		return m, m.finalizeCmd(sessiondto.Notes{Learned: msg.Learned, Stuck: msg.Stuck, Next: msg.Next})

	case finalizedMsg:
		if msg.err != nil {
			m.status = "finalize failed: " + msg.err.Error()
			return m, nil
		}
		m.phase = phaseDone
		m.finalized = msg.out
		m.summary = msg.stats
		m.status = "session saved"
		return m, nil

	case cancelledMsg:
		if msg.err != nil {
			m.status = "cancel failed: " + msg.err.Error()
			return m, tea.Quit
		}
		return m, tea.Quit

	case strategiesMsg:
		if msg.err == nil {
			hints := basePaletteHints()
			for _, s := range msg.items {
				hints = append(hints, "discomfort "+s.Category+" "+s.ID+"  "+s.Label)
			}
			m.palette.SetHints(hints)
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		m.runtime = m.session.Runtime(context.Background())
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "focus"
		return m, nil

	case tea.KeyMsg:
		if m.palette.Visible() {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch {
	case m.palette.Visible():
		m.palette, cmd = m.palette.Update(msg)
	case m.phase == phaseReview:
		m.review, cmd = m.review.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.cancelCmd()
	}
	switch m.phase {
	case phaseReview:
		if msg.String() == "esc" {
			return m, m.finalizeCmd(sessiondto.Notes{})
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return m, cmd
	case phaseDone:
		return m, tea.Quit
	case phaseStarting:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		return m, m.cancelCmd()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Pause):
		if m.runtime.Status == "paused" {
			m.session.Resume(ctx)
			m.status = "resumed"
		} else if m.session.Pause(ctx) {
			m.status = "paused"
		}
		m.runtime = m.session.Runtime(ctx)
	case key.Matches(msg, m.keys.Stop):
		return m, m.stopCmd()
	case key.Matches(msg, m.keys.Urge):
		m.session.StartUrgeBuffer(ctx)
		m.runtime = m.session.Runtime(ctx)
		m.status = "urge noted, wait it out"
	case key.Matches(msg, m.keys.Stayed):
		if m.runtime.UrgeActive {
			return m, m.urgeOutcomeCmd("stayed")
		}
	case key.Matches(msg, m.keys.Left):
		if m.runtime.UrgeActive {
			return m, m.urgeOutcomeCmd("left")
		}
	case key.Matches(msg, m.keys.Palette):
		cmd := m.palette.Open("")
		return m, cmd
	case key.Matches(msg, m.keys.Discomfort):
		cmd := m.palette.Open("discomfort ")
		return m, cmd
	case key.Matches(msg, m.keys.Later):
		cmd := m.palette.Open("later ")
		return m, cmd
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = m.styles.Pane.Render(m.help.FullHelpView(m.keys.FullHelp()))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.phase == phaseReview:
		content = m.styles.PaneActive.Render(m.review.View())
	case m.phase == phaseDone:
		content = m.styles.Pane.Render(m.renderSummary())
	default:
		content = m.styles.Pane.Render(m.timer.View(m.runtime, m.opts.Title))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	bar := "timebox  " + m.styles.Muted.Render("focus")
	return m.styles.Bar.Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.phase == phaseFocus {
		left = m.styles.Hot.Render("● "+m.runtime.Status) + "  " + left
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + m.styles.Bar.Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

func (m Model) renderSummary() string {
	if m.finalized.Session.ID == "" {
		return m.styles.Alert.Render(m.status) + "\n\n" + m.styles.Muted.Render("press any key to exit")
	}
	s := m.finalized.Session
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Session complete") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s for %s\n", m.styles.ForType(s.Type).Render(s.Type), formatDuration(s.DurationSec)))
	if m.finalized.JournalPath != "" {
		sb.WriteString(m.styles.Muted.Render("review saved to "+m.finalized.JournalPath) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\ntoday %dm  week %dm  io %s  streak %dd\n",
		m.summary.TodayMinutes, m.summary.WeekMinutes, m.summary.IORatioLabel, m.summary.StreakDays))
	sb.WriteString("\n" + m.styles.Muted.Render("press any key to exit"))
	return sb.String()
}

// ─── palette execution ───────────────────────────────────────────────────────

func basePaletteHints() []string {
	return []string{
		"discomfort <category> <id>",
		"later <title>",
	}
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "discomfort":
		if len(parts) < 3 {
			m.status = "usage: discomfort <category> <id>"
			return m, nil
		}
		return m, m.runStrategyCmd(parts[1], parts[2])
	case "later":
		title := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.addLaterCmd(title)
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ──────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), sessiondto.StartInput{
			TimeboxID: m.opts.TimeboxID,
			Type:      m.opts.Type,
			Minutes:   m.opts.Minutes,
		})
		return startedMsg{session: out, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		_, ok, err := m.session.Stop(context.Background())
		return stoppedMsg{ok: ok, err: err}
	}
}

func (m Model) finalizeCmd(notes sessiondto.Notes) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, ok, err := m.session.Finalize(ctx, sessiondto.FinalizeInput{Notes: notes})
		if err != nil {
			return finalizedMsg{err: err}
		}
		if !ok {
			return finalizedMsg{err: fmt.Errorf("no session awaiting review")}
		}
		msg := finalizedMsg{out: out}
		if m.stats != nil {
			msg.stats, msg.err = m.stats.Recalculate(ctx)
		}
		return msg
	}
}

func (m Model) cancelCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Cancel(context.Background())
		return cancelledMsg{err: err}
	}
}

func (m Model) urgeOutcomeCmd(outcome string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.RecordUrgeDelay(context.Background(), outcome); err != nil {
			return statusMsg("urge: " + err.Error())
		}
		return statusMsg("urge " + outcome)
	}
}

func (m Model) loadStrategiesCmd() tea.Cmd {
	return func() tea.Msg {
		if m.strategies == nil {
			return strategiesMsg{}
		}
		items, err := m.strategies.EnabledStrategies(context.Background())
		return strategiesMsg{items: items, err: err}
	}
}

func (m Model) runStrategyCmd(category, id string) tea.Cmd {
	return func() tea.Msg {
		if m.strategies == nil {
			return statusMsg("strategies unavailable")
		}
		s, err := m.strategies.RunStrategy(context.Background(), category, id)
		if err != nil {
			return statusMsg("discomfort: " + err.Error())
		}
		return statusMsg("strategy: " + s.Label)
	}
}

func (m Model) addLaterCmd(title string) tea.Cmd {
	return func() tea.Msg {
		if m.later == nil {
			return statusMsg("later list unavailable")
		}
		item, err := m.later.AddLater(context.Background(), title, m.opts.Type)
		if err != nil {
			return statusMsg("later: " + err.Error())
		}
		return statusMsg("parked for later: " + item.Title)
	}
}

func formatDuration(sec int) string {
	if sec < 60 {
		return fmt.Sprintf("%ds", sec)
	}
	return fmt.Sprintf("%dm", sec/60)
}
