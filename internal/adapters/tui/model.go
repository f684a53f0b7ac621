// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"os"
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/fast-cli/internal/config"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// snapshotMsg carries a timer snapshot pushed by the runner on every tick.
type snapshotMsg domain.TimerSnapshot

// stateMsg wraps a refreshed state including history aggregates.
type stateMsg struct {
	state *domain.CurrentState
}

// errMsg reports a failed command.
type errMsg struct {
	err error
}

// Model represents the TUI state.
type Model struct {
	state           *domain.CurrentState
	width           int
	height          int
	confirmStop     bool
	lastError       error
	commandCallback func(ports.TimerCommand) error
	theme           config.ThemeConfig

	// WantsNewFast is set when the user asks to start another fast after
	// this one finished.
	WantsNewFast bool
}

// NewModel creates a new TUI model.
func NewModel(initialState *domain.CurrentState, theme *config.ThemeConfig) Model {
	if initialState == nil {
		initialState = &domain.CurrentState{Timer: domain.NewSession().Snapshot()}
	}
	return Model{
		state: initialState,
		theme: resolveTheme(theme),
		width: getTerminalWidth(),
	}
}

// SetCommandCallback sets the function invoked for pause, resume and stop.
func (m *Model) SetCommandCallback(fn func(ports.TimerCommand) error) {
	m.commandCallback = fn
}

// Init initializes the TUI. Updates are pushed by the host.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) runCommand(cmd ports.TimerCommand) tea.Cmd {
	fn := m.commandCallback
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := fn(cmd); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

// finished reports whether the fast on screen is over, either recorded
// or complete and waiting for a stop.
func (m Model) finished() bool {
	return m.state.LastFinal != nil || m.state.Timer.State == domain.StateCompleted
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case snapshotMsg:
		next := *m.state
		next.Timer = domain.TimerSnapshot(msg)
		m.state = &next

	case stateMsg:
		if msg.state != nil {
			m.state = msg.state
		}

	case *domain.CurrentState:
		if msg != nil {
			m.state = msg
		}

	case errMsg:
		m.lastError = msg.err
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "s" {
		m.confirmStop = false
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "p", " ":
		if m.finished() {
			return m, nil
		}
		m.lastError = nil
		switch m.state.Timer.State {
		case domain.StateActive:
			return m, m.runCommand(ports.CmdPause)
		case domain.StatePaused:
			return m, m.runCommand(ports.CmdResume)
		}

	case "s":
		if m.state.Timer.State == domain.StateIdle {
			return m, nil
		}
		// A completed fast is recorded without confirmation.
		if m.confirmStop || m.state.Timer.State == domain.StateCompleted {
			m.confirmStop = false
			m.lastError = nil
			return m, m.runCommand(ports.CmdStop)
		}
		m.confirmStop = true

	case "n":
		if m.state.Timer.State == domain.StateIdle || m.state.LastFinal != nil {
			m.WantsNewFast = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) timerColor() lipgloss.Color {
	switch m.state.Timer.State {
	case domain.StatePaused:
		return lipgloss.Color(m.theme.ColorPaused)
	case domain.StateCompleted:
		return lipgloss.Color(m.theme.ColorComplete)
	default:
		return lipgloss.Color(m.theme.ColorActive)
	}
}

func (m Model) progressBar() progress.Model {
	var pbar progress.Model
	switch m.state.Timer.State {
	case domain.StatePaused:
		pbar = progress.New(progress.WithGradient(m.theme.PausedGradientStart, m.theme.PausedGradientEnd))
	case domain.StateCompleted:
		pbar = progress.New(progress.WithGradient(m.theme.CompleteGradientStart, m.theme.CompleteGradientEnd))
	default:
		pbar = progress.New(progress.WithGradient(m.theme.ActiveGradientStart, m.theme.ActiveGradientEnd))
	}
	pbar.Width = m.width - 4
	if pbar.Width > 80 {
		pbar.Width = 80
	}
	return pbar
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s Fast", m.theme.IconApp)))

	switch {
	case m.state.LastFinal != nil:
		sections = m.viewFinalized(sections)
	case m.state.Timer.State == domain.StateIdle:
		sections = m.viewIdle(sections)
	default:
		sections = m.viewTimer(sections)
	}

	sections = append(sections, "", m.viewStats())

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewIdle(sections []string) []string {
	idleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections = append(sections, idleStyle.Render(domain.RemainingText(m.state.Timer)))
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("[n]ew fast  [q]uit"))
	return sections
}

func (m Model) viewTimer(sections []string) []string {
	snap := m.state.Timer
	protocolStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorProtocol))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	statusStyle := lipgloss.NewStyle().Foreground(m.timerColor())

	sections = append(sections, protocolStyle.Render(fmt.Sprintf("%s · %s", snap.ProtocolName, domain.GetStateLabel(snap.State))))

	sections = append(sections, "")
	sections = append(sections, renderBigTime(domain.FormatClock(snap.RemainingSeconds), m.timerColor(), m.width))

	if snap.State == domain.StatePaused {
		pauseBadge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorPaused)).
			Padding(0, 1).
			Render(fmt.Sprintf("%s PAUSED", m.theme.IconPaused))
		sections = append(sections, "", pauseBadge)
	}

	sections = append(sections, "")
	sections = append(sections, m.progressBar().ViewAs(snap.Progress))
	sections = append(sections, statusStyle.Render(domain.RemainingText(snap)))
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Elapsed %s of %s",
		domain.FormatClock(snap.ElapsedSeconds), domain.FormatHoursMinutes(snap.TargetSeconds))))

	if m.lastError != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		sections = append(sections, "", errStyle.Render(m.lastError.Error()))
	}

	sections = append(sections, "")
	switch {
	case m.confirmStop:
		sections = append(sections, helpStyle.Render("Stop and record this fast? [s] confirm  [esc] cancel"))
	case snap.State == domain.StateCompleted:
		sections = append(sections, helpStyle.Render("[s]ave to history  [q]uit"))
	case snap.State == domain.StatePaused:
		sections = append(sections, helpStyle.Render("[p]resume  [s]top  [q]uit"))
	default:
		sections = append(sections, helpStyle.Render("[p]ause  [s]top  [q]uit"))
	}
	return sections
}

func (m Model) viewFinalized(sections []string) []string {
	record := m.state.LastFinal
	statusStyle := lipgloss.NewStyle().Foreground(m.timerColor())
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	headline := "Fast recorded."
	if record.Completed {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorComplete))
		headline = fmt.Sprintf("%s Fasting Complete!", m.theme.IconComplete)
	}

	sections = append(sections, statusStyle.Render(headline))
	sections = append(sections, helpStyle.Render(fmt.Sprintf("%s · %s · %s",
		record.ProtocolName, domain.FormatHoursMinutes(record.DurationSeconds), record.StatusLabel())))

	progressValue := 0.0
	if record.Completed {
		progressValue = 1
	}
	sections = append(sections, "", m.progressBar().ViewAs(progressValue))

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("[n]ew fast  [q]uit"))
	return sections
}

func (m Model) viewStats() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	stats := m.state.Stats
	line := fmt.Sprintf("%s %d completed  %s %d day streak",
		m.theme.IconStats, stats.CompletedCount, m.theme.IconStreak, stats.CurrentStreak)
	if stats.FavoriteProtocolName != nil {
		line += fmt.Sprintf("  ★ %s", *stats.FavoriteProtocolName)
	}

	goals := m.state.Goals
	goalLine := fmt.Sprintf("Week %d/%d  Streak %d/%d",
		goals.WeeklyDays, goals.WeeklyGoal, goals.StreakDays, goals.StreakGoal)

	return lipgloss.JoinVertical(lipgloss.Center, helpStyle.Render(line), helpStyle.Render(goalLine))
}
