package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/fast-cli/internal/config"
	"github.com/xvierd/fast-cli/internal/domain"
)

// PickerItem represents one option in the picker.
type PickerItem struct {
	Label string
	Desc  string
}

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Index   int
	Aborted bool
}

type pickerModel struct {
	title   string
	items   []PickerItem
	footer  string
	cursor  int
	chosen  bool
	aborted bool
	theme   config.ThemeConfig
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}

	switch k := keyMsg.String(); k {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.items)
	case "enter":
		m.chosen = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	default:
		// 1-9 pick a row directly.
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if i := int(k[0] - '1'); i < len(m.items) {
				m.cursor = i
				m.chosen = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	selected := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorActive)).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + "\n\n")

	for i, item := range m.items {
		shortcut := " "
		if i < 9 {
			shortcut = fmt.Sprint(i + 1)
		}
		row := fmt.Sprintf("%s  %-6s %s", shortcut, item.Label, item.Desc)
		if i == m.cursor {
			b.WriteString("  " + selected.Render("▸ "+row) + "\n")
		} else {
			b.WriteString("    " + dim.Render(row) + "\n")
		}
	}

	if m.footer != "" {
		b.WriteString("\n  " + dim.Render(m.footer) + "\n")
	}

	b.WriteString("\n  " + dim.Render("↑/↓ move · 1-9 or enter start · esc cancel") + "\n")
	return b.String()
}

// ProtocolItems lists the catalog as picker items and returns the index
// of defaultName so the cursor can start there.
func ProtocolItems(catalog *domain.Catalog, defaultName string) ([]PickerItem, int) {
	protocols := catalog.All()
	items := make([]PickerItem, 0, len(protocols))
	cursor := 0
	for i, p := range protocols {
		desc := fmt.Sprintf("%dh fast", p.FastHours)
		if p.EatHours > 0 {
			desc += fmt.Sprintf(", %dh eating window", p.EatHours)
		}
		if strings.EqualFold(p.Name, defaultName) {
			cursor = i
			desc += "  (default)"
		}
		items = append(items, PickerItem{Label: p.Name, Desc: desc})
	}
	return items, cursor
}

// RunPicker launches an interactive arrow-key picker and returns the selected index.
// The cursor starts at the given index.
func RunPicker(title string, items []PickerItem, cursor int, footer string, theme *config.ThemeConfig) PickerResult {
	if cursor < 0 || cursor >= len(items) {
		cursor = 0
	}
	m := pickerModel{
		title:  title,
		items:  items,
		cursor: cursor,
		footer: footer,
		theme:  resolveTheme(theme),
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.cursor}
}
