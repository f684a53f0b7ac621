package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// digitMap holds the block glyphs for the clock. Digits are 4 cells wide
// except 1, and the colon is a single cell.
var digitMap = map[rune][5]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// bigClockMinWidth is the narrowest terminal that fits an HH:MM:SS glyph row.
const bigClockMinWidth = 40

// renderBigTime renders a clock string like "15:59:58" as five rows of
// block glyphs. Narrow terminals get a single bold line instead.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigClockMinWidth {
		return style.Render(timeStr)
	}

	lines := [5]string{}
	for _, ch := range timeStr {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range lines {
			if lines[i] != "" {
				lines[i] += " "
			}
			lines[i] += glyph[i]
		}
	}

	styled := make([]string, 5)
	for i, line := range lines {
		styled[i] = style.Render(line)
	}

	return strings.Join(styled, "\n")
}
