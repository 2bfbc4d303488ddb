package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/actionbridge/internal/slices/classifier"
)

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorSubtext = lipgloss.Color("#a6adc8")
	colorAccent  = lipgloss.Color("#89b4fa")
	colorPeach   = lipgloss.Color("#fab387")
	colorRed     = lipgloss.Color("#f38ba8")
	colorGreen   = lipgloss.Color("#a6e3a1")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	fieldStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtext).Padding(0, 1).Foreground(colorText)
	activeStyle = fieldStyle.BorderForeground(colorPeach)
	phaseStyle  = lipgloss.NewStyle().Foreground(colorSubtext)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	helpStyle   = lipgloss.NewStyle().Foreground(colorSubtext).Italic(true)
)

const fieldWidth = 32

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Classifier"))
	b.WriteString("\n")

	w := fieldWidth
	if m.width > 8 && m.width-4 < w {
		w = m.width - 4
	}
	name := elide(m.state.Name, w)
	style := fieldStyle
	if m.state.Phase == classifier.PhaseEditing {
		name = elide(m.state.Name, w-1) + "▏"
		style = activeStyle
	}
	b.WriteString(style.Width(w + 2).Render(name))
	b.WriteString("\n")

	b.WriteString(phaseStyle.Render(m.state.Phase.String()))
	if m.state.Confirmed != m.state.Name {
		b.WriteString(phaseStyle.Render("  (saved: " + elide(m.state.Confirmed, w) + ")"))
	}
	b.WriteString("\n")

	if status := m.Status(); status != "" {
		if strings.HasPrefix(status, "rolled back") || strings.HasPrefix(status, "not sent") {
			b.WriteString(errorStyle.Render(status))
		} else {
			b.WriteString(okStyle.Render(status))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("type to edit • enter save • esc cancel • ctrl+u clear • ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func elide(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
