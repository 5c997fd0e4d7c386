package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	item      lipgloss.Style
	selected  lipgloss.Style
	completed lipgloss.Style
	notice    lipgloss.Style
	confirm   lipgloss.Style
	help      lipgloss.Style
	empty     lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title:     plain.Bold(true),
			item:      plain,
			selected:  plain.Bold(true),
			completed: plain.Faint(true),
			notice:    plain,
			confirm:   plain.Bold(true),
			help:      plain.Faint(true),
			empty:     plain.Faint(true),
		}
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1),
		item:      lipgloss.NewStyle(),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		completed: lipgloss.NewStyle().Faint(true).Strikethrough(true),
		notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		confirm:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		help:      lipgloss.NewStyle().Faint(true),
		empty:     lipgloss.NewStyle().Faint(true).Italic(true),
	}
}
