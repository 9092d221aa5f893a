package style

import "github.com/charmbracelet/lipgloss"

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("4")).
	Padding(0, 1)

// Banner renders a section title. Plain stylers get a bracketed text line.
func Banner(s Styler, text string) string {
	if _, plain := s.(Plain); plain {
		return "== " + text + " =="
	}
	return bannerStyle.Render(text)
}
