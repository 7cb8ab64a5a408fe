package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Tabs         string
	LeftPane     string
	RightPane    string
	StatusLine   string
	Footer       string
	Notification string
	Overlay      string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("13"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle       = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	amberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	blueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	toastStyles = map[string]lipgloss.Style{
		"success": panelStyle.BorderForeground(lipgloss.Color("#10b981")),
		"error":   panelStyle.BorderForeground(lipgloss.Color("#ef4444")),
		"info":    panelStyle.BorderForeground(lipgloss.Color("#3b82f6")),
	}
)

func RenderApp(data AppData) string {
	left := panelStyle.Width(60).Render(data.LeftPane)
	right := panelStyle.Width(60).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Tabs != "" {
		lines = append(lines, data.Tabs)
	}
	lines = append(lines, row)
	if data.Overlay != "" {
		lines = append(lines, panelStyle.Render(data.Overlay))
	}
	lines = append(lines, status)
	if data.Notification != "" {
		lines = append(lines, data.Notification)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// importanceStyle colours an importance value: >=8 red, >=5 amber, else green.
func importanceStyle(importance int) lipgloss.Style {
	switch {
	case importance >= 8:
		return redStyle
	case importance >= 5:
		return amberStyle
	default:
		return greenStyle
	}
}

func tierStyle(tier string) lipgloss.Style {
	switch tier {
	case "high":
		return redStyle
	case "medium":
		return amberStyle
	default:
		return greenStyle
	}
}

func dueTierStyle(tier string) lipgloss.Style {
	switch tier {
	case "overdue", "today":
		return redStyle
	case "urgent":
		return amberStyle
	case "soon":
		return blueStyle
	default:
		return greenStyle
	}
}
