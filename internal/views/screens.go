package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/taskrank/internal/report"
)

type HeaderData struct {
	TaskCount  int
	TotalHours float64
	Analyzed   int
	Strategy   string
}

type TabData struct {
	Key    string
	Label  string
	Active bool
}

type FieldData struct {
	Label   string
	View    string
	Focused bool
}

type FormPanelData struct {
	Editing             bool
	Fields              []FieldData
	ImportanceValue     int
	ImportanceLevel     string
	DueHint             string
	DueTier             string
	StrategyTitle       string
	StrategyIcon        string
	StrategyDescription string
}

type QuickPanelData struct {
	Editing   bool
	TitleView string
	Urgency   string
	Effort    string
	Field     int
	NextID    string
}

type JSONPanelData struct {
	Editing    bool
	EditorView string
	Message    string
	IsError    bool
}

type PreviewItemData struct {
	Position       int
	TaskID         string
	Title          string
	DueDate        string
	EstimatedHours float64
	Importance     int
	DepCount       int
	Icon           string
	Selected       bool
}

type ResultsPanelData struct {
	Loading      bool
	SpinnerView  string
	ErrorText    string
	HasReport    bool
	TableView    string
	ReportView   string
	HistoryLabel string
	Suggestion   *SuggestionData
}

type SuggestionData struct {
	Message string
	Items   []string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
	Recent      []string
}

func RenderHeader(data HeaderData) string {
	return fmt.Sprintf("taskrank | tasks: %d | hours: %.1fh | analyzed: %d | strategy: %s",
		data.TaskCount, data.TotalHours, data.Analyzed, data.Strategy)
}

func RenderTabs(tabs []TabData) string {
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("[%s] %s", tab.Key, tab.Label)
		if tab.Active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func RenderFormPanel(data FormPanelData) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("add task:") + "\n")
	b.WriteString(modeLine(data.Editing, "[i]edit [tab]next field [enter]add [esc]done") + "\n")
	for _, f := range data.Fields {
		cursor := " "
		if f.Focused {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-13s %s\n", cursor, f.Label+":", f.View))
	}
	b.WriteString(fmt.Sprintf("importance: %s\n", importanceStyle(data.ImportanceValue).Render(fmt.Sprintf("%d (%s)", data.ImportanceValue, data.ImportanceLevel))))
	if data.DueHint != "" {
		b.WriteString("due: " + dueTierStyle(data.DueTier).Render(data.DueHint) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nstrategy: %s %s\n", data.StrategyIcon, data.StrategyTitle))
	b.WriteString(mutedStyle.Render(data.StrategyDescription))
	return strings.TrimSpace(b.String())
}

func RenderQuickPanel(data QuickPanelData) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("quick add:") + "\n")
	b.WriteString(modeLine(data.Editing, "[i]edit [tab]next field [h/l]change [enter]add [esc]done") + "\n")
	rows := []struct{ label, value string }{
		{"title", data.TitleView},
		{"urgency", "< " + data.Urgency + " >"},
		{"effort", "< " + data.Effort + " >"},
	}
	for i, row := range rows {
		cursor := " "
		if data.Editing && data.Field == i {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-8s %s\n", cursor, row.label+":", row.value))
	}
	b.WriteString(mutedStyle.Render("next id: " + data.NextID))
	return strings.TrimSpace(b.String())
}

func RenderJSONPanel(data JSONPanelData) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("json:") + "\n")
	b.WriteString(modeLine(data.Editing, "[i]edit [esc]done [t]validate [l]load [p]sample [v]show tasks") + "\n")
	b.WriteString(data.EditorView + "\n")
	if data.Message != "" {
		if data.IsError {
			b.WriteString(errorStyle.Render("❌ " + data.Message))
		} else {
			b.WriteString(statusStyle.Render("✅ " + data.Message))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderPreviewList(items []PreviewItemData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks (%d):\n", len(items)))
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("No tasks added yet"))
		return b.String()
	}
	for _, item := range items {
		cursor := " "
		if item.Selected {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %d. %s %s %s", cursor, item.Position+1, labelStyle.Render(item.TaskID), item.Icon, item.Title)
		b.WriteString(strings.TrimRight(line, " ") + "\n")
		meta := fmt.Sprintf("     %s | %sh | %s", item.DueDate, FormatHours(item.EstimatedHours), importanceStyle(item.Importance).Render(fmt.Sprintf("★ %d/10", item.Importance)))
		if item.DepCount > 0 {
			meta += fmt.Sprintf(" | %d dep", item.DepCount)
		}
		b.WriteString(meta + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderResultsPanel(data ResultsPanelData) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("results:") + "\n")
	b.WriteString(mutedStyle.Render("actions: [a]analyze [s]suggest [e]export [c]clear [[/]]history") + "\n")
	if data.Loading {
		b.WriteString(data.SpinnerView + " analyzing tasks...\n")
	}
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	if data.Suggestion != nil {
		b.WriteString(renderSuggestion(*data.Suggestion) + "\n")
	}
	if !data.HasReport {
		if !data.Loading && data.ErrorText == "" {
			b.WriteString(mutedStyle.Render("No analysis yet. Add tasks and press ctrl+r."))
		}
		return strings.TrimSpace(b.String())
	}
	if data.HistoryLabel != "" {
		b.WriteString(mutedStyle.Render(data.HistoryLabel) + "\n")
	}
	if data.TableView != "" {
		b.WriteString(data.TableView + "\n")
	}
	b.WriteString(data.ReportView)
	return strings.TrimSpace(b.String())
}

// RenderReport renders every ranked card. explain formats the explanation
// block; nil leaves it as plain text.
func RenderReport(r report.Report, explain func(string) string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Strategy: %s\n", r.StrategyIcon, r.StrategyTitle))
	b.WriteString(fmt.Sprintf("Successfully analyzed %d tasks in priority order\n", r.TotalTasks))
	for _, c := range r.Cards {
		b.WriteString("\n" + RenderCard(c, explain) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCard(c report.Card, explain func(string) string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s #%d - %s\n", c.Badge.Icon(), c.Rank, c.Title))
	b.WriteString(tierStyle(string(c.Tier)).Render(fmt.Sprintf("%s | Score: %s", c.Tier.Label(), FormatScore(c.Score))) + "\n")
	b.WriteString(fmt.Sprintf("Task ID: %s | Due Date: %s | Est. Hours: %sh | Importance: %d/10\n",
		c.TaskID, c.DueDate, FormatHours(c.EstimatedHours), c.Importance))
	if c.ShowDependencies {
		b.WriteString(amberStyle.Render("Dependencies: "+c.DependencyLine()) + "\n")
	}
	if explain != nil {
		b.WriteString(explain("**💡 Why this priority?**\n\n" + c.Explanation))
	} else {
		b.WriteString("💡 Why this priority? " + c.Explanation)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderSuggestion(s SuggestionData) string {
	var b strings.Builder
	b.WriteString("suggested next:\n")
	if s.Message != "" {
		b.WriteString(s.Message + "\n")
	}
	for i, item := range s.Items {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, item))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string, suggestions []string) string {
	if !active {
		return ""
	}
	out := fmt.Sprintf("command: /%s", input)
	if len(suggestions) > 0 {
		out += "\n" + mutedStyle.Render("commands: "+strings.Join(suggestions, " "))
	}
	return out
}

func RenderConfirm(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return ""
	}
	return fmt.Sprintf("%s [y/n]", prompt)
}

// RenderToast draws the single notification widget.
func RenderToast(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	style, ok := toastStyles[level]
	if !ok {
		style = toastStyles["info"]
	}
	return style.Render(body)
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
	if len(data.Recent) > 0 {
		out += "\n" + labelStyle.Render("recent notifications:") + "\n" + mutedStyle.Render(strings.Join(data.Recent, "\n"))
	}
	return out
}

func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func FormatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

func modeLine(editing bool, keys string) string {
	if editing {
		return mutedStyle.Render("mode: editing | " + keys)
	}
	return mutedStyle.Render("mode: browse | " + keys)
}
