package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskrank/internal/commands"
	"github.com/sandeepkv93/taskrank/internal/form"
	"github.com/sandeepkv93/taskrank/internal/views"
)

func (m Model) renderTabs() string {
	tabs := []struct {
		key string
		tab Tab
	}{
		{m.Keys.Form, TabForm},
		{m.Keys.Quick, TabQuick},
		{m.Keys.JSON, TabJSON},
		{m.Keys.Results, TabResults},
	}
	data := make([]views.TabData, 0, len(tabs))
	for _, t := range tabs {
		data = append(data, views.TabData{Key: t.key, Label: string(t.tab), Active: m.CurrentTab == t.tab})
	}
	return views.RenderTabs(data)
}

func (m Model) renderFormView() string {
	fields := make([]views.FieldData, 0, detailFieldCount)
	for i := range m.detailInputs {
		fields = append(fields, views.FieldData{
			Label:   detailLabels[i],
			View:    m.detailInputs[i].View(),
			Focused: m.Editing && m.DetailField == i,
		})
	}
	importance, level := form.ImportanceBadge(m.detailInputs[fieldImportance].Value())
	data := views.FormPanelData{
		Editing:             m.Editing,
		Fields:              fields,
		ImportanceValue:     importance,
		ImportanceLevel:     string(level),
		StrategyTitle:       m.Strategy.Title(),
		StrategyIcon:        m.Strategy.Icon(),
		StrategyDescription: m.Strategy.Description(),
	}
	if hint, ok := form.DueHint(m.detailInputs[fieldDueDate].Value(), m.now()); ok {
		data.DueHint = hint.Text
		data.DueTier = string(hint.Tier)
	}
	return views.RenderFormPanel(data)
}

func (m Model) renderQuickView() string {
	return views.RenderQuickPanel(views.QuickPanelData{
		Editing:   m.Editing,
		TitleView: m.quickTitle.View(),
		Urgency:   string(m.Quick.Urgency),
		Effort:    string(m.Quick.Effort),
		Field:     m.QuickField,
		NextID:    m.forms.NextQuickID(),
	})
}

func (m Model) renderJSONView() string {
	return views.RenderJSONPanel(views.JSONPanelData{
		Editing:    m.Editing,
		EditorView: m.jsonArea.View(),
		Message:    m.JSON.Message,
		IsError:    m.JSON.IsError,
	})
}

func (m Model) renderResultsView() string {
	data := views.ResultsPanelData{
		Loading:     m.Loading,
		SpinnerView: m.loadSpinner.View(),
		ErrorText:   m.AnalysisError,
		HasReport:   m.Report != nil,
	}
	if m.Suggestion != nil {
		s := views.SuggestionData{Message: m.Suggestion.Message}
		for _, t := range m.Suggestion.SuggestedTasks {
			s.Items = append(s.Items, fmt.Sprintf("%s %s (score %s)", t.TaskID, t.Title, views.FormatScore(t.PriorityScore)))
		}
		data.Suggestion = &s
	}
	if m.Report != nil {
		data.TableView = m.rankTable.View()
		data.ReportView = m.resultsViewer.View()
		if m.HistoryIndex >= 0 && m.HistoryIndex < len(m.History) {
			run := m.History[m.HistoryIndex]
			data.HistoryLabel = fmt.Sprintf("run %d/%d | %s | %s", m.HistoryIndex+1, len(m.History), run.Strategy, run.CreatedAt.Local().Format("15:04:05"))
		}
	}
	return views.RenderResultsPanel(data)
}

func (m Model) renderPreviewView() string {
	tasks := m.store.Tasks()
	today := m.now()
	items := make([]views.PreviewItemData, 0, len(tasks))
	for i, t := range tasks {
		items = append(items, views.PreviewItemData{
			Position:       i,
			TaskID:         t.TaskID,
			Title:          t.Title,
			DueDate:        t.DueDate,
			EstimatedHours: t.EstimatedHours,
			Importance:     t.Importance,
			DepCount:       len(t.Dependencies),
			Icon:           form.TaskUrgencyIcon(t, today),
			Selected:       i == m.Cursor,
		})
	}
	return views.RenderPreviewList(items)
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	matches := commands.Suggest(m.Palette.Input)
	names := make([]string, 0, len(matches))
	for _, t := range matches {
		names = append(names, string(t))
	}
	return views.RenderCommandPalette(true, m.Palette.Input, names)
}

// withToast shows body in the shared notification widget and schedules its
// dismissal. The dismissal hides whatever toast is visible at that moment.
func (m Model) withToast(body, level string) (Model, tea.Cmd) {
	if strings.TrimSpace(body) == "" {
		return m, nil
	}
	m.Toast = Toast{Text: body, Level: level, Visible: true}
	m.Notifications = append(m.Notifications, Notification{Title: "taskrank", Body: body, Level: level, At: m.now().UTC()})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	return m, tea.Tick(m.cfg.ToastDuration(), func(time.Time) tea.Msg { return DismissToastMsg{} })
}

// recentNotifications lists the newest toasts first for the help panel.
func (m Model) recentNotifications(limit int) []string {
	out := make([]string, 0, limit)
	for i := len(m.Notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := m.Notifications[i]
		out = append(out, fmt.Sprintf("%s [%s] %s", n.At.Local().Format("15:04:05"), n.Level, n.Body))
	}
	return out
}

// notifyDesktop sends n outside the update loop. A failure only reaches the
// status line.
func (m Model) notifyDesktop(title, body, level string) tea.Cmd {
	if !m.DesktopEnabled || m.notifier == nil {
		return nil
	}
	n := Notification{Title: title, Body: body, Level: level, At: m.now().UTC()}
	notifier := m.notifier
	logger := m.logger
	return func() tea.Msg {
		if err := notifier.Send(n); err != nil {
			logger.Debug("desktop notification failed", "err", err)
			return SetStatusMsg{Text: "desktop notification failed: " + err.Error(), IsError: true}
		}
		return nil
	}
}

// clearStatusLater hides an informational status after a while unless a
// newer status replaced it first.
func (m Model) clearStatusLater() tea.Cmd {
	text := m.Status.Text
	return tea.Tick(m.cfg.ToastDuration()*2, func(time.Time) tea.Msg { return ClearStatusMsg{Text: text} })
}
