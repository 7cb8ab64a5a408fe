package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskrank/internal/views"
)

func (m Model) Init() tea.Cmd {
	return m.loadHistoryCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	if next.Status != m.Status && next.Status.Text != "" && !next.Status.IsError {
		cmd = tea.Batch(cmd, next.clearStatusLater())
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(typed)
			return m, cmd
		}
	case SwitchTabMsg:
		if isKnownTab(typed.Tab) {
			m.switchTab(typed.Tab)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		if m.Status.Text == typed.Text {
			m.Status = StatusBar{}
		}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.logger.Warn("app error", "err", typed.Err)
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m.withToast(userMessage(typed.Err), "error")
		}
		return m, nil
	case SetJSONTextMsg:
		m.jsonArea.SetValue(typed.Text)
		return m, nil
	case DismissToastMsg:
		m.Toast.Visible = false
		return m, nil
	case AnalysisDoneMsg:
		return m.onAnalysisDone(typed)
	case SuggestionDoneMsg:
		return m.onSuggestionDone(typed)
	case HistoryLoadedMsg:
		m.History = typed.Runs
		if m.HistoryIndex >= len(m.History) {
			m.HistoryIndex = len(m.History) - 1
		}
		return m, nil
	case RunLoadedMsg:
		return m.onRunLoaded(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()

	if m.Confirm != nil {
		return m.handleConfirmKey(msg)
	}

	if m.Palette.Active {
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handlePaletteKey(msg)
	}

	switch keyStr {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "ctrl+r":
		return m.startAnalysis()
	case "ctrl+k":
		return m.requestClearAll()
	}

	if m.Editing {
		switch m.CurrentTab {
		case TabForm:
			return m.handleDetailKey(msg)
		case TabQuick:
			return m.handleQuickKey(msg)
		case TabJSON:
			return m.handleJSONEditKey(msg)
		}
		m.Editing = false
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active", IsError: false}
		return m, nil
	case m.Keys.Form:
		m.switchTab(TabForm)
		return m, nil
	case m.Keys.Quick:
		m.switchTab(TabQuick)
		return m, nil
	case m.Keys.JSON:
		m.switchTab(TabJSON)
		return m, nil
	case m.Keys.Results:
		m.switchTab(TabResults)
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown", IsError: false}
		} else {
			m.Status = StatusBar{Text: "help hidden", IsError: false}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "i", "enter":
		if m.CurrentTab != TabResults {
			m.Editing = true
			m.Status = StatusBar{Text: fmt.Sprintf("editing %s", strings.ToLower(string(m.CurrentTab))), IsError: false}
		}
		return m, nil
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < m.store.Len()-1 {
			m.Cursor++
		}
		return m, nil
	case "<":
		m.Strategy = m.Strategy.Prev()
		m.Status = StatusBar{Text: "strategy: " + string(m.Strategy), IsError: false}
		return m, nil
	case ">":
		m.Strategy = m.Strategy.Next()
		m.Status = StatusBar{Text: "strategy: " + string(m.Strategy), IsError: false}
		return m, nil
	case "d":
		return m.requestRemove(m.Cursor)
	case "x":
		return m.requestClearAll()
	case "a":
		return m.startAnalysis()
	case "s":
		return m.startSuggestion()
	case "e":
		return m.exportResults()
	case "c":
		return m.clearResults()
	case "v":
		return m.showTasksAsJSON()
	case "[":
		return m.stepHistory(-1)
	case "]":
		return m.stepHistory(1)
	}

	if m.CurrentTab == TabJSON {
		switch keyStr {
		case "t":
			m.validateJSON()
			return m, nil
		case "l":
			return m.loadJSON()
		case "p":
			return m.loadSampleJSON()
		}
	}
	if m.CurrentTab == TabResults {
		var cmd tea.Cmd
		m.resultsViewer, cmd = m.resultsViewer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := *m.Confirm
		m.Confirm = nil
		return m.applyConfirmed(action)
	case "n", "N", "esc":
		m.Confirm = nil
		m.Status = StatusBar{Text: "cancelled", IsError: false}
		return m, nil
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) switchTab(tab Tab) {
	if m.CurrentTab != tab {
		m.Editing = false
	}
	m.CurrentTab = tab
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left := ""
	switch m.CurrentTab {
	case TabForm:
		left = m.renderFormView()
	case TabQuick:
		left = m.renderQuickView()
	case TabJSON:
		left = m.renderJSONView()
	case TabResults:
		left = m.renderResultsView()
	}
	right := m.renderPreviewView()
	if palette := m.renderCommandPalette(); palette != "" {
		right += "\n\n" + palette
	}
	right += m.renderHelpIfVisible()

	overlay := ""
	if m.Confirm != nil {
		overlay = views.RenderConfirm(m.Confirm.Prompt)
	}
	toast := ""
	if m.Toast.Visible {
		toast = views.RenderToast(m.Toast.Level, m.Toast.Text)
	}

	stats := m.store.Stats()
	return views.RenderApp(views.AppData{
		Header: views.RenderHeader(views.HeaderData{
			TaskCount:  stats.Count,
			TotalHours: stats.TotalHours,
			Analyzed:   m.AnalyzedCount,
			Strategy:   string(m.Strategy),
		}),
		Tabs:         m.renderTabs(),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		Notification: toast,
		Overlay:      overlay,
		Footer:       fmt.Sprintf("keys: %s form | %s quick | %s json | %s results | ctrl+r analyze | ctrl+k clear | / cmd | %s help | %s quit", m.Keys.Form, m.Keys.Quick, m.Keys.JSON, m.Keys.Results, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownTab(t Tab) bool {
	switch t {
	case TabForm, TabQuick, TabJSON, TabResults:
		return true
	default:
		return false
	}
}
