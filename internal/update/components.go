package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/taskrank/internal/form"
	"github.com/sandeepkv93/taskrank/internal/views"
)

var detailLabels = [detailFieldCount]string{"Task ID", "Title", "Due Date", "Est. Hours", "Importance", "Dependencies"}

var detailPlaceholders = [detailFieldCount]string{"TASK-001", "What needs doing", "YYYY-MM-DD", "2.5", "1-10", "TASK-001, TASK-002"}

func (m *Model) initBubbleComponents() {
	for i := range m.detailInputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.Width = 40
		in.Placeholder = detailPlaceholders[i]
		m.detailInputs[i] = in
	}
	m.resetDetailForm()

	m.quickTitle = textinput.New()
	m.quickTitle.Prompt = ""
	m.quickTitle.CharLimit = 256
	m.quickTitle.Width = 40
	m.quickTitle.Placeholder = "Quick task title"

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.jsonArea = textarea.New()
	m.jsonArea.SetWidth(56)
	m.jsonArea.SetHeight(12)
	m.jsonArea.ShowLineNumbers = false
	m.jsonArea.CharLimit = 0
	m.jsonArea.Placeholder = "Paste a JSON array of tasks"

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()

	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Task", Width: 28},
		{Title: "Score", Width: 7},
		{Title: "Tier", Width: 13},
	}
	m.rankTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(6))
	m.resultsViewer = viewport.New(58, 16)
}

func (m *Model) resetDetailForm() {
	for i := range m.detailInputs {
		m.detailInputs[i].SetValue("")
	}
	m.detailInputs[fieldImportance].SetValue(fmt.Sprint(form.DefaultImportance))
}

// syncBubbleData copies controller state into the bubble components after
// every update.
func (m *Model) syncBubbleData() {
	for i := range m.detailInputs {
		if m.Editing && m.CurrentTab == TabForm && i == m.DetailField {
			m.detailInputs[i].Focus()
		} else {
			m.detailInputs[i].Blur()
		}
	}
	if m.Editing && m.CurrentTab == TabQuick && m.QuickField == quickFieldTitle {
		m.quickTitle.Focus()
	} else {
		m.quickTitle.Blur()
	}
	if m.Editing && m.CurrentTab == TabJSON {
		m.jsonArea.Focus()
	} else {
		m.jsonArea.Blur()
	}

	if m.Cursor >= m.store.Len() {
		m.Cursor = m.store.Len() - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	rows := make([]table.Row, 0)
	if m.Report != nil {
		for _, c := range m.Report.Cards {
			rows = append(rows, table.Row{
				fmt.Sprint(c.Rank),
				strings.TrimSpace(c.TaskID + " " + c.Title),
				views.FormatScore(c.Score),
				c.Tier.Label(),
			})
		}
	}
	m.rankTable.SetRows(rows)
	m.resultsViewer.SetContent(m.reportView)
}
