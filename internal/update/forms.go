package update

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskrank/internal/bridge"
	"github.com/sandeepkv93/taskrank/internal/form"
	"github.com/sandeepkv93/taskrank/internal/store"
)

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editing = false
		m.Status = StatusBar{Text: "browse mode", IsError: false}
		return m, nil
	case "tab", "down":
		m.DetailField = (m.DetailField + 1) % detailFieldCount
		return m, nil
	case "shift+tab", "up":
		m.DetailField = (m.DetailField + detailFieldCount - 1) % detailFieldCount
		return m, nil
	case "enter":
		return m.submitDetail()
	}
	m.detailInputs[m.DetailField] = editInput(m.detailInputs[m.DetailField], msg)
	return m, nil
}

func (m Model) detailValues() form.Detail {
	return form.Detail{
		TaskID:       m.detailInputs[fieldTaskID].Value(),
		Title:        m.detailInputs[fieldTitle].Value(),
		DueDate:      m.detailInputs[fieldDueDate].Value(),
		Hours:        m.detailInputs[fieldHours].Value(),
		Importance:   m.detailInputs[fieldImportance].Value(),
		Dependencies: m.detailInputs[fieldDependencies].Value(),
	}
}

func (m Model) submitDetail() (Model, tea.Cmd) {
	task, err := m.forms.SubmitDetail(m.detailValues())
	if err != nil {
		m.LastError = err
		if errors.Is(err, store.ErrDuplicateID) {
			return m.withToast("Task ID already exists!", "error")
		}
		return m.withToast(userMessage(err), "error")
	}
	m.logger.Debug("task added", "task_id", task.TaskID)
	m.resetDetailForm()
	m.DetailField = fieldTaskID
	m.Cursor = m.store.Len() - 1
	return m.withToast("✅ Task added successfully!", "success")
}

func (m Model) handleQuickKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editing = false
		m.Status = StatusBar{Text: "browse mode", IsError: false}
		return m, nil
	case "tab", "down":
		m.QuickField = (m.QuickField + 1) % quickFieldCount
		return m, nil
	case "shift+tab", "up":
		m.QuickField = (m.QuickField + quickFieldCount - 1) % quickFieldCount
		return m, nil
	case "enter":
		return m.submitQuick(m.quickTitle.Value())
	}
	if m.QuickField == quickFieldTitle {
		m.quickTitle = editInput(m.quickTitle, msg)
		return m, nil
	}
	step := 0
	switch msg.String() {
	case "left", "h":
		step = -1
	case "right", "l", " ":
		step = 1
	}
	if step == 0 {
		return m, nil
	}
	if m.QuickField == quickFieldUrgency {
		if step > 0 {
			m.Quick.Urgency = m.Quick.Urgency.Next()
		} else {
			m.Quick.Urgency = m.Quick.Urgency.Prev()
		}
	} else {
		if step > 0 {
			m.Quick.Effort = m.Quick.Effort.Next()
		} else {
			m.Quick.Effort = m.Quick.Effort.Prev()
		}
	}
	return m, nil
}

// submitQuick adds a quick task with the current urgency and effort.
func (m Model) submitQuick(title string) (Model, tea.Cmd) {
	q := m.Quick
	q.Title = title
	task, err := m.forms.SubmitQuick(q)
	if err != nil {
		m.LastError = err
		return m.withToast(userMessage(err), "error")
	}
	m.logger.Debug("quick task added", "task_id", task.TaskID)
	m.quickTitle.SetValue("")
	m.Quick = form.DefaultQuick()
	m.QuickField = quickFieldTitle
	m.Cursor = m.store.Len() - 1
	return m.withToast("⚡ Quick task added!", "success")
}

func (m Model) handleJSONEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.Editing = false
		m.Status = StatusBar{Text: "browse mode", IsError: false}
		return m, nil
	}
	var cmd tea.Cmd
	m.jsonArea, cmd = m.jsonArea.Update(msg)
	return m, cmd
}

func (m *Model) validateJSON() {
	n, err := bridge.Validate(m.jsonArea.Value())
	if err != nil {
		m.JSON = JSONState{Message: err.Error(), IsError: true}
		return
	}
	m.JSON = JSONState{Message: fmt.Sprintf("Valid JSON with %d tasks", n)}
}

// loadJSON replaces the store with the editor contents. Only a failed
// validation can stop it; the reason is shown inline.
func (m Model) loadJSON() (Model, tea.Cmd) {
	n, err := bridge.Load(m.store, m.jsonArea.Value())
	if err != nil {
		m.LastError = err
		m.JSON = JSONState{Message: err.Error(), IsError: true}
		return m, nil
	}
	m.JSON = JSONState{Message: fmt.Sprintf("Valid JSON with %d tasks", n)}
	m.Cursor = 0
	m.Editing = false
	m.CurrentTab = TabForm
	return m.withToast(fmt.Sprintf("✅ Successfully loaded %d tasks!", n), "success")
}

func (m Model) loadSampleJSON() (Model, tea.Cmd) {
	m.jsonArea.SetValue(bridge.SampleJSON())
	m.JSON = JSONState{}
	m.switchTab(TabJSON)
	return m.withToast("Sample JSON loaded", "success")
}

func (m Model) showTasksAsJSON() (Model, tea.Cmd) {
	if m.store.Len() == 0 {
		return m.withToast("No tasks to display", "info")
	}
	text, err := bridge.Serialize(m.store.Tasks())
	if err != nil {
		m.LastError = err
		return m.withToast(err.Error(), "error")
	}
	m.jsonArea.SetValue(text)
	m.JSON = JSONState{}
	m.switchTab(TabJSON)
	return m.withToast("Tasks exported to JSON view", "success")
}

func (m Model) requestRemove(index int) (Model, tea.Cmd) {
	task, ok := m.store.At(index)
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	m.Confirm = &ConfirmState{
		Action: confirmRemove,
		Index:  index,
		Prompt: fmt.Sprintf("Are you sure you want to remove %s?", task.TaskID),
	}
	return m, nil
}

func (m Model) requestClearAll() (Model, tea.Cmd) {
	if m.store.Len() == 0 {
		return m.withToast("No tasks to clear", "info")
	}
	m.Confirm = &ConfirmState{
		Action: confirmClearAll,
		Prompt: fmt.Sprintf("Are you sure you want to clear all %d tasks?", m.store.Len()),
	}
	return m, nil
}

func (m Model) applyConfirmed(c ConfirmState) (Model, tea.Cmd) {
	switch c.Action {
	case confirmRemove:
		task, err := m.store.RemoveAt(c.Index)
		if err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.logger.Debug("task removed", "task_id", task.TaskID, "index", c.Index)
		return m.withToast("Task removed", "info")
	case confirmClearAll:
		m.store.Clear()
		m.Cursor = 0
		m.resetResults()
		return m.withToast("All tasks cleared", "info")
	}
	return m, nil
}

// editInput applies a key to a single-line input. Printable keys are
// appended directly so typing works whether or not the input has focus yet.
func editInput(in textinput.Model, msg tea.KeyMsg) textinput.Model {
	switch msg.Type {
	case tea.KeyRunes:
		in.SetValue(in.Value() + string(msg.Runes))
		in.CursorEnd()
		return in
	case tea.KeySpace:
		in.SetValue(in.Value() + " ")
		in.CursorEnd()
		return in
	}
	in, _ = in.Update(msg)
	return in
}
