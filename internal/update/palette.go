package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskrank/internal/commands"
	"github.com/sandeepkv93/taskrank/internal/form"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	case "tab":
		if matches := commands.Suggest(m.commandInput.Value()); len(matches) > 0 {
			m.commandInput.SetValue(string(matches[0]) + " ")
			m.commandInput.CursorEnd()
			m.Palette.Input = m.commandInput.Value()
		}
		return m, nil
	}
	m.commandInput = editInput(m.commandInput, msg)
	m.Palette.Input = m.commandInput.Value()
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var out tea.Cmd
	m.Status = StatusBar{}
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			q := form.DefaultQuick()
			q.Title = a.Title
			task, err := m.forms.SubmitQuick(q)
			if err != nil {
				return commands.Result{}, err
			}
			m.Cursor = m.store.Len() - 1
			m, out = m.withToast("⚡ Quick task added!", "success")
			return commands.Result{Message: fmt.Sprintf("added %s: %s", task.TaskID, task.Title)}, nil
		},
		Remove: func(r commands.RemoveArgs) (commands.Result, error) {
			if r.Position > m.store.Len() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task number %d", r.Position)}
			}
			m, out = m.requestRemove(r.Position - 1)
			return commands.Result{Message: fmt.Sprintf("confirm removal of task %d", r.Position)}, nil
		},
		Strategy: func(s commands.StrategyArgs) (commands.Result, error) {
			m.Strategy = s.Strategy
			return commands.Result{Message: "strategy: " + string(s.Strategy)}, nil
		},
		Clear: func() (commands.Result, error) {
			m, out = m.requestClearAll()
			return commands.Result{Message: "clear all requested"}, nil
		},
		Analyze: func() (commands.Result, error) {
			m, out = m.startAnalysis()
			return commands.Result{Message: "analysis requested"}, nil
		},
		Suggest: func() (commands.Result, error) {
			m, out = m.startSuggestion()
			return commands.Result{Message: "suggestions requested"}, nil
		},
		Export: func() (commands.Result, error) {
			m, out = m.exportResults()
			return commands.Result{}, nil
		},
		LoadSample: func() (commands.Result, error) {
			m, out = m.loadSampleJSON()
			return commands.Result{Message: "sample JSON loaded into editor"}, nil
		},
		ShowJSON: func() (commands.Result, error) {
			m, out = m.showTasksAsJSON()
			return commands.Result{Message: "tasks shown as JSON"}, nil
		},
	})
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: userMessage(err), IsError: true}
		return m, out
	}
	if res.Message != "" && !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}
	return m, out
}
