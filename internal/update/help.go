package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/taskrank/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentTab),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Recent: m.recentNotifications(5),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Form, Action: "switch to Form"},
		{Key: m.Keys.Quick, Action: "switch to Quick"},
		{Key: m.Keys.JSON, Action: "switch to JSON"},
		{Key: m.Keys.Results, Action: "switch to Results"},
		{Key: "ctrl+r", Action: "analyze tasks"},
		{Key: "ctrl+k", Action: "clear all tasks"},
		{Key: "</>", Action: "previous/next strategy"},
		{Key: "j/k", Action: "move task selection"},
		{Key: "d", Action: "remove selected task"},
		{Key: "v", Action: "show tasks as JSON"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentTab {
	case TabForm:
		return []KeyBinding{
			{Key: "i/enter", Action: "edit the task form"},
			{Key: "tab/shift+tab", Action: "next/previous field"},
			{Key: "enter", Action: "add task (while editing)"},
			{Key: "esc", Action: "stop editing"},
		}
	case TabQuick:
		return []KeyBinding{
			{Key: "i/enter", Action: "edit the quick form"},
			{Key: "tab", Action: "title, urgency, effort"},
			{Key: "h/l", Action: "change urgency or effort"},
			{Key: "enter", Action: "add quick task (while editing)"},
		}
	case TabJSON:
		return []KeyBinding{
			{Key: "i/enter", Action: "edit JSON"},
			{Key: "t", Action: "validate JSON"},
			{Key: "l", Action: "load JSON into the task list"},
			{Key: "p", Action: "load sample JSON"},
		}
	case TabResults:
		return []KeyBinding{
			{Key: "a", Action: "analyze tasks"},
			{Key: "s", Action: "suggest next tasks"},
			{Key: "e", Action: "export results"},
			{Key: "c", Action: "clear results"},
			{Key: "[/]", Action: "older/newer analysis run"},
			{Key: "pgup/pgdown", Action: "scroll results"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
