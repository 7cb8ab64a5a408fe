package update

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/taskrank/internal/analysis"
	"github.com/sandeepkv93/taskrank/internal/config"
	"github.com/sandeepkv93/taskrank/internal/form"
	"github.com/sandeepkv93/taskrank/internal/model"
	"github.com/sandeepkv93/taskrank/internal/report"
	"github.com/sandeepkv93/taskrank/internal/storage"
	"github.com/sandeepkv93/taskrank/internal/store"
)

type Tab string

const (
	TabForm    Tab = "Form"
	TabQuick   Tab = "Quick"
	TabJSON    Tab = "JSON"
	TabResults Tab = "Results"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Form    string
	Quick   string
	JSON    string
	Results string
	Help    string
	Quit    string
}

// Toast is the single shared notification widget. A newer toast replaces
// the text of an older one; nothing is queued.
type Toast struct {
	Text    string
	Level   string
	Visible bool
}

const maxNotifications = 40

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type confirmAction string

const (
	confirmRemove   confirmAction = "remove"
	confirmClearAll confirmAction = "clear_all"
)

type ConfirmState struct {
	Action confirmAction
	Index  int
	Prompt string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type JSONState struct {
	Message string
	IsError bool
}

// Analyzer is the remote prioritization service.
type Analyzer interface {
	Analyze(ctx context.Context, tasks []model.Task, strategy model.Strategy) (model.AnalysisResponse, error)
	Suggest(ctx context.Context, tasks []model.Task, strategy model.Strategy) (model.SuggestionResponse, error)
}

// Deps are the collaborators injected into the UI controller. Zero values
// get working defaults.
type Deps struct {
	Store    *store.Store
	Analyzer Analyzer
	Runs     storage.RunRepository
	Notifier DesktopNotifier
	Logger   *slog.Logger
	Now      func() time.Time
}

const (
	fieldTaskID = iota
	fieldTitle
	fieldDueDate
	fieldHours
	fieldImportance
	fieldDependencies
	detailFieldCount
)

const (
	quickFieldTitle = iota
	quickFieldUrgency
	quickFieldEffort
	quickFieldCount
)

type Model struct {
	CurrentTab     Tab
	Editing        bool
	Strategy       model.Strategy
	Cursor         int
	DetailField    int
	Quick          form.Quick
	QuickField     int
	JSON           JSONState
	Loading        bool
	AnalysisError  string
	Report         *report.Report
	AnalyzedCount  int
	Suggestion     *model.SuggestionResponse
	History        []storage.Run
	HistoryIndex   int
	Confirm        *ConfirmState
	Palette        CommandPaletteState
	HelpVisible    bool
	Toast          Toast
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	store      *store.Store
	forms      *form.Controller
	analyzer   Analyzer
	runs       storage.RunRepository
	notifier   DesktopNotifier
	logger     *slog.Logger
	now        func() time.Time
	cfg        config.RuntimeConfig
	reportView string

	detailInputs  [detailFieldCount]textinput.Model
	quickTitle    textinput.Model
	commandInput  textinput.Model
	jsonArea      textarea.Model
	loadSpinner   spinner.Model
	helpModel     help.Model
	rankTable     table.Model
	resultsViewer viewport.Model
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// SwitchTabMsg names the tab to show explicitly.
type SwitchTabMsg struct {
	Tab Tab
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

// ClearStatusMsg clears the status line if it still shows Text.
type ClearStatusMsg struct {
	Text string
}

type AppErrorMsg struct {
	Err error
}

// SetJSONTextMsg replaces the JSON editor contents.
type SetJSONTextMsg struct {
	Text string
}

type DismissToastMsg struct{}

type AnalysisDoneMsg struct {
	Response model.AnalysisResponse
	Err      error
	RunID    string
	History  []storage.Run
}

type SuggestionDoneMsg struct {
	Response model.SuggestionResponse
	Err      error
}

type HistoryLoadedMsg struct {
	Runs []storage.Run
}

type RunLoadedMsg struct {
	Index int
	Run   storage.Run
	Err   error
}

func NewModel() Model {
	return NewModelWithConfig(config.DefaultRuntimeConfig(), Deps{})
}

func NewModelWithConfig(cfg config.RuntimeConfig, deps Deps) Model {
	m := Model{
		CurrentTab:     TabForm,
		Strategy:       cfg.DefaultStrategy,
		Quick:          form.DefaultQuick(),
		HistoryIndex:   -1,
		DesktopEnabled: cfg.DesktopNotifications,
		Keys: GlobalKeyMap{
			Form:    "1",
			Quick:   "2",
			JSON:    "3",
			Results: "4",
			Help:    "?",
			Quit:    "q",
		},
		store:    deps.Store,
		analyzer: deps.Analyzer,
		runs:     deps.Runs,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		now:      deps.Now,
		cfg:      cfg,
	}
	if !m.Strategy.IsValid() {
		m.Strategy = model.StrategySmartBalance
	}
	if m.store == nil {
		m.store = store.New()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.analyzer == nil {
		m.analyzer = analysis.NewClient(cfg.APIBaseURL, analysis.WithTimeout(cfg.RequestTimeout()), analysis.WithLogger(m.logger))
	}
	logger := m.logger
	m.store.OnChange(func(s store.Stats) {
		logger.Debug("task store changed", "count", s.Count, "total_hours", s.TotalHours)
	})
	m.forms = form.NewController(m.store, m.now)
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// Store exposes the task store owned by this controller.
func (m Model) Store() *store.Store {
	return m.store
}
