package update

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskrank/internal/analysis"
	"github.com/sandeepkv93/taskrank/internal/bridge"
	"github.com/sandeepkv93/taskrank/internal/config"
	"github.com/sandeepkv93/taskrank/internal/model"
	"github.com/sandeepkv93/taskrank/internal/storage"
)

var fixedNow = time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)

type fakeAnalyzer struct {
	resp       model.AnalysisResponse
	suggestion model.SuggestionResponse
	err        error
	calls      int
	strategies []model.Strategy
	sent       []model.Task
}

func (f *fakeAnalyzer) Analyze(_ context.Context, tasks []model.Task, strategy model.Strategy) (model.AnalysisResponse, error) {
	f.calls++
	f.strategies = append(f.strategies, strategy)
	f.sent = tasks
	if f.err != nil {
		return model.AnalysisResponse{}, f.err
	}
	resp := f.resp
	resp.Strategy = strategy
	return resp, nil
}

func (f *fakeAnalyzer) Suggest(_ context.Context, tasks []model.Task, strategy model.Strategy) (model.SuggestionResponse, error) {
	f.calls++
	if f.err != nil {
		return model.SuggestionResponse{}, f.err
	}
	return f.suggestion, nil
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newTestModel(t *testing.T, analyzer *fakeAnalyzer) Model {
	t.Helper()
	cfg := config.DefaultRuntimeConfig()
	cfg.ExportDir = t.TempDir()
	runs, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = runs.Close() })
	if analyzer == nil {
		analyzer = &fakeAnalyzer{}
	}
	return NewModelWithConfig(cfg, Deps{
		Analyzer: analyzer,
		Runs:     runs,
		Now:      func() time.Time { return fixedNow },
	})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m, cmd
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// quickMsgs runs cmd and any batched cmds, returning the messages that
// arrive within a short window. Timers still pending are left behind.
func quickMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	out := make(chan tea.Msg, 32)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, inner := range batch {
					run(inner)
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)
	var msgs []tea.Msg
	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			if msg != nil {
				msgs = append(msgs, msg)
			}
		case <-deadline:
			return msgs
		}
	}
}

func seedTasks(m Model, tasks ...model.Task) {
	m.Store().ReplaceAll(tasks)
}

func task(id string, hours float64, importance int) model.Task {
	return model.Task{TaskID: id, Title: "task " + id, DueDate: "2026-02-12", EstimatedHours: hours, Importance: importance, Dependencies: []string{}}
}

func rankedResponse() model.AnalysisResponse {
	return model.AnalysisResponse{
		TotalTasks: 3,
		Tasks: []model.AnalyzedTask{
			{Task: task("B", 2, 9), PriorityScore: 9, Explanation: "due soon"},
			{Task: task("A", 1, 5), PriorityScore: 6, Explanation: "balanced"},
			{Task: task("C", 4, 2), PriorityScore: 3, Explanation: "can wait"},
		},
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.CurrentTab != TabForm {
		t.Fatalf("expected default tab %q, got %q", TabForm, m.CurrentTab)
	}
	if m.Strategy != model.StrategySmartBalance {
		t.Fatalf("expected default strategy smart_balance, got %q", m.Strategy)
	}
	if m.Keys.Quit != "q" || m.Editing {
		t.Fatalf("unexpected defaults: keys=%+v editing=%v", m.Keys, m.Editing)
	}
	if m.detailInputs[fieldImportance].Value() != "5" {
		t.Fatalf("expected importance field to default to 5, got %q", m.detailInputs[fieldImportance].Value())
	}
}

func TestUpdateKeySwitchesTab(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "2")
	if m.CurrentTab != TabQuick {
		t.Fatalf("expected quick tab, got %q", m.CurrentTab)
	}
	m, _ = press(t, m, "4")
	if m.CurrentTab != TabResults {
		t.Fatalf("expected results tab, got %q", m.CurrentTab)
	}
}

func TestUpdateSwitchTabMsg(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = send(t, m, SwitchTabMsg{Tab: TabJSON})
	if m.CurrentTab != TabJSON {
		t.Fatalf("expected json tab, got %q", m.CurrentTab)
	}
	m, _ = send(t, m, SwitchTabMsg{Tab: Tab("Unknown")})
	if m.CurrentTab != TabJSON {
		t.Fatalf("expected tab unchanged for unknown tab, got %q", m.CurrentTab)
	}
}

func TestDetailFormAddsTask(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "i", "T-1", "tab", "Write report", "tab", "2026-02-10", "tab", "2.5", "enter")

	if m.Store().Len() != 1 {
		t.Fatalf("expected 1 task, got %d", m.Store().Len())
	}
	got, _ := m.Store().At(0)
	if got.TaskID != "T-1" || got.Title != "Write report" || got.EstimatedHours != 2.5 || got.Importance != 5 {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.Dependencies == nil || len(got.Dependencies) != 0 {
		t.Fatalf("expected empty dependencies, got %#v", got.Dependencies)
	}
	if !m.Toast.Visible || m.Toast.Text != "✅ Task added successfully!" || m.Toast.Level != "success" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}
	if m.detailInputs[fieldTaskID].Value() != "" || m.detailInputs[fieldImportance].Value() != "5" {
		t.Fatal("expected form reset after add")
	}
}

func TestDetailFormDuplicateIDKeepsForm(t *testing.T) {
	m := newTestModel(t, nil)
	seedTasks(m, task("T-1", 1, 5))
	m, _ = press(t, m, "i", "T-1", "tab", "Another", "tab", "2026-02-10", "tab", "1", "enter")

	if m.Store().Len() != 1 {
		t.Fatalf("expected store unchanged, got %d tasks", m.Store().Len())
	}
	if m.Toast.Text != "Task ID already exists!" || m.Toast.Level != "error" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}
	if m.detailInputs[fieldTaskID].Value() != "T-1" || m.detailInputs[fieldTitle].Value() != "Another" {
		t.Fatal("expected form to keep its values after a duplicate")
	}
}

func TestDetailFormShowsImportanceBadgeAndDueHint(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "i", "tab", "tab", "2026-02-12", "tab", "tab", "backspace")
	m, _ = press(t, m, "9")
	out := m.View()
	if !strings.Contains(out, "9 (High)") {
		t.Fatalf("expected high importance badge in view: %q", out)
	}
	if !strings.Contains(out, "Due in 3 days - Urgent!") {
		t.Fatalf("expected urgent due hint in view: %q", out)
	}
}

func TestQuickAddDerivesFieldsAndSequence(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "2", "i", "Call bank", "tab", "h", "tab", "h", "enter")

	if m.Store().Len() != 1 {
		t.Fatalf("expected 1 task, got %d", m.Store().Len())
	}
	got, _ := m.Store().At(0)
	if got.TaskID != "QUICK-001" || got.Importance != 9 || got.EstimatedHours != 1 || got.DueDate != "2026-02-11" {
		t.Fatalf("unexpected quick task: %+v", got)
	}
	if m.Toast.Text != "⚡ Quick task added!" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}

	m, _ = press(t, m, "Second", "enter")
	second, _ := m.Store().At(1)
	if second.TaskID != "QUICK-002" || second.Importance != 6 || second.EstimatedHours != 3 {
		t.Fatalf("unexpected second quick task: %+v", second)
	}
}

func TestQuickAddRequiresTitle(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "2", "i", "enter")
	if m.Store().Len() != 0 || m.Toast.Level != "error" {
		t.Fatalf("expected rejected quick add, store=%d toast=%+v", m.Store().Len(), m.Toast)
	}
	if m.forms.NextQuickID() != "QUICK-001" {
		t.Fatalf("expected sequence untouched, got %s", m.forms.NextQuickID())
	}
}

func TestJSONValidateAndLoad(t *testing.T) {
	m := newTestModel(t, nil)
	seedTasks(m, task("KEEP", 1, 5))
	m, _ = send(t, m, SwitchTabMsg{Tab: TabJSON})

	m, _ = send(t, m, SetJSONTextMsg{Text: `[{"title":"x"}]`})
	m, _ = press(t, m, "l")
	if m.JSON.Message != "Task 1 is missing required field: task_id" || !m.JSON.IsError {
		t.Fatalf("unexpected validation message: %+v", m.JSON)
	}
	if m.Store().Len() != 1 {
		t.Fatalf("expected store untouched, got %d tasks", m.Store().Len())
	}

	m, _ = send(t, m, SetJSONTextMsg{Text: "[]"})
	m, _ = press(t, m, "t")
	if m.JSON.Message != "Valid JSON with 0 tasks" || m.JSON.IsError {
		t.Fatalf("unexpected validation message: %+v", m.JSON)
	}

	doc := `[{"task_id":"J1","title":"a","due_date":"2026-02-10","estimated_hours":1,"importance":3},
	         {"task_id":"J1","title":"b","due_date":"2026-02-11","estimated_hours":2,"importance":7}]`
	m, _ = send(t, m, SetJSONTextMsg{Text: doc})
	m, _ = press(t, m, "l")
	if m.Store().Len() != 2 {
		t.Fatalf("expected duplicates loaded verbatim, got %d tasks", m.Store().Len())
	}
	if m.CurrentTab != TabForm || m.Toast.Text != "✅ Successfully loaded 2 tasks!" {
		t.Fatalf("unexpected state after load: tab=%s toast=%+v", m.CurrentTab, m.Toast)
	}
}

func TestJSONLoadKeepsLooselyTypedElements(t *testing.T) {
	fake := &fakeAnalyzer{resp: rankedResponse()}
	m := newTestModel(t, fake)
	seedTasks(m, task("KEEP", 1, 5))
	m, _ = send(t, m, SwitchTabMsg{Tab: TabJSON})
	m, _ = send(t, m, SetJSONTextMsg{Text: `[{"task_id":"J1","title":"a","due_date":"2026-02-10","estimated_hours":"lots","importance":7.5,"owner":"sam"}]`})
	m, _ = press(t, m, "l")
	if m.Store().Len() != 1 || m.JSON.IsError {
		t.Fatalf("expected load to succeed, len=%d json=%+v", m.Store().Len(), m.JSON)
	}
	got, _ := m.Store().At(0)
	if got.TaskID != "J1" {
		t.Fatalf("expected loaded task to replace the store, got %+v", got)
	}
	if m.Toast.Text != "✅ Successfully loaded 1 tasks!" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}

	if _, ok := m.analyzeCmd()().(AnalysisDoneMsg); !ok {
		t.Fatal("expected analysis result message")
	}
	raw, err := json.Marshal(fake.sent)
	if err != nil {
		t.Fatalf("marshal sent tasks: %v", err)
	}
	for _, field := range []string{`"estimated_hours":"lots"`, `"importance":7.5`, `"owner":"sam"`} {
		if !strings.Contains(string(raw), field) {
			t.Fatalf("expected %s sent to the service, got %s", field, raw)
		}
	}
}

func TestJSONLoadInvalidShowsReasonInline(t *testing.T) {
	m := newTestModel(t, nil)
	seedTasks(m, task("KEEP", 1, 5))
	m, _ = send(t, m, SwitchTabMsg{Tab: TabJSON})
	m, _ = send(t, m, SetJSONTextMsg{Text: `{}`})
	m, _ = press(t, m, "l")
	if m.Store().Len() != 1 || m.CurrentTab != TabJSON {
		t.Fatalf("expected store and tab untouched, len=%d tab=%s", m.Store().Len(), m.CurrentTab)
	}
	if m.JSON.Message != "JSON must be an array of tasks" || !m.JSON.IsError {
		t.Fatalf("unexpected inline message: %+v", m.JSON)
	}
}

func TestShowTasksAsJSONAndSample(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "v")
	if m.Toast.Text != "No tasks to display" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}
	seedTasks(m, task("A", 1, 5))
	m, _ = press(t, m, "v")
	if m.CurrentTab != TabJSON || !strings.Contains(m.jsonArea.Value(), `"task_id": "A"`) {
		t.Fatalf("expected serialized tasks in editor: %q", m.jsonArea.Value())
	}
	m, _ = press(t, m, "p")
	if !strings.Contains(m.jsonArea.Value(), "TASK-004") || m.Toast.Text != "Sample JSON loaded" {
		t.Fatalf("expected sample JSON in editor: %q", m.jsonArea.Value())
	}
}

func TestAnalyzeEmptyStoreIsRejected(t *testing.T) {
	fake := &fakeAnalyzer{}
	m := newTestModel(t, fake)
	m, _ = press(t, m, "ctrl+r")
	if m.Loading || fake.calls != 0 {
		t.Fatalf("expected no request, loading=%v calls=%d", m.Loading, fake.calls)
	}
	if m.Toast.Level != "error" || !strings.Contains(m.Toast.Text, "Please add at least one task") {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}
}

func TestAnalyzeSuccessRendersReportAndRecordsRun(t *testing.T) {
	fake := &fakeAnalyzer{resp: rankedResponse()}
	notifier := &recordingNotifier{}
	cfg := config.DefaultRuntimeConfig()
	cfg.DesktopNotifications = true
	runs, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer runs.Close()
	m := NewModelWithConfig(cfg, Deps{Analyzer: fake, Runs: runs, Notifier: notifier, Now: func() time.Time { return fixedNow }})
	seedTasks(m, task("A", 1, 5), task("B", 2, 9), task("C", 4, 2))

	m, cmd := press(t, m, "ctrl+r")
	if !m.Loading || m.CurrentTab != TabResults || cmd == nil {
		t.Fatalf("expected loading results tab, loading=%v tab=%s", m.Loading, m.CurrentTab)
	}

	msg := m.analyzeCmd()()
	done, ok := msg.(AnalysisDoneMsg)
	if !ok {
		t.Fatalf("expected AnalysisDoneMsg, got %T", msg)
	}
	m, after := send(t, m, done)
	if len(notifier.sent) != 0 {
		t.Fatal("expected desktop notification to run off the update loop")
	}
	quickMsgs(t, after)

	if m.Loading || m.Report == nil {
		t.Fatal("expected report after analysis")
	}
	if len(m.Report.Cards) != 3 || m.Report.Cards[0].TaskID != "B" || m.Report.Cards[2].Tier != "low" {
		t.Fatalf("unexpected report: %+v", m.Report.Cards)
	}
	if m.AnalyzedCount != 3 || m.Toast.Text != "✅ Analysis complete!" {
		t.Fatalf("unexpected post-analysis state: count=%d toast=%+v", m.AnalyzedCount, m.Toast)
	}
	if len(m.History) != 1 || m.HistoryIndex != 0 {
		t.Fatalf("expected one recorded run, got %d (index %d)", len(m.History), m.HistoryIndex)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Analysis complete" {
		t.Fatalf("expected one desktop notification, got %+v", notifier.sent)
	}
	if out := m.View(); !strings.Contains(out, "Strategy: SMART BALANCE") || !strings.Contains(out, "analyzed: 3") {
		t.Fatalf("expected report header in view: %q", out)
	}
}

func TestAnalyzeFailureSurfacesServiceMessage(t *testing.T) {
	m := newTestModel(t, nil)
	seedTasks(m, task("A", 1, 5))
	m, _ = press(t, m, "ctrl+r")
	m, _ = send(t, m, AnalysisDoneMsg{Err: &analysis.ServiceError{StatusCode: 400, Message: "Invalid strategy"}})

	if m.Loading || m.Report != nil {
		t.Fatalf("expected loading cleared and no partial results, loading=%v report=%v", m.Loading, m.Report)
	}
	if m.AnalysisError != "Invalid strategy" || m.Toast.Text != "❌ Analysis failed" {
		t.Fatalf("unexpected failure state: err=%q toast=%+v", m.AnalysisError, m.Toast)
	}
	if !strings.Contains(m.View(), "error: Invalid strategy") {
		t.Fatal("expected error text in results view")
	}
}

func TestSuggestionShowsTopTasks(t *testing.T) {
	fake := &fakeAnalyzer{suggestion: model.SuggestionResponse{
		SuggestedTasks: rankedResponse().Tasks[:2],
		Message:        "Top 2 tasks to work on today",
	}}
	m := newTestModel(t, fake)
	seedTasks(m, task("A", 1, 5), task("B", 2, 9))
	m, cmd := press(t, m, "s")
	if cmd == nil || m.Status.Text != "requesting suggestions" {
		t.Fatalf("expected suggestion command, status %+v", m.Status)
	}
	m, _ = send(t, m, m.suggestCmd()())
	if m.Suggestion == nil || len(m.Suggestion.SuggestedTasks) != 2 {
		t.Fatalf("expected suggestions, got %+v", m.Suggestion)
	}
	if out := m.View(); !strings.Contains(out, "Top 2 tasks to work on today") {
		t.Fatalf("expected suggestion message in view: %q", out)
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	m := newTestModel(t, nil)
	seedTasks(m, task("A", 1, 5), task("B", 2, 5), task("C", 3, 5))
	m, _ = press(t, m, "j", "d")
	if m.Confirm == nil || m.Confirm.Action != confirmRemove || m.Confirm.Index != 1 {
		t.Fatalf("expected remove confirmation, got %+v", m.Confirm)
	}
	m, _ = press(t, m, "n")
	if m.Confirm != nil || m.Store().Len() != 3 {
		t.Fatalf("expected cancelled removal, confirm=%+v len=%d", m.Confirm, m.Store().Len())
	}

	m, _ = press(t, m, "d", "y")
	tasks := m.Store().Tasks()
	if len(tasks) != 2 || tasks[0].TaskID != "A" || tasks[1].TaskID != "C" {
		t.Fatalf("unexpected tasks after removal: %+v", tasks)
	}
	if m.Toast.Text != "Task removed" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}
}

func TestClearAllConfirmsAndClearsResults(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{resp: rankedResponse()})
	m, _ = press(t, m, "ctrl+k")
	if m.Confirm != nil || m.Toast.Text != "No tasks to clear" {
		t.Fatalf("expected empty clear to notify only, confirm=%+v toast=%+v", m.Confirm, m.Toast)
	}

	seedTasks(m, task("A", 1, 5), task("B", 2, 9))
	m, _ = send(t, m, m.analyzeCmd()())
	if m.Report == nil {
		t.Fatal("expected report before clearing")
	}
	m, _ = press(t, m, "ctrl+k")
	if m.Confirm == nil || !strings.Contains(m.Confirm.Prompt, "clear all 2 tasks") {
		t.Fatalf("expected clear confirmation, got %+v", m.Confirm)
	}
	m, _ = press(t, m, "y")
	if m.Store().Len() != 0 || m.Report != nil || m.AnalyzedCount != 0 {
		t.Fatalf("expected tasks and results cleared, len=%d report=%v", m.Store().Len(), m.Report)
	}
	if m.Toast.Text != "All tasks cleared" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}
}

func TestExportWritesCurrentStore(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{resp: rankedResponse()})
	m, _ = press(t, m, "e")
	if m.Toast.Text != "No results to export" {
		t.Fatalf("unexpected toast: %+v", m.Toast)
	}

	seedTasks(m, task("A", 1, 5))
	m, _ = send(t, m, m.analyzeCmd()())
	m, _ = press(t, m, ">", "e")
	if m.Toast.Text != "📥 Results exported successfully!" {
		t.Fatalf("unexpected toast: %+v (status %+v)", m.Toast, m.Status)
	}
	want := filepath.Join(m.cfg.ExportDir, bridge.ExportFileName(fixedNow))
	raw, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"strategy": "fastest_wins"`) || !strings.Contains(body, `"total_tasks": 1`) || !strings.Contains(body, `"task_id": "A"`) {
		t.Fatalf("unexpected export body: %s", body)
	}
}

func TestClearResults(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{resp: rankedResponse()})
	seedTasks(m, task("A", 1, 5))
	m, _ = send(t, m, m.analyzeCmd()())
	m, _ = press(t, m, "c")
	if m.Report != nil || m.Toast.Text != "Results cleared" {
		t.Fatalf("expected results cleared, report=%v toast=%+v", m.Report, m.Toast)
	}
	if m.Store().Len() != 1 {
		t.Fatal("expected tasks kept when only results are cleared")
	}
}

func TestHistoryStepsThroughRuns(t *testing.T) {
	fake := &fakeAnalyzer{resp: rankedResponse()}
	m := newTestModel(t, fake)
	seedTasks(m, task("A", 1, 5))
	m, _ = send(t, m, m.analyzeCmd()())
	m, _ = press(t, m, ">")
	m, _ = send(t, m, m.analyzeCmd()())
	if len(m.History) != 2 || m.HistoryIndex != 1 {
		t.Fatalf("expected two runs, got %d (index %d)", len(m.History), m.HistoryIndex)
	}
	if m.Report.Strategy != model.StrategyFastestWins {
		t.Fatalf("expected latest report, got %s", m.Report.Strategy)
	}

	m, cmd := press(t, m, "[")
	if cmd == nil {
		t.Fatal("expected history load command")
	}
	m, _ = send(t, m, cmd())
	if m.HistoryIndex != 0 || m.Report.Strategy != model.StrategySmartBalance || len(m.Report.Cards) != 3 {
		t.Fatalf("expected first run restored, index=%d report=%+v", m.HistoryIndex, m.Report)
	}
	if !strings.Contains(m.View(), "run 1/2") {
		t.Fatal("expected history label in view")
	}
	m, _ = press(t, m, "[")
	if m.HistoryIndex != 0 || m.Status.Text != "no more runs in that direction" {
		t.Fatalf("expected to stay on the oldest run, index=%d status=%+v", m.HistoryIndex, m.Status)
	}
}

func TestToastDismiss(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := press(t, m, "v")
	if !m.Toast.Visible || cmd == nil {
		t.Fatal("expected visible toast and a dismiss timer")
	}
	m, _ = send(t, m, DismissToastMsg{})
	if m.Toast.Visible {
		t.Fatal("expected toast hidden after dismiss")
	}
}

func TestPaletteCommands(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "/", "strategy deadline_driven", "enter")
	if m.Strategy != model.StrategyDeadlineDriven || m.Palette.Active {
		t.Fatalf("unexpected palette result: strategy=%s active=%v", m.Strategy, m.Palette.Active)
	}

	m, _ = press(t, m, "/", "strategy random_pick", "enter")
	if m.Strategy != model.StrategyDeadlineDriven || !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown strategy random_pick") {
		t.Fatalf("expected unknown strategy rejected, strategy=%s status=%+v", m.Strategy, m.Status)
	}

	m, _ = press(t, m, "/", "add Pay rent", "enter")
	got, ok := m.Store().At(0)
	if !ok || got.TaskID != "QUICK-001" || got.Title != "Pay rent" {
		t.Fatalf("unexpected palette add: %+v", got)
	}

	m, _ = press(t, m, "/", "remove 1", "enter")
	if m.Confirm == nil || m.Confirm.Index != 0 {
		t.Fatalf("expected palette remove to ask for confirmation, got %+v", m.Confirm)
	}
	m, _ = press(t, m, "y")
	if m.Store().Len() != 0 {
		t.Fatal("expected task removed after confirmation")
	}

	m, _ = press(t, m, "/", "frobnicate", "enter")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unsupported command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestEditingModeCapturesGlobalKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "i", "q2")
	if m.Quitting || m.CurrentTab != TabForm {
		t.Fatalf("expected typing to stay in the form, quitting=%v tab=%s", m.Quitting, m.CurrentTab)
	}
	if m.detailInputs[fieldTaskID].Value() != "q2" {
		t.Fatalf("expected typed text in task id, got %q", m.detailInputs[fieldTaskID].Value())
	}
	m, _ = press(t, m, "esc", "2")
	if m.CurrentTab != TabQuick {
		t.Fatalf("expected tab switch after leaving edit mode, got %s", m.CurrentTab)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t, nil)
	seedTasks(m, task("A", 1.5, 9), task("B", 2, 4))
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"tasks: 2", "hours: 3.5h", "[1] Form", "status: all good", "1. A", "2. B", "SMART BALANCE"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view: %q", want, out)
		}
	}
}
