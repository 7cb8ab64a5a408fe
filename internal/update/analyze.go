package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskrank/internal/analysis"
	"github.com/sandeepkv93/taskrank/internal/bridge"
	"github.com/sandeepkv93/taskrank/internal/model"
	"github.com/sandeepkv93/taskrank/internal/report"
	"github.com/sandeepkv93/taskrank/internal/storage"
	"github.com/sandeepkv93/taskrank/internal/views"
)

// startAnalysis sends the current store and strategy to the analyzer. A
// second call while one is in flight is allowed; the later reply wins.
func (m Model) startAnalysis() (Model, tea.Cmd) {
	if m.store.Len() == 0 {
		return m.withToast("⚠️ Please add at least one task before analyzing", "error")
	}
	m.Loading = true
	m.AnalysisError = ""
	m.Report = nil
	m.reportView = ""
	m.Suggestion = nil
	m.Editing = false
	m.CurrentTab = TabResults
	m.Status = StatusBar{Text: "analyzing tasks", IsError: false}
	return m, tea.Batch(m.loadSpinner.Tick, m.analyzeCmd())
}

func (m Model) analyzeCmd() tea.Cmd {
	tasks := m.store.Tasks()
	strategy := m.Strategy
	analyzer := m.analyzer
	runs := m.runs
	limit := m.cfg.HistoryLimit
	now := m.now
	logger := m.logger
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := analyzer.Analyze(ctx, tasks, strategy)
		if err != nil {
			return AnalysisDoneMsg{Err: err}
		}
		out := AnalysisDoneMsg{Response: resp}
		if runs == nil {
			return out
		}
		run := runFromResponse(storage.NewRunID(), resp, now())
		if err := runs.CreateRun(ctx, run); err != nil {
			logger.Warn("record analysis run", "err", err)
			return out
		}
		if _, err := runs.PruneRuns(ctx, limit); err != nil {
			logger.Warn("prune analysis runs", "err", err)
		}
		history, err := runs.ListRuns(ctx, storage.RunListFilter{})
		if err != nil {
			logger.Warn("list analysis runs", "err", err)
			return out
		}
		out.RunID = run.ID
		out.History = history
		return out
	}
}

func (m Model) onAnalysisDone(msg AnalysisDoneMsg) (Model, tea.Cmd) {
	m.Loading = false
	if msg.Err != nil {
		m.LastError = msg.Err
		m.AnalysisError = analysisErrorText(msg.Err)
		m.Status = StatusBar{Text: m.AnalysisError, IsError: true}
		m.logger.Warn("analysis failed", "err", msg.Err)
		desktop := m.notifyDesktop("Analysis failed", m.AnalysisError, "error")
		var toast tea.Cmd
		m, toast = m.withToast("❌ Analysis failed", "error")
		return m, tea.Batch(desktop, toast)
	}
	m.setReport(msg.Response)
	m.AnalyzedCount = msg.Response.TotalTasks
	if msg.History != nil {
		m.History = msg.History
		m.HistoryIndex = len(m.History) - 1
		for i, run := range m.History {
			if run.ID == msg.RunID {
				m.HistoryIndex = i
			}
		}
	}
	m.Status = StatusBar{Text: fmt.Sprintf("analyzed %d tasks with %s", msg.Response.TotalTasks, msg.Response.Strategy), IsError: false}
	desktop := m.notifyDesktop("Analysis complete", fmt.Sprintf("%d tasks ranked with %s", msg.Response.TotalTasks, msg.Response.Strategy.Title()), "success")
	m, toast := m.withToast("✅ Analysis complete!", "success")
	return m, tea.Batch(desktop, toast)
}

func (m *Model) setReport(resp model.AnalysisResponse) {
	r := report.Build(resp)
	m.Report = &r
	m.reportView = views.RenderReport(r, views.RenderMarkdown)
	m.resultsViewer.GotoTop()
}

func (m Model) startSuggestion() (Model, tea.Cmd) {
	if m.store.Len() == 0 {
		return m.withToast("⚠️ Please add at least one task before asking for suggestions", "error")
	}
	m.Status = StatusBar{Text: "requesting suggestions", IsError: false}
	return m, m.suggestCmd()
}

func (m Model) suggestCmd() tea.Cmd {
	tasks := m.store.Tasks()
	strategy := m.Strategy
	analyzer := m.analyzer
	return func() tea.Msg {
		resp, err := analyzer.Suggest(context.Background(), tasks, strategy)
		return SuggestionDoneMsg{Response: resp, Err: err}
	}
}

func (m Model) onSuggestionDone(msg SuggestionDoneMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.LastError = msg.Err
		text := analysisErrorText(msg.Err)
		m.Status = StatusBar{Text: text, IsError: true}
		m.logger.Warn("suggestion failed", "err", msg.Err)
		return m.withToast("❌ Suggestion failed", "error")
	}
	resp := msg.Response
	m.Suggestion = &resp
	m.CurrentTab = TabResults
	m.Editing = false
	m.Status = StatusBar{Text: fmt.Sprintf("%d suggestions", len(resp.SuggestedTasks)), IsError: false}
	return m.withToast("💡 Suggestions ready", "success")
}

func (m Model) clearResults() (Model, tea.Cmd) {
	m.resetResults()
	return m.withToast("Results cleared", "info")
}

func (m *Model) resetResults() {
	m.Report = nil
	m.reportView = ""
	m.AnalysisError = ""
	m.AnalyzedCount = 0
	m.Suggestion = nil
}

// exportResults writes the current store, not the ranked results, together
// with the selected strategy.
func (m Model) exportResults() (Model, tea.Cmd) {
	if m.Report == nil {
		return m.withToast("No results to export", "info")
	}
	doc := bridge.NewExportDocument(m.store.Tasks(), m.Strategy, m.now())
	path, err := bridge.WriteExport(m.cfg.ExportDir, doc)
	if err != nil {
		return m, func() tea.Msg { return AppErrorMsg{Err: fmt.Errorf("export failed: %w", err)} }
	}
	m.logger.Info("results exported", "path", path)
	m.Status = StatusBar{Text: "exported to " + path, IsError: false}
	return m.withToast("📥 Results exported successfully!", "success")
}

func (m Model) loadHistoryCmd() tea.Cmd {
	if m.runs == nil {
		return nil
	}
	runs := m.runs
	return func() tea.Msg {
		list, err := runs.ListRuns(context.Background(), storage.RunListFilter{})
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load analysis history: %w", err)}
		}
		return HistoryLoadedMsg{Runs: list}
	}
}

// stepHistory moves through earlier analyses of this session. Older is -1.
func (m Model) stepHistory(step int) (Model, tea.Cmd) {
	if m.runs == nil || len(m.History) == 0 {
		return m.withToast("No analysis history yet", "info")
	}
	idx := m.HistoryIndex + step
	if idx < 0 || idx >= len(m.History) {
		m.Status = StatusBar{Text: "no more runs in that direction", IsError: false}
		return m, nil
	}
	runs := m.runs
	id := m.History[idx].ID
	return m, func() tea.Msg {
		run, err := runs.GetRun(context.Background(), id)
		return RunLoadedMsg{Index: idx, Run: run, Err: err}
	}
}

func (m Model) onRunLoaded(msg RunLoadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
		if errors.Is(msg.Err, storage.ErrNotFound) {
			return m, m.loadHistoryCmd()
		}
		return m, nil
	}
	m.HistoryIndex = msg.Index
	resp := responseFromRun(msg.Run)
	m.setReport(resp)
	m.AnalyzedCount = resp.TotalTasks
	m.AnalysisError = ""
	m.CurrentTab = TabResults
	m.Editing = false
	return m, nil
}

func runFromResponse(id string, resp model.AnalysisResponse, at time.Time) storage.Run {
	run := storage.Run{
		ID:         id,
		Strategy:   string(resp.Strategy),
		TotalTasks: resp.TotalTasks,
		CreatedAt:  at.UTC(),
		Tasks:      make([]storage.RunTask, 0, len(resp.Tasks)),
	}
	for i, t := range resp.Tasks {
		run.Tasks = append(run.Tasks, storage.RunTask{
			Position:       i,
			TaskID:         t.TaskID,
			Title:          t.Title,
			DueDate:        t.DueDate,
			EstimatedHours: t.EstimatedHours,
			Importance:     t.Importance,
			Dependencies:   t.Dependencies,
			PriorityScore:  t.PriorityScore,
			Explanation:    t.Explanation,
		})
	}
	return run
}

func responseFromRun(run storage.Run) model.AnalysisResponse {
	resp := model.AnalysisResponse{
		Strategy:   model.Strategy(run.Strategy),
		TotalTasks: run.TotalTasks,
		Tasks:      make([]model.AnalyzedTask, 0, len(run.Tasks)),
	}
	for _, t := range run.Tasks {
		resp.Tasks = append(resp.Tasks, model.AnalyzedTask{
			Task: model.Task{
				TaskID:         t.TaskID,
				Title:          t.Title,
				DueDate:        t.DueDate,
				EstimatedHours: t.EstimatedHours,
				Importance:     t.Importance,
				Dependencies:   t.Dependencies,
			},
			PriorityScore: t.PriorityScore,
			Explanation:   t.Explanation,
		})
	}
	return resp
}

func analysisErrorText(err error) string {
	var se *analysis.ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	if errors.Is(err, analysis.ErrNoTasks) {
		return "Please add at least one task before analyzing"
	}
	return err.Error()
}
