package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandeepkv93/taskrank/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{TaskID: "A", Title: "one", DueDate: "2026-02-09", EstimatedHours: 1, Importance: 9, Dependencies: []string{}},
		{TaskID: "B", Title: "two", DueDate: "2026-02-20", EstimatedHours: 4, Importance: 3, Dependencies: []string{"A"}},
	}
}

func TestAnalyzeSendsTasksAndStrategy(t *testing.T) {
	var gotReq model.AnalysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks/analyze/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing headers: %v", r.Header)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"strategy":"fastest_wins","total_tasks":2,"tasks":[
			{"task_id":"B","title":"two","due_date":"2026-02-20","estimated_hours":4,"importance":3,"dependencies":["A"],"priority_score":7.1,"explanation":"Quick win"},
			{"task_id":"A","title":"one","due_date":"2026-02-09","estimated_hours":1,"importance":9,"dependencies":[],"priority_score":6.2,"explanation":"High importance"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/tasks/")
	resp, err := c.Analyze(context.Background(), sampleTasks(), model.StrategyFastestWins)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gotReq.Strategy != model.StrategyFastestWins || len(gotReq.Tasks) != 2 || gotReq.Tasks[1].Dependencies[0] != "A" {
		t.Fatalf("unexpected request body: %+v", gotReq)
	}
	if resp.TotalTasks != 2 || len(resp.Tasks) != 2 || resp.Tasks[0].TaskID != "B" || resp.Tasks[0].PriorityScore != 7.1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAnalyzeEmptyTasksSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Analyze(context.Background(), nil, model.StrategySmartBalance)
	if !errors.Is(err, ErrNoTasks) {
		t.Fatalf("expected ErrNoTasks, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no requests, got %d", calls)
	}
}

func TestAnalyzeFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"Circular dependencies detected","affected_tasks":["A"]}`, "Circular dependencies detected"},
		{"serializer errors", `[{"importance":["Ensure this value is less than or equal to 10."]}]`, "Analysis failed"},
		{"not json", `<html>oops</html>`, "Analysis failed"},
		{"non-string error", `{"error":{"code":"x"}}`, "Analysis failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Analyze(context.Background(), sampleTasks(), model.StrategySmartBalance)
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("expected ServiceError, got %v", err)
			}
			if se.StatusCode != http.StatusBadRequest || se.Message != tc.want {
				t.Fatalf("unexpected service error: %+v", se)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Fatalf("expected exactly one request, got %d", calls)
			}
		})
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Analyze(context.Background(), sampleTasks(), model.StrategySmartBalance)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *ServiceError
	if errors.As(err, &se) {
		t.Fatalf("expected transport error, got service error %v", se)
	}
}

func TestSuggestAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/suggest/":
			_, _ = w.Write([]byte(`{"suggested_tasks":[{"task_id":"A","title":"one","priority_score":8}],"strategy":"smart_balance","message":"Top 1 tasks recommended based on smart_balance strategy"}`))
		case "/health/":
			if r.Method != http.MethodGet {
				t.Errorf("expected GET for health, got %s", r.Method)
			}
			_, _ = w.Write([]byte(`{"status":"ok","message":"Task Analyzer API is running"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sug, err := c.Suggest(context.Background(), sampleTasks(), model.StrategySmartBalance)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(sug.SuggestedTasks) != 1 || sug.SuggestedTasks[0].TaskID != "A" {
		t.Fatalf("unexpected suggestions: %+v", sug)
	}
	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Status != "ok" {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	if got := NewClient("  ").BaseURL(); got != DefaultBaseURL {
		t.Fatalf("unexpected base url: %q", got)
	}
	if got := NewClient("http://x/api/tasks///").BaseURL(); got != "http://x/api/tasks" {
		t.Fatalf("unexpected trimmed base url: %q", got)
	}
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c := NewClient("http://x/api/tasks", WithHTTPClient(shared), WithTimeout(2*time.Second))
	if shared.Timeout != time.Minute {
		t.Fatalf("shared client timeout changed to %v", shared.Timeout)
	}
	if c.http == shared || c.http.Timeout != 2*time.Second {
		t.Fatalf("expected a private copy with the new timeout, got %v", c.http.Timeout)
	}

	other := NewClient("http://y/api/tasks", WithHTTPClient(shared))
	if other.http != shared {
		t.Fatal("expected the shared client to be used as given without a timeout option")
	}
}
