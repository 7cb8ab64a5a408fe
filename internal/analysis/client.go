// Package analysis talks to the remote prioritization service.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskrank/internal/model"
)

const DefaultBaseURL = "http://127.0.0.1:8000/api/tasks"

// genericFailure is used when a failed response carries no error message.
const genericFailure = "Analysis failed"

var ErrNoTasks = errors.New("analysis: no tasks to analyze")

// ServiceError is a non-2xx response from the service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout. It sets the
// timeout on a copy, so a client passed to WithHTTPClient is left alone.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client issues one request per call. There is no retry and no backoff.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze sends the full task list and strategy to <base>/analyze/ and
// returns the ranked response. An empty list is rejected before any
// network activity.
func (c *Client) Analyze(ctx context.Context, tasks []model.Task, strategy model.Strategy) (model.AnalysisResponse, error) {
	var out model.AnalysisResponse
	if len(tasks) == 0 {
		return out, ErrNoTasks
	}
	err := c.do(ctx, http.MethodPost, "/analyze/", model.AnalysisRequest{Tasks: tasks, Strategy: strategy}, &out)
	return out, err
}

// Suggest asks <base>/suggest/ for the top recommendations.
func (c *Client) Suggest(ctx context.Context, tasks []model.Task, strategy model.Strategy) (model.SuggestionResponse, error) {
	var out model.SuggestionResponse
	if len(tasks) == 0 {
		return out, ErrNoTasks
	}
	err := c.do(ctx, http.MethodPost, "/suggest/", model.AnalysisRequest{Tasks: tasks, Strategy: strategy}, &out)
	return out, err
}

// Health calls GET <base>/health/.
func (c *Client) Health(ctx context.Context) (model.HealthStatus, error) {
	var out model.HealthStatus
	err := c.do(ctx, http.MethodGet, "/health/", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	started := time.Now()
	c.log.Debug("analysis request", "method", method, "path", path, "request_id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("analysis request failed", "path", path, "request_id", reqID, "error", err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("analysis response", "path", path, "request_id", reqID, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a string "error" field out of a failure body.
func errorMessage(raw []byte) string {
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return genericFailure
	}
	if msg, ok := body.Error.(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return genericFailure
}
