// Package scoring talks to the remote prioritization service.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

// PrioritizePath is the endpoint the task list is posted to.
const PrioritizePath = "/api/prioritize/"

const maxResponseSize = 4 << 20

// Response is the only body shape accepted from the service.
type Response struct {
	Tasks []model.ScoredTask `json:"tasks"`
}

// Client posts task lists to the scoring service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the service rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Score submits tasks and returns the scores as sent by the service.
// Every failure wraps model.ErrServiceUnavailable.
func (c *Client) Score(ctx context.Context, tasks []model.Task) ([]model.ScoredTask, error) {
	body, err := json.Marshal(tasks)
	if err != nil {
		return nil, unavailable("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PrioritizePath, bytes.NewReader(body))
	if err != nil {
		return nil, unavailable("create request", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.logger.With(zap.String("request_id", reqID), zap.Int("tasks", len(tasks)))
	log.Debug("posting tasks to scoring service", zap.String("url", req.URL.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, unavailable("send request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, unavailable("read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable("status", fmt.Errorf("%s", resp.Status))
	}

	scored, err := decode(raw, len(tasks))
	if err != nil {
		return nil, unavailable("decode response", err)
	}
	log.Debug("scoring service responded", zap.Int("status", resp.StatusCode))
	return scored, nil
}

func decode(raw []byte, want int) ([]model.ScoredTask, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object with a tasks field")
	}
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	if r.Tasks == nil {
		return nil, fmt.Errorf("missing tasks field")
	}
	if len(r.Tasks) != want {
		return nil, fmt.Errorf("scored %d tasks, sent %d", len(r.Tasks), want)
	}
	return r.Tasks, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrServiceUnavailable, op, err)
}
