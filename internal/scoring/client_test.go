package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/idilsaglam/taskanalyzer/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

var sampleTasks = []model.Task{
	{ID: 1, Title: "A", DueDate: "2099-01-01", EstimatedHours: 1, Importance: 10},
	{ID: 2, Title: "B", DueDate: "2099-01-01", EstimatedHours: 5, Importance: 1},
}

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, time.Second, WithHTTPClient(srv.Client()))
}

func TestScore_Success(t *testing.T) {
	var gotBody []model.Task
	var gotReq *http.Request
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tasks":[
			{"id":2,"title":"B","due_date":"2099-01-01","estimated_hours":5,"importance":1,"priority_score":9.5},
			{"id":1,"title":"A","due_date":"2099-01-01","estimated_hours":1,"importance":10,"priority_score":3.2}
		]}`))
	})

	scored, err := c.Score(context.Background(), sampleTasks)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, PrioritizePath, gotReq.URL.Path)
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))
	assert.NotEmpty(t, gotReq.Header.Get("X-Request-ID"))
	assert.Empty(t, gotReq.Header.Get("Authorization"))
	if diff := cmp.Diff(sampleTasks, gotBody); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}

	want := []model.ScoredTask{
		{Task: sampleTasks[1], PriorityScore: 9.5},
		{Task: sampleTasks[0], PriorityScore: 3.2},
	}
	if diff := cmp.Diff(want, scored); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_SendsToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"tasks":[{"id":1,"priority_score":1},{"id":2,"priority_score":2}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, WithHTTPClient(srv.Client()), WithToken("s3cret"))
	_, err := c.Score(context.Background(), sampleTasks)
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", auth)
}

func TestScore_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"not found", http.StatusNotFound, ``},
		{"bare array", http.StatusOK, `[{"id":1,"priority_score":1},{"id":2,"priority_score":2}]`},
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"missing tasks field", http.StatusOK, `{"results":[]}`},
		{"wrong count", http.StatusOK, `{"tasks":[{"id":1,"priority_score":1}]}`},
		{"empty body", http.StatusOK, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})
			scored, err := c.Score(context.Background(), sampleTasks)
			assert.Nil(t, scored)
			assert.ErrorIs(t, err, model.ErrServiceUnavailable)
		})
	}
}

func TestScore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.Score(context.Background(), sampleTasks)
	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
}

func TestScore_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 50*time.Millisecond, WithHTTPClient(&http.Client{
		Timeout:   50 * time.Millisecond,
		Transport: srv.Client().Transport,
	}))
	_, err := c.Score(context.Background(), sampleTasks)
	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
}

func TestScore_ContextCanceled(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Score(ctx, sampleTasks)
	assert.ErrorIs(t, err, model.ErrServiceUnavailable)
}
