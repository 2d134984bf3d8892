package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.AnalysesTotal.WithLabelValues("local").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AnalysesTotal.WithLabelValues("local")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AnalysesTotal.WithLabelValues("local")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RemoteFailuresTotal.Inc()
	m.TasksScoredTotal.WithLabelValues("remote").Add(3)

	p := filepath.Join(t.TempDir(), "taskanalyzer.prom")
	require.NoError(t, m.WriteTextfile(p))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "taskanalyzer_remote_failures_total 1")
	assert.Contains(t, string(b), `taskanalyzer_tasks_scored_total{source="remote"} 3`)
}
