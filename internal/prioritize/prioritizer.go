// Package prioritize ranks tasks, asking the scoring service first and
// falling back to the local formula when it cannot answer.
package prioritize

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/taskanalyzer/internal/metrics"
	"github.com/idilsaglam/taskanalyzer/internal/model"
)

// Scorer is the remote half of an analysis.
type Scorer interface {
	Score(ctx context.Context, tasks []model.Task) ([]model.ScoredTask, error)
}

// Result is one ranked list and where its scores came from.
type Result struct {
	Tasks  []model.ScoredTask
	Source model.Source
	// Err is the service failure that forced the local path, if any.
	Err error
}

// Prioritizer runs analyses. A nil Scorer means local scoring only.
type Prioritizer struct {
	scorer  Scorer
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	last model.Source
}

type Option func(*Prioritizer)

func WithLogger(l *zap.Logger) Option {
	return func(p *Prioritizer) { p.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Prioritizer) { p.metrics = m }
}

func New(scorer Scorer, opts ...Option) *Prioritizer {
	p := &Prioritizer{
		scorer: scorer,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Analyze ranks tasks. The input slice is never modified. Service failures
// are not returned as errors: they produce a local result with Err set.
func (p *Prioritizer) Analyze(ctx context.Context, tasks []model.Task) (Result, error) {
	if len(tasks) == 0 {
		return Result{}, model.ErrEmptyInput
	}
	in := make([]model.Task, len(tasks))
	copy(in, tasks)

	var res Result
	if p.scorer == nil {
		res = Result{Tasks: ScoreLocally(in), Source: model.SourceLocal}
	} else if scored, err := p.remote(ctx, in); err != nil {
		p.logger.Warn("scoring service unavailable, using local scoring",
			zap.Error(err), zap.Int("tasks", len(in)))
		res = Result{Tasks: ScoreLocally(in), Source: model.SourceLocal, Err: err}
	} else {
		res = Result{Tasks: scored, Source: model.SourceRemote}
	}

	p.mu.Lock()
	p.last = res.Source
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.AnalysesTotal.WithLabelValues(res.Source.String()).Inc()
		p.metrics.TasksScoredTotal.WithLabelValues(res.Source.String()).Add(float64(len(res.Tasks)))
	}
	p.logger.Info("analysis complete",
		zap.Stringer("source", res.Source), zap.Int("tasks", len(res.Tasks)))
	return res, nil
}

// LastSource reports the provenance of the most recent analysis.
func (p *Prioritizer) LastSource() model.Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Prioritizer) remote(ctx context.Context, tasks []model.Task) ([]model.ScoredTask, error) {
	start := time.Now()
	scored, err := p.scorer.Score(ctx, tasks)
	if p.metrics != nil {
		p.metrics.RemoteDuration.Observe(time.Since(start).Seconds())
	}
	if err == nil && len(scored) != len(tasks) {
		err = fmt.Errorf("%w: scored %d tasks, sent %d", model.ErrServiceUnavailable, len(scored), len(tasks))
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.RemoteFailuresTotal.Inc()
		}
		if !errors.Is(err, model.ErrServiceUnavailable) {
			err = errors.Join(model.ErrServiceUnavailable, err)
		}
		return nil, err
	}
	return rank(scored), nil
}
