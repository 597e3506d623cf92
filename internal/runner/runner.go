// internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/folio/api/schemas"
	"github.com/xkilldash9x/folio/internal/config"
	"github.com/xkilldash9x/folio/internal/scenario"
)

const (
	defaultCaseTimeout = 2 * time.Minute
	teardownTimeout    = 30 * time.Second
)

// Runner executes scenarios, each as an isolated case with its own session.
type Runner struct {
	cfg      *config.Config
	factory  schemas.SessionFactory
	capturer scenario.Checkpointer
	logger   *zap.Logger
}

// New creates a Runner. capturer may be nil to disable screenshots.
func New(cfg *config.Config, factory schemas.SessionFactory, capturer scenario.Checkpointer, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		factory:  factory,
		capturer: capturer,
		logger:   logger.Named("runner"),
	}
}

// Run executes every scenario, at most runner.concurrency at a time, and
// returns their results in input order. A failing case never stops the others.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) []schemas.CaseResult {
	concurrency := r.cfg.Runner.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	r.logger.Info("Running scenarios.", zap.Int("count", len(scenarios)), zap.Int("concurrency", concurrency))

	results := make([]schemas.CaseResult, len(scenarios))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.RunCase(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RunCase sets up a session, runs sc on it and tears the session down on every
// exit path, including panics inside the scenario.
func (r *Runner) RunCase(ctx context.Context, sc scenario.Scenario) (result schemas.CaseResult) {
	start := time.Now()
	logger := r.logger.With(zap.String("scenario", sc.Name()))
	result = schemas.CaseResult{Scenario: sc.Name()}

	timeout := r.cfg.Runner.CaseTimeout
	if timeout <= 0 {
		timeout = defaultCaseTimeout
	}
	caseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tc := NewCase(r.factory, logger)
	defer func() {
		// Teardown must run even when the case context has expired.
		tdCtx, tdCancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer tdCancel()
		if err := tc.TearDown(tdCtx); err != nil {
			logger.Warn("Teardown failed.", zap.Error(err))
		}
		result.Duration = time.Since(start)
		r.logResult(logger, result)
	}()

	if err := tc.SetUp(caseCtx); err != nil {
		result.Status = schemas.StatusFailed
		result.Path = []schemas.State{schemas.StateStart, schemas.StateFailed}
		result.Err = err
		return result
	}
	session := tc.Session()
	result.SessionID = session.ID()

	env := scenario.NewEnv(session, r.cfg, r.capturer, logger.With(zap.String("session_id", session.ID())))
	err := execute(caseCtx, sc, env)

	result.Path = env.Tracker.Path()
	result.Checkpoints = env.Checkpoints()
	result.Err = err
	if err != nil {
		result.Status = schemas.StatusFailed
	} else {
		result.Status = schemas.StatusPassed
	}
	return result
}

// execute runs the scenario, converting a panic into a failure.
func execute(ctx context.Context, sc scenario.Scenario, env *scenario.Env) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scenario %s panicked: %v", sc.Name(), p)
			env.Tracker.Fail(err)
			env.Logger.Error("Scenario panicked.", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()))
		}
	}()
	return scenario.Execute(ctx, sc, env)
}

func (r *Runner) logResult(logger *zap.Logger, res schemas.CaseResult) {
	fields := []zap.Field{
		zap.String("status", string(res.Status)),
		zap.Duration("duration", res.Duration),
		zap.Strings("checkpoints", res.Checkpoints),
	}
	if res.Passed() {
		logger.Info("Scenario passed.", fields...)
		return
	}
	fields = append(fields, zap.Error(res.Err))
	if n := len(res.Path); n >= 2 {
		fields = append(fields, zap.String("failed_after", string(res.Path[n-2])))
	}
	logger.Error("Scenario failed.", fields...)
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// OK reports whether every case passed.
func (s Summary) OK() bool { return s.Failed == 0 }

// Summarize counts results by status.
func Summarize(results []schemas.CaseResult) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		if res.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
