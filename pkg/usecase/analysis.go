package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/interfaces"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
	"github.com/roshan-abady/churnscope/pkg/metric"
	"github.com/roshan-abady/churnscope/pkg/utils/async"
)

// DefaultFrameDelay paces the animation between month offsets. Presentation
// only; tests run with zero delay.
const DefaultFrameDelay = 50 * time.Millisecond

// Analysis drives churn analysis runs: one warehouse query, then a pure
// accumulation loop over month offsets with a frame emitted per step
type Analysis struct {
	source     interfaces.DataSource
	repo       interfaces.Repository
	notifier   interfaces.Notifier
	horizon    int
	frameDelay time.Duration
}

// Option configures the Analysis use case
type Option func(*Analysis)

// WithNotifier attaches a completion notifier
func WithNotifier(n interfaces.Notifier) Option {
	return func(a *Analysis) { a.notifier = n }
}

// WithFrameDelay overrides the inter-frame pacing delay
func WithFrameDelay(d time.Duration) Option {
	return func(a *Analysis) { a.frameDelay = d }
}

// WithHorizon overrides the number of month offsets computed
func WithHorizon(h int) Option {
	return func(a *Analysis) { a.horizon = h }
}

// NewAnalysis creates a new Analysis use case
func NewAnalysis(source interfaces.DataSource, repo interfaces.Repository, opts ...Option) *Analysis {
	a := &Analysis{
		source:     source,
		repo:       repo,
		horizon:    metric.Horizon,
		frameDelay: DefaultFrameDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes one full analysis pass. The row set is queried once; each
// month offset 1..horizon appends one point per series and emits a frame.
// Once started a run advances through every offset; only an emit failure
// (streaming client gone) aborts it early.
func (uc *Analysis) Run(ctx context.Context, date time.Time, filters model.FilterSet, emit EmitFunc) (*model.AnalysisRun, error) {
	rows, err := uc.source.QueryChurnRows(ctx, date, filters)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query churn rows",
			goerr.V("date", date.Format(time.DateOnly)))
	}

	run, err := model.NewAnalysisRun(date, filters)
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Info("starting churn analysis",
		"runID", run.ID,
		"date", date.Format(time.DateOnly),
		"filters", filters,
		"rows", len(rows),
	)

	state := model.NewAnalysisState(
		metric.Compute(rows, 1, types.EndDateAgreement),
		metric.Compute(rows, 1, types.EndDateReporting),
	)
	if err := uc.emitFrame(state, emit); err != nil {
		return nil, err
	}

	for month := 2; month <= uc.horizon; month++ {
		if uc.frameDelay > 0 {
			time.Sleep(uc.frameDelay)
		}

		state, err = state.Step(
			metric.Compute(rows, month, types.EndDateAgreement),
			metric.Compute(rows, month, types.EndDateReporting),
		)
		if err != nil {
			return nil, err
		}
		if err := uc.emitFrame(state, emit); err != nil {
			return nil, err
		}
	}

	run.Complete(state, len(rows))
	uc.record(ctx, run)

	return run, nil
}

func (uc *Analysis) emitFrame(state model.AnalysisState, emit EmitFunc) error {
	if emit == nil {
		return nil
	}
	frame := Frame{
		State:    state,
		Progress: state.Progress(uc.horizon),
		Done:     state.Month == uc.horizon,
	}
	if err := emit(frame); err != nil {
		return goerr.Wrap(err, "frame consumer failed", goerr.V("month", state.Month))
	}
	return nil
}

// record persists the completed run and fires the completion notification.
// Neither failure fails the run itself.
func (uc *Analysis) record(ctx context.Context, run *model.AnalysisRun) {
	if uc.repo != nil {
		if err := uc.repo.PutRun(ctx, run); err != nil {
			ctxlog.From(ctx).Error("failed to record analysis run",
				"runID", run.ID,
				"error", err,
			)
		}
	}

	if uc.notifier != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyRunCompleted(ctx, run)
		})
	}
}

// Rows returns the filtered raw rows for the dashboard table
func (uc *Analysis) Rows(ctx context.Context, date time.Time, filters model.FilterSet) ([]model.ChurnRow, error) {
	rows, err := uc.source.QueryChurnRows(ctx, date, filters)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query churn rows",
			goerr.V("date", date.Format(time.DateOnly)))
	}
	return rows, nil
}

// GetRun retrieves a recorded run by ID
func (uc *Analysis) GetRun(ctx context.Context, id types.RunID) (*model.AnalysisRun, error) {
	if uc.repo == nil {
		return nil, goerr.Wrap(model.ErrRunNotFound, "run history is not configured")
	}
	return uc.repo.GetRun(ctx, id)
}

// ListRuns lists recorded runs, newest first
func (uc *Analysis) ListRuns(ctx context.Context, limit int) ([]*model.AnalysisRun, error) {
	if uc.repo == nil {
		return nil, nil
	}
	return uc.repo.ListRuns(ctx, limit)
}
