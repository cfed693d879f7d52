package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// AnalysisState is the pure accumulation state of one animation pass. Each
// step appends one point per series; the state itself is immutable and every
// transition returns a fresh value so rendering can be tested separately.
type AnalysisState struct {
	Month           int         `json:"month"`
	SeriesEnd       ChurnSeries `json:"series_end"`
	SeriesReporting ChurnSeries `json:"series_reporting"`
}

// NewAnalysisState seeds the state with the month-1 point of each series
func NewAnalysisState(ptEnd, ptReporting ChurnPoint) AnalysisState {
	return AnalysisState{
		Month:           1,
		SeriesEnd:       ChurnSeries{ptEnd},
		SeriesReporting: ChurnSeries{ptReporting},
	}
}

// Step returns the state advanced by one month offset
func (s AnalysisState) Step(ptEnd, ptReporting ChurnPoint) (AnalysisState, error) {
	seriesEnd, err := s.SeriesEnd.Append(ptEnd)
	if err != nil {
		return AnalysisState{}, goerr.Wrap(err, "failed to extend agreement-end series")
	}
	seriesReporting, err := s.SeriesReporting.Append(ptReporting)
	if err != nil {
		return AnalysisState{}, goerr.Wrap(err, "failed to extend reporting-month series")
	}
	return AnalysisState{
		Month:           ptEnd.Month,
		SeriesEnd:       seriesEnd,
		SeriesReporting: seriesReporting,
	}, nil
}

// Progress returns the completion percentage in discrete per-month steps
func (s AnalysisState) Progress(horizon int) int {
	if horizon <= 0 {
		return 0
	}
	return s.Month * 100 / horizon
}

// AnalysisRun is one completed (or in-flight) churn analysis: the selected
// billing start date, the filters, and the two accumulated series
type AnalysisRun struct {
	ID              types.RunID     `json:"id"`
	Date            time.Time       `json:"date"`
	Filters         FilterSet       `json:"filters"`
	SeriesEnd       ChurnSeries     `json:"series_end"`
	SeriesReporting ChurnSeries     `json:"series_reporting"`
	RowCount        int             `json:"row_count"`
	Status          types.RunStatus `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     time.Time       `json:"completed_at,omitempty"`
}

// NewAnalysisRun creates a running AnalysisRun for the given date and filters
func NewAnalysisRun(date time.Time, filters FilterSet) (*AnalysisRun, error) {
	id, err := types.NewRunID()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate run ID")
	}
	return &AnalysisRun{
		ID:        id,
		Date:      date,
		Filters:   filters,
		Status:    types.RunStatusRunning,
		CreatedAt: time.Now(),
	}, nil
}

// Complete records the terminal state and row count of the run
func (r *AnalysisRun) Complete(state AnalysisState, rowCount int) {
	r.SeriesEnd = state.SeriesEnd
	r.SeriesReporting = state.SeriesReporting
	r.RowCount = rowCount
	r.Status = types.RunStatusCompleted
	r.CompletedAt = time.Now()
}

// Validate checks run invariants for a completed run
func (r *AnalysisRun) Validate() error {
	if r.ID == "" {
		return goerr.New("run ID is empty")
	}
	if r.Status == types.RunStatusCompleted {
		if err := r.SeriesEnd.Validate(); err != nil {
			return goerr.Wrap(err, "invalid agreement-end series")
		}
		if err := r.SeriesReporting.Validate(); err != nil {
			return goerr.Wrap(err, "invalid reporting-month series")
		}
		if len(r.SeriesEnd) != len(r.SeriesReporting) {
			return goerr.New("series length mismatch",
				goerr.V("end", len(r.SeriesEnd)),
				goerr.V("reporting", len(r.SeriesReporting)),
			)
		}
	}
	return nil
}
