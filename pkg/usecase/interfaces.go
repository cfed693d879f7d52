package usecase

import (
	"context"
	"time"

	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// Frame is one animation step emitted while an analysis run advances: the
// accumulated state so far plus coarse progress in percent
type Frame struct {
	State    model.AnalysisState
	Progress int
	Done     bool
}

// EmitFunc receives frames as the analysis driver advances. Returning an
// error aborts the run (e.g. the streaming client went away).
type EmitFunc func(Frame) error

// CatalogUseCase exposes the selectable filter options
type CatalogUseCase interface {
	// Options returns the three option lists, each with the wildcard prepended
	Options(ctx context.Context) (*model.FilterOptions, error)
}

// AnalysisUseCase drives churn analysis runs
type AnalysisUseCase interface {
	// Run queries the row set once, then advances month offsets 1..horizon,
	// emitting one frame per offset. The completed run is persisted and
	// returned.
	Run(ctx context.Context, date time.Time, filters model.FilterSet, emit EmitFunc) (*model.AnalysisRun, error)

	// Rows returns the filtered raw rows for tabular display
	Rows(ctx context.Context, date time.Time, filters model.FilterSet) ([]model.ChurnRow, error)

	// GetRun retrieves a recorded run by ID
	GetRun(ctx context.Context, id types.RunID) (*model.AnalysisRun, error)

	// ListRuns lists recorded runs, newest first
	ListRuns(ctx context.Context, limit int) ([]*model.AnalysisRun, error)
}
