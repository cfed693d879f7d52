package interfaces

import (
	"context"

	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// Repository defines the interface for analysis run history persistence
type Repository interface {
	// PutRun stores or overwrites an analysis run
	PutRun(ctx context.Context, run *model.AnalysisRun) error

	// GetRun retrieves a run by ID; returns model.ErrRunNotFound when absent
	GetRun(ctx context.Context, id types.RunID) (*model.AnalysisRun, error)

	// ListRuns returns runs ordered newest first, up to limit (0 means no limit)
	ListRuns(ctx context.Context, limit int) ([]*model.AnalysisRun, error)

	// Close closes the repository connection
	Close() error
}
