package interfaces

import (
	"context"

	"github.com/roshan-abady/churnscope/pkg/domain/model"
)

// Notifier delivers completion notices for finished analysis runs
type Notifier interface {
	NotifyRunCompleted(ctx context.Context, run *model.AnalysisRun) error
}
