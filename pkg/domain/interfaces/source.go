package interfaces

import (
	"context"
	"time"

	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// DataSource is the boundary to the analytical warehouse table
type DataSource interface {
	// DistinctValues returns the distinct non-empty values of a categorical column
	DistinctValues(ctx context.Context, column types.CategoryColumn) ([]string, error)

	// QueryChurnRows returns churn-flagged rows whose billing start equals date,
	// narrowed by any active filters. An empty result is not an error.
	QueryChurnRows(ctx context.Context, date time.Time, filters model.FilterSet) ([]model.ChurnRow, error)

	// Close closes the underlying connection
	Close() error
}
