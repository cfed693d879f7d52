package usecase

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/interfaces"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// Catalog provides the filter option lists for the dashboard
type Catalog struct {
	source interfaces.DataSource
}

// NewCatalog creates a new Catalog use case
func NewCatalog(source interfaces.DataSource) *Catalog {
	return &Catalog{source: source}
}

// Options fetches the distinct values of every categorical column and
// prepends the wildcard option. An empty warehouse yields wildcard-only lists.
func (uc *Catalog) Options(ctx context.Context) (*model.FilterOptions, error) {
	productGroups, err := uc.optionList(ctx, types.ColumnProductGroup)
	if err != nil {
		return nil, err
	}
	channels, err := uc.optionList(ctx, types.ColumnChannel)
	if err != nil {
		return nil, err
	}
	teams, err := uc.optionList(ctx, types.ColumnTeamRollup)
	if err != nil {
		return nil, err
	}

	return &model.FilterOptions{
		ProductGroups: productGroups,
		Channels:      channels,
		Teams:         teams,
	}, nil
}

func (uc *Catalog) optionList(ctx context.Context, column types.CategoryColumn) ([]string, error) {
	values, err := uc.source.DistinctValues(ctx, column)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch filter options", goerr.V("column", column))
	}
	sort.Strings(values)
	return append([]string{types.FilterAll}, values...), nil
}
