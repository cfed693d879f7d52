package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
	"github.com/roshan-abady/churnscope/pkg/source"
	"github.com/roshan-abady/churnscope/pkg/usecase"
)

func TestCatalogOptions(t *testing.T) {
	ctx := context.Background()
	src := source.NewMemory(testRows()...)

	uc := usecase.NewCatalog(src)
	options, err := uc.Options(ctx)
	gt.NoError(t, err)

	gt.Equal(t, options.ProductGroups, []string{types.FilterAll, "Payroll", "SME Accounting"})
	gt.Equal(t, options.Channels, []string{types.FilterAll, "Direct", "Partner"})
	gt.Equal(t, options.Teams, []string{types.FilterAll, "ANZ Direct", "ANZ Partner"})
}

func TestCatalogOptionsEmptySource(t *testing.T) {
	ctx := context.Background()

	uc := usecase.NewCatalog(source.NewMemory())
	options, err := uc.Options(ctx)
	gt.NoError(t, err)

	// an empty warehouse still offers the wildcard
	gt.Equal(t, options.ProductGroups, []string{types.FilterAll})
	gt.Equal(t, options.Channels, []string{types.FilterAll})
	gt.Equal(t, options.Teams, []string{types.FilterAll})
}
