package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/interfaces"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/source"
	"github.com/urfave/cli/v3"
)

// Warehouse holds analytical warehouse configuration
type Warehouse struct {
	DSN   string
	Table string
}

// Flags returns CLI flags for Warehouse configuration
func (w *Warehouse) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "warehouse-dsn",
			Usage:       "Postgres-compatible DSN of the analytical warehouse",
			Category:    "Warehouse",
			Sources:     cli.EnvVars("CHURNSCOPE_WAREHOUSE_DSN"),
			Destination: &w.DSN,
		},
		&cli.StringFlag{
			Name:        "warehouse-table",
			Usage:       "Table holding churn-flagged agreement records",
			Category:    "Warehouse",
			Value:       source.DefaultTable,
			Sources:     cli.EnvVars("CHURNSCOPE_WAREHOUSE_TABLE"),
			Destination: &w.Table,
		},
	}
}

// Configure creates the warehouse data source. Without a DSN it falls back
// to an in-memory source seeded with sample data for local exploration.
func (w *Warehouse) Configure(ctx context.Context) (interfaces.DataSource, error) {
	logger := ctxlog.From(ctx)

	if !w.IsConfigured() {
		logger.Warn("Using in-memory sample data instead of a warehouse. Set CHURNSCOPE_WAREHOUSE_DSN for real data")
		return source.NewMemory(source.SampleRows(model.DefaultAnalysisDate)...), nil
	}

	src, err := source.NewPostgres(ctx, w.DSN, w.Table)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init warehouse source",
			goerr.V("table", w.Table),
		)
	}

	return src, nil
}

// IsConfigured checks if a warehouse connection is configured
func (w *Warehouse) IsConfigured() bool {
	return w.DSN != ""
}

// LogValue returns structured log value; the DSN stays out of logs
func (w Warehouse) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", w.IsConfigured()),
		slog.String("table", w.Table),
	)
}
