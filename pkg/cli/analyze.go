package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/cli/config"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/service/chartimg"
	"github.com/roshan-abady/churnscope/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdAnalyze() *cli.Command {
	var (
		warehouseCfg config.Warehouse
		firestoreCfg config.Firestore
		slackCfg     config.Slack
		dateStr      string
		productGroup string
		channel      string
		team         string
		output       string
	)

	flags := joinFlags(
		warehouseCfg.Flags(),
		firestoreCfg.Flags(),
		slackCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Usage:       "Billing start date to analyze (YYYY-MM-DD)",
				Value:       model.DefaultAnalysisDate.Format(time.DateOnly),
				Destination: &dateStr,
			},
			&cli.StringFlag{
				Name:        "product-group",
				Usage:       "Product group filter",
				Value:       "All",
				Destination: &productGroup,
			},
			&cli.StringFlag{
				Name:        "channel",
				Usage:       "Channel filter",
				Value:       "All",
				Destination: &channel,
			},
			&cli.StringFlag{
				Name:        "team",
				Usage:       "Award team rollup filter",
				Value:       "All",
				Destination: &team,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the churn chart PNG to this path",
				Destination: &output,
			},
		},
	)

	return &cli.Command{
		Name:  "analyze",
		Usage: "Run one churn analysis and print the per-month rates",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			date, err := time.Parse(time.DateOnly, dateStr)
			if err != nil {
				return goerr.Wrap(err, "invalid --date", goerr.V("date", dateStr))
			}
			filters := model.NewFilterSet(productGroup, channel, team)

			src, err := warehouseCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			opts := []usecase.Option{usecase.WithFrameDelay(0)}
			if notifier := slackCfg.ConfigureOptional(ctx); notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}
			analysisUC := usecase.NewAnalysis(src, repo, opts...)

			run, err := analysisUC.Run(ctx, date, filters, func(frame usecase.Frame) error {
				logger.Debug("analysis progress",
					"month", frame.State.Month,
					"progress", frame.Progress,
				)
				return nil
			})
			if err != nil {
				return err
			}

			printSeries(run)

			if output != "" {
				png, err := chartimg.Render(run)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, png, 0o644); err != nil {
					return goerr.Wrap(err, "failed to write chart", goerr.V("path", output))
				}
				logger.Info("chart written", "path", output)
			}

			logger.Info("analysis completed",
				"runID", run.ID,
				"date", date.Format(time.DateOnly),
				"rows", run.RowCount,
			)
			return nil
		},
	}
}

func printSeries(run *model.AnalysisRun) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tAGREEMENT END\tREPORTING MONTH")
	for i := range run.SeriesEnd {
		fmt.Fprintf(w, "%d\t%.1f%%\t%.1f%%\n",
			run.SeriesEnd[i].Month,
			run.SeriesEnd[i].Rate*100,
			run.SeriesReporting[i].Rate*100,
		)
	}
	_ = w.Flush()
}
