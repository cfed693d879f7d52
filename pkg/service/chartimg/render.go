package chartimg

import (
	"bytes"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartTitle          = "Accumulated Churn Rate Over Time"
	seriesNameEnd       = "Agreement End Date"
	seriesNameReporting = "Reporting Month Start"
)

// Render draws the two churn-rate curves of a run as a PNG: line-plus-marker
// series over month offsets, y axis fixed to [0,1] with percent ticks.
func Render(run *model.AnalysisRun) ([]byte, error) {
	if run == nil {
		return nil, goerr.New("run is nil")
	}
	if len(run.SeriesEnd) < 2 || len(run.SeriesReporting) < 2 {
		return nil, goerr.New("run has too few points to chart",
			goerr.V("end", len(run.SeriesEnd)),
			goerr.V("reporting", len(run.SeriesReporting)),
		)
	}

	lineStyle := chart.Style{
		StrokeWidth: 2,
		DotWidth:    4,
	}

	endSeries := chart.ContinuousSeries{
		Name:    seriesNameEnd,
		XValues: run.SeriesEnd.Months(),
		YValues: run.SeriesEnd.Rates(),
		Style:   lineStyle,
	}

	reportingSeries := chart.ContinuousSeries{
		Name:    seriesNameReporting,
		XValues: run.SeriesReporting.Months(),
		YValues: run.SeriesReporting.Rates(),
		Style:   lineStyle,
	}

	ch := chart.Chart{
		Title: chartTitle,
		Background: chart.Style{
			Padding: chart.Box{Top: 32, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "(#) Months in agreement",
			Ticks: monthTicks(run.SeriesEnd),
		},
		YAxis: chart.YAxis{
			Name:           "Churn Rate (%)",
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: percentFormatter,
		},
		Series: []chart.Series{endSeries, reportingSeries},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, goerr.Wrap(err, "failed to render churn chart", goerr.V("runID", run.ID))
	}

	return buf.Bytes(), nil
}

// monthTicks pins one integer tick per month offset
func monthTicks(series model.ChurnSeries) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(series))
	for _, pt := range series {
		ticks = append(ticks, chart.Tick{
			Value: float64(pt.Month),
			Label: fmt.Sprintf("%d", pt.Month),
		})
	}
	return ticks
}

func percentFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.0f%%", f*100)
}
