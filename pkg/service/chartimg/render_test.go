package chartimg_test

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/service/chartimg"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func completedRun(t *testing.T) *model.AnalysisRun {
	t.Helper()

	run, err := model.NewAnalysisRun(model.DefaultAnalysisDate, model.NewFilterSet("", "", ""))
	gt.NoError(t, err)

	state := model.NewAnalysisState(
		model.ChurnPoint{Month: 1, Rate: 0.1},
		model.ChurnPoint{Month: 1, Rate: 0.05},
	)
	for month := 2; month <= 12; month++ {
		state, err = state.Step(
			model.ChurnPoint{Month: month, Rate: float64(month) / 15},
			model.ChurnPoint{Month: month, Rate: float64(month) / 20},
		)
		gt.NoError(t, err)
	}
	run.Complete(state, 20)

	return run
}

func TestRenderProducesPNG(t *testing.T) {
	png, err := chartimg.Render(completedRun(t))
	gt.NoError(t, err)
	gt.True(t, len(png) > len(pngSignature))
	gt.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestRenderRejectsShortSeries(t *testing.T) {
	_, err := chartimg.Render(nil)
	gt.Error(t, err)

	run, err := model.NewAnalysisRun(model.DefaultAnalysisDate, model.NewFilterSet("", "", ""))
	gt.NoError(t, err)
	run.SeriesEnd = model.ChurnSeries{{Month: 1, Rate: 0}}
	run.SeriesReporting = model.ChurnSeries{{Month: 1, Rate: 0}}

	_, err = chartimg.Render(run)
	gt.Error(t, err)
}
