package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

func TestNewFilterSetNormalizesEmpty(t *testing.T) {
	f := model.NewFilterSet("", "Direct", "")
	gt.Equal(t, f.ProductGroup, types.FilterAll)
	gt.Equal(t, f.Channel, "Direct")
	gt.Equal(t, f.Team, types.FilterAll)
	gt.True(t, !f.IsUnfiltered())

	gt.True(t, model.NewFilterSet("", "", "").IsUnfiltered())
}

func TestFilterSetMatches(t *testing.T) {
	row := &model.ChurnRow{
		ProductGroup: "Payroll",
		Channel:      "Direct",
		TeamRollup:   "ANZ Direct",
	}

	gt.True(t, model.NewFilterSet("All", "All", "All").Matches(row))
	gt.True(t, model.NewFilterSet("Payroll", "All", "All").Matches(row))
	gt.True(t, model.NewFilterSet("Payroll", "Direct", "ANZ Direct").Matches(row))
	gt.True(t, !model.NewFilterSet("SME Accounting", "All", "All").Matches(row))
	gt.True(t, !model.NewFilterSet("All", "Partner", "All").Matches(row))
	gt.True(t, !model.NewFilterSet("All", "All", "ANZ Partner").Matches(row))
}

func TestChurnSeriesAppendKeepsOrder(t *testing.T) {
	s := model.ChurnSeries{{Month: 1, Rate: 0.1}}

	s2, err := s.Append(model.ChurnPoint{Month: 2, Rate: 0.2})
	gt.NoError(t, err)
	gt.Equal(t, len(s2), 2)
	// original series is untouched
	gt.Equal(t, len(s), 1)

	_, err = s2.Append(model.ChurnPoint{Month: 2, Rate: 0.3})
	gt.Error(t, err)
	_, err = s2.Append(model.ChurnPoint{Month: 1, Rate: 0.3})
	gt.Error(t, err)
}

func TestChurnSeriesValidate(t *testing.T) {
	ok := model.ChurnSeries{{Month: 1, Rate: 0}, {Month: 2, Rate: 0.5}, {Month: 3, Rate: 1}}
	gt.NoError(t, ok.Validate())

	gapped := model.ChurnSeries{{Month: 1, Rate: 0}, {Month: 3, Rate: 0.5}}
	gt.Error(t, gapped.Validate())

	outOfRange := model.ChurnSeries{{Month: 1, Rate: 1.5}}
	gt.Error(t, outOfRange.Validate())
}

func TestAnalysisStateStep(t *testing.T) {
	state := model.NewAnalysisState(
		model.ChurnPoint{Month: 1, Rate: 0.1},
		model.ChurnPoint{Month: 1, Rate: 0.2},
	)
	gt.Equal(t, state.Month, 1)

	next, err := state.Step(
		model.ChurnPoint{Month: 2, Rate: 0.3},
		model.ChurnPoint{Month: 2, Rate: 0.4},
	)
	gt.NoError(t, err)
	gt.Equal(t, next.Month, 2)
	gt.Equal(t, len(next.SeriesEnd), 2)
	gt.Equal(t, len(next.SeriesReporting), 2)
	// the previous state is unchanged
	gt.Equal(t, state.Month, 1)
	gt.Equal(t, len(state.SeriesEnd), 1)

	_, err = next.Step(
		model.ChurnPoint{Month: 2, Rate: 0.5},
		model.ChurnPoint{Month: 2, Rate: 0.5},
	)
	gt.Error(t, err)
}

func TestAnalysisStateProgress(t *testing.T) {
	state := model.AnalysisState{Month: 1}
	gt.Equal(t, state.Progress(12), 8) // floor(1/12*100)

	state.Month = 6
	gt.Equal(t, state.Progress(12), 50)

	state.Month = 12
	gt.Equal(t, state.Progress(12), 100)

	gt.Equal(t, state.Progress(0), 0)
}

func TestAnalysisRunLifecycle(t *testing.T) {
	run, err := model.NewAnalysisRun(model.DefaultAnalysisDate, model.NewFilterSet("", "", ""))
	gt.NoError(t, err)
	gt.True(t, run.ID != "")
	gt.Equal(t, run.Status, types.RunStatusRunning)

	state := model.NewAnalysisState(
		model.ChurnPoint{Month: 1, Rate: 0.25},
		model.ChurnPoint{Month: 1, Rate: 0.5},
	)
	run.Complete(state, 4)
	gt.Equal(t, run.Status, types.RunStatusCompleted)
	gt.Equal(t, run.RowCount, 4)
	gt.NoError(t, run.Validate())
}

func TestPresetsConfigValidate(t *testing.T) {
	ok := &model.PresetsConfig{Presets: []model.ViewPreset{
		{ID: "payroll_direct", Name: "Payroll via Direct", ProductGroup: "Payroll", Channel: "Direct"},
		{ID: "partners", Name: "All Partners", Channel: "Partner"},
	}}
	gt.NoError(t, ok.Validate())

	gt.Error(t, (&model.PresetsConfig{Presets: []model.ViewPreset{{Name: "x"}}}).Validate())
	gt.Error(t, (&model.PresetsConfig{Presets: []model.ViewPreset{{ID: "a"}}}).Validate())
	gt.Error(t, (&model.PresetsConfig{Presets: []model.ViewPreset{
		{ID: "a", Name: "A"}, {ID: "a", Name: "B"},
	}}).Validate())

	// preset filters normalize to wildcards
	p := ok.Presets[1]
	f := p.FilterSet()
	gt.Equal(t, f.ProductGroup, types.FilterAll)
	gt.Equal(t, f.Channel, "Partner")
}
