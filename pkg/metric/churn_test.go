package metric_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
	"github.com/roshan-abady/churnscope/pkg/metric"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// row builds a churn row; empty end/reporting mean the date is missing
func row(billing, end, reporting string) model.ChurnRow {
	r := model.ChurnRow{
		ClientID:     "C-1",
		BillingStart: day(billing),
		ChurnFlag:    true,
	}
	if end != "" {
		d := day(end)
		r.AgreementEnd = &d
	}
	if reporting != "" {
		d := day(reporting)
		r.ReportingMonthStart = &d
	}
	return r
}

func TestComputeEmptyRows(t *testing.T) {
	for _, month := range []int{1, 5, 12} {
		pt := metric.Compute(nil, month, types.EndDateAgreement)
		gt.Equal(t, pt.Month, month)
		gt.Equal(t, pt.Rate, 0.0)

		pt = metric.Compute([]model.ChurnRow{}, month, types.EndDateReporting)
		gt.Equal(t, pt.Month, month)
		gt.Equal(t, pt.Rate, 0.0)
	}
}

func TestComputeChurnWithinFirstMonth(t *testing.T) {
	// 14 elapsed days is within the 30-day threshold of month 1
	rows := []model.ChurnRow{row("2021-10-01", "2021-10-15", "")}

	pt := metric.Compute(rows, 1, types.EndDateAgreement)
	gt.Equal(t, pt.Month, 1)
	gt.Equal(t, pt.Rate, 1.0)
}

func TestComputeChurnBeyondFirstMonth(t *testing.T) {
	// 65 elapsed days: outside month 1, inside month 3
	rows := []model.ChurnRow{row("2021-10-01", "2021-12-05", "")}

	gt.Equal(t, metric.Compute(rows, 1, types.EndDateAgreement).Rate, 0.0)
	gt.Equal(t, metric.Compute(rows, 2, types.EndDateAgreement).Rate, 1.0)
	gt.Equal(t, metric.Compute(rows, 3, types.EndDateAgreement).Rate, 1.0)
}

func TestComputePartialMatch(t *testing.T) {
	// 4 rows, exactly 1 within 60 days
	rows := []model.ChurnRow{
		row("2021-10-01", "2021-10-20", ""),
		row("2021-10-01", "2022-01-15", ""),
		row("2021-10-01", "2022-03-01", ""),
		row("2021-10-01", "2022-06-30", ""),
	}

	pt := metric.Compute(rows, 2, types.EndDateAgreement)
	gt.Equal(t, pt.Rate, 0.25)
}

func TestComputeBoundaryInclusive(t *testing.T) {
	// exactly 30 days elapsed counts at month 1
	rows := []model.ChurnRow{row("2021-10-01", "2021-10-31", "")}

	gt.Equal(t, metric.Compute(rows, 1, types.EndDateAgreement).Rate, 1.0)
}

func TestComputeMissingReferenceDate(t *testing.T) {
	// missing end dates stay in the total but never match
	rows := []model.ChurnRow{
		row("2021-10-01", "2021-10-10", ""),
		row("2021-10-01", "", "2021-11-01"),
		row("2021-10-01", "", ""),
	}

	pt := metric.Compute(rows, 12, types.EndDateAgreement)
	gt.Equal(t, pt.Rate, 1.0/3.0)

	pt = metric.Compute(rows, 12, types.EndDateReporting)
	gt.Equal(t, pt.Rate, 1.0/3.0)
}

func TestComputeNegativeElapsedDays(t *testing.T) {
	// a reference date before billing start still matches any offset
	rows := []model.ChurnRow{row("2021-10-01", "2021-09-15", "")}

	gt.Equal(t, metric.Compute(rows, 1, types.EndDateAgreement).Rate, 1.0)
}

func TestComputeFieldSelection(t *testing.T) {
	rows := []model.ChurnRow{row("2021-10-01", "2022-05-01", "2021-10-20")}

	// reporting month is within 30 days, agreement end is not
	gt.Equal(t, metric.Compute(rows, 1, types.EndDateReporting).Rate, 1.0)
	gt.Equal(t, metric.Compute(rows, 1, types.EndDateAgreement).Rate, 0.0)
}

func TestComputeRateBoundsAndMonotonicity(t *testing.T) {
	rows := []model.ChurnRow{
		row("2021-10-01", "2021-10-05", "2021-11-01"),
		row("2021-10-01", "2021-12-20", "2022-01-01"),
		row("2021-10-01", "2022-02-14", "2022-03-01"),
		row("2021-10-01", "2022-08-01", "2022-08-01"),
		row("2021-10-01", "", "2022-04-01"),
		row("2021-10-01", "2021-09-20", ""),
	}

	for _, field := range []types.EndDateField{types.EndDateAgreement, types.EndDateReporting} {
		prev := -1.0
		for month := 1; month <= metric.Horizon; month++ {
			pt := metric.Compute(rows, month, field)
			gt.True(t, pt.Rate >= 0 && pt.Rate <= 1)
			gt.True(t, pt.Rate >= prev)
			prev = pt.Rate
		}
	}
}

func TestDaysToChurn(t *testing.T) {
	r := row("2021-10-01", "2021-10-15", "")

	days, ok := metric.DaysToChurn(&r, types.EndDateAgreement)
	gt.True(t, ok)
	gt.Equal(t, days, 14)

	_, ok = metric.DaysToChurn(&r, types.EndDateReporting)
	gt.True(t, !ok)
}
