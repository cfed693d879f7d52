package metric

import (
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

const (
	// Horizon is the number of month offsets computed per analysis
	Horizon = 12

	// DaysPerMonth is the fixed linear day-threshold approximation of one
	// month. Month offset m matches rows within 30*m elapsed days; this is
	// deliberately not calendar-accurate.
	DaysPerMonth = 30
)

// Compute returns the cumulative churn rate at the given month offset: the
// fraction of rows whose elapsed days from billing start to the selected
// reference date is at most DaysPerMonth*month (inclusive).
//
// Rows with a missing reference date count toward the total but can never
// match. Negative elapsed days (reference before billing start) are kept and
// therefore match at any positive offset. An empty row set yields rate 0.
func Compute(rows []model.ChurnRow, month int, field types.EndDateField) model.ChurnPoint {
	total := len(rows)
	if total == 0 {
		return model.ChurnPoint{Month: month, Rate: 0}
	}

	threshold := DaysPerMonth * month
	matched := 0
	for i := range rows {
		days, ok := DaysToChurn(&rows[i], field)
		if !ok {
			continue
		}
		if days <= threshold {
			matched++
		}
	}

	return model.ChurnPoint{
		Month: month,
		Rate:  float64(matched) / float64(total),
	}
}

// DaysToChurn returns the whole days elapsed from the row's billing start to
// the selected reference date. ok is false when the reference date is missing.
func DaysToChurn(row *model.ChurnRow, field types.EndDateField) (int, bool) {
	ref := row.ReferenceDate(field)
	if ref == nil {
		return 0, false
	}
	return int(ref.Sub(row.BillingStart).Hours() / 24), true
}
