package model

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// DefaultAnalysisDate is the default billing start date offered by the dashboard
var DefaultAnalysisDate = time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC)

// ChurnRow is one churn-flagged customer agreement record from the warehouse.
// ReportingMonthStart and AgreementEnd may independently be missing; such rows
// still count toward the total but never match an elapsed-days threshold.
type ChurnRow struct {
	ClientID            types.ClientID     `json:"client_id"`
	BillingStart        time.Time          `json:"billing_start_date"`
	ReportingMonthStart *time.Time         `json:"reporting_month_start,omitempty"`
	AgreementEnd        *time.Time         `json:"agreement_end_date,omitempty"`
	ChurnFlag           bool               `json:"churn_flag"`
	Channel             types.Channel      `json:"channel"`
	ProductGroup        types.ProductGroup `json:"product_group"`
	TeamRollup          types.TeamRollup   `json:"award_team"`
}

// ReferenceDate returns the date column selected by field, or nil when missing
func (r *ChurnRow) ReferenceDate(field types.EndDateField) *time.Time {
	switch field {
	case types.EndDateAgreement:
		return r.AgreementEnd
	case types.EndDateReporting:
		return r.ReportingMonthStart
	}
	return nil
}

// FilterSet holds the three optional categorical filters. A value equal to
// types.FilterAll (or empty) applies no predicate for that column.
type FilterSet struct {
	ProductGroup string `json:"product_group"`
	Channel      string `json:"channel"`
	Team         string `json:"team"`
}

// NewFilterSet creates a FilterSet, normalizing empty selections to the wildcard
func NewFilterSet(productGroup, channel, team string) FilterSet {
	return FilterSet{
		ProductGroup: normalizeFilter(productGroup),
		Channel:      normalizeFilter(channel),
		Team:         normalizeFilter(team),
	}
}

func normalizeFilter(v string) string {
	if v == "" {
		return types.FilterAll
	}
	return v
}

// Matches reports whether the row passes every active filter
func (f FilterSet) Matches(row *ChurnRow) bool {
	if f.ProductGroup != types.FilterAll && row.ProductGroup.String() != f.ProductGroup {
		return false
	}
	if f.Channel != types.FilterAll && row.Channel.String() != f.Channel {
		return false
	}
	if f.Team != types.FilterAll && row.TeamRollup.String() != f.Team {
		return false
	}
	return true
}

// IsUnfiltered reports whether every filter is the wildcard
func (f FilterSet) IsUnfiltered() bool {
	return f.ProductGroup == types.FilterAll &&
		f.Channel == types.FilterAll &&
		f.Team == types.FilterAll
}

// LogValue returns structured log value
func (f FilterSet) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("productGroup", f.ProductGroup),
		slog.String("channel", f.Channel),
		slog.String("team", f.Team),
	)
}

// ChurnPoint is one (month offset, churn rate) measurement
type ChurnPoint struct {
	Month int     `json:"month"`
	Rate  float64 `json:"rate"`
}

// ChurnSeries is an ordered sequence of ChurnPoint, one per month offset
type ChurnSeries []ChurnPoint

// Append returns a new series with pt added, enforcing ascending month order
func (s ChurnSeries) Append(pt ChurnPoint) (ChurnSeries, error) {
	if len(s) > 0 && pt.Month <= s[len(s)-1].Month {
		return nil, goerr.New("churn point out of order",
			goerr.V("lastMonth", s[len(s)-1].Month),
			goerr.V("month", pt.Month),
		)
	}
	out := make(ChurnSeries, len(s), len(s)+1)
	copy(out, s)
	return append(out, pt), nil
}

// Months returns the x values of the series
func (s ChurnSeries) Months() []float64 {
	out := make([]float64, len(s))
	for i, pt := range s {
		out[i] = float64(pt.Month)
	}
	return out
}

// Rates returns the y values of the series
func (s ChurnSeries) Rates() []float64 {
	out := make([]float64, len(s))
	for i, pt := range s {
		out[i] = pt.Rate
	}
	return out
}

// Validate checks that months run 1..len(s) in order and rates stay in [0,1]
func (s ChurnSeries) Validate() error {
	for i, pt := range s {
		if pt.Month != i+1 {
			return goerr.New("series months are not consecutive from 1",
				goerr.V("index", i),
				goerr.V("month", pt.Month),
			)
		}
		if pt.Rate < 0 || pt.Rate > 1 {
			return goerr.New("churn rate out of range",
				goerr.V("month", pt.Month),
				goerr.V("rate", pt.Rate),
			)
		}
	}
	return nil
}

// FilterOptions holds the selectable values for the three categorical filters,
// each list starting with the wildcard option
type FilterOptions struct {
	ProductGroups []string `json:"product_groups"`
	Channels      []string `json:"channels"`
	Teams         []string `json:"teams"`
}
