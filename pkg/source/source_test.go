package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
	"github.com/roshan-abady/churnscope/pkg/source"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMemoryQueryChurnRows(t *testing.T) {
	ctx := context.Background()
	target := day("2021-10-01")

	end := day("2021-11-15")
	src := source.NewMemory(
		model.ChurnRow{
			ClientID: "C-1", BillingStart: target, ChurnFlag: true,
			ProductGroup: "Payroll", Channel: "Direct", TeamRollup: "ANZ Direct",
			AgreementEnd: &end,
		},
		model.ChurnRow{
			ClientID: "C-2", BillingStart: target, ChurnFlag: true,
			ProductGroup: "Payroll", Channel: "Partner", TeamRollup: "ANZ Partner",
		},
		// not churn-flagged: never returned
		model.ChurnRow{
			ClientID: "C-3", BillingStart: target, ChurnFlag: false,
			ProductGroup: "Payroll", Channel: "Direct", TeamRollup: "ANZ Direct",
		},
		// different billing date
		model.ChurnRow{
			ClientID: "C-4", BillingStart: day("2021-11-01"), ChurnFlag: true,
			ProductGroup: "Payroll", Channel: "Direct", TeamRollup: "ANZ Direct",
		},
	)

	rows, err := src.QueryChurnRows(ctx, target, model.NewFilterSet("", "", ""))
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 2)

	rows, err = src.QueryChurnRows(ctx, target, model.NewFilterSet("All", "Direct", "All"))
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 1)
	gt.Equal(t, rows[0].ClientID, types.ClientID("C-1"))

	// no filter combination is invalid; disjoint filters just match nothing
	rows, err = src.QueryChurnRows(ctx, target, model.NewFilterSet("Practice Management", "Direct", "ANZ Partner"))
	gt.NoError(t, err)
	gt.Equal(t, len(rows), 0)
}

func TestMemoryDistinctValues(t *testing.T) {
	ctx := context.Background()
	src := source.NewMemory(source.SampleRows(day("2021-10-01"))...)

	values, err := src.DistinctValues(ctx, types.ColumnProductGroup)
	gt.NoError(t, err)
	gt.Equal(t, values, []string{"Payroll", "Practice Management", "SME Accounting"})

	values, err = src.DistinctValues(ctx, types.ColumnChannel)
	gt.NoError(t, err)
	gt.Equal(t, values, []string{"Direct", "Partner"})

	_, err = src.DistinctValues(ctx, types.CategoryColumn("client_id"))
	gt.Error(t, err)
}

func TestSampleRowsDeterministic(t *testing.T) {
	target := day("2021-10-01")
	rows := source.SampleRows(target)
	gt.Equal(t, rows, source.SampleRows(target))

	for i := range rows {
		gt.True(t, rows[i].ChurnFlag)
		gt.True(t, rows[i].BillingStart.Equal(target))
	}

	// the sample keeps some reference dates open to exercise the null policy
	var missingEnd, missingReporting int
	for i := range rows {
		if rows[i].AgreementEnd == nil {
			missingEnd++
		}
		if rows[i].ReportingMonthStart == nil {
			missingReporting++
		}
	}
	gt.True(t, missingEnd > 0)
	gt.True(t, missingReporting > 0)
}

func TestChurnQuery(t *testing.T) {
	date := day("2021-10-01")

	query, args := source.ChurnQuery("combined_arr_for_leaderboards", date, model.NewFilterSet("", "", ""))
	gt.Equal(t, args, []any{"2021-10-01"})
	gt.Equal(t, query,
		"SELECT client_id, agreement_billing_start_date, reporting_date_start_of_month, "+
			"agreement_eff_end_date, customer_churn_flag, channel, product_group, award_agent_team_roll_up "+
			"FROM combined_arr_for_leaderboards WHERE customer_churn_flag = 'Y' AND agreement_billing_start_date = $1")

	query, args = source.ChurnQuery("arr", date, model.NewFilterSet("Payroll", "All", "ANZ Direct"))
	gt.Equal(t, args, []any{"2021-10-01", "Payroll", "ANZ Direct"})
	gt.Equal(t, query,
		"SELECT client_id, agreement_billing_start_date, reporting_date_start_of_month, "+
			"agreement_eff_end_date, customer_churn_flag, channel, product_group, award_agent_team_roll_up "+
			"FROM arr WHERE customer_churn_flag = 'Y' AND agreement_billing_start_date = $1"+
			" AND product_group = $2 AND award_agent_team_roll_up = $3")
}

func TestValidateTableName(t *testing.T) {
	gt.NoError(t, source.ValidateTableName("combined_arr_for_leaderboards"))
	gt.NoError(t, source.ValidateTableName("analytics.arr_v2"))
	gt.Error(t, source.ValidateTableName("arr; DROP TABLE arr"))
	gt.Error(t, source.ValidateTableName("arr records"))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)
	ts := time.Date(2021, 10, 1, 23, 45, 0, 0, loc)
	gt.Equal(t, source.DateOnly(ts), day("2021-10-01"))
}
