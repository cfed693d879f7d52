package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// DefaultTable is the default warehouse table holding agreement records
const DefaultTable = "combined_arr_for_leaderboards"

// churnFlagValue is how the warehouse marks churned agreements
const churnFlagValue = "Y"

// categoryColumns maps filter columns to their SQL column names. Acting as a
// whitelist, it keeps user-selected column names out of query text.
var categoryColumns = map[types.CategoryColumn]string{
	types.ColumnProductGroup: "product_group",
	types.ColumnChannel:      "channel",
	types.ColumnTeamRollup:   "award_agent_team_roll_up",
}

// Postgres implements DataSource against a Postgres-compatible warehouse
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres opens a connection and verifies it with a ping
func NewPostgres(ctx context.Context, dsn, table string) (*Postgres, error) {
	if table == "" {
		table = DefaultTable
	}
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open warehouse connection")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping warehouse", goerr.V("table", table))
	}

	ctxlog.From(ctx).Info("warehouse source initialized", "table", table)

	return &Postgres{db: db, table: table}, nil
}

// DistinctValues returns the distinct non-empty values of a categorical column
func (p *Postgres) DistinctValues(ctx context.Context, column types.CategoryColumn) ([]string, error) {
	col, ok := categoryColumns[column]
	if !ok {
		return nil, goerr.Wrap(model.ErrUnknownColumn, "cannot list distinct values",
			goerr.V("column", column))
	}

	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL AND %s <> '' ORDER BY %s",
		col, p.table, col, col, col,
	)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query distinct values", goerr.V("column", column))
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, goerr.Wrap(err, "failed to scan distinct value")
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate distinct values")
	}

	return values, nil
}

// QueryChurnRows returns churn-flagged rows for the billing start date,
// narrowed by any active categorical filters
func (p *Postgres) QueryChurnRows(ctx context.Context, date time.Time, filters model.FilterSet) ([]model.ChurnRow, error) {
	query, args := churnQuery(p.table, date, filters)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query churn rows",
			goerr.V("date", date.Format(time.DateOnly)),
			goerr.V("filters", filters),
		)
	}
	defer rows.Close()

	var out []model.ChurnRow
	for rows.Next() {
		row, err := scanChurnRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate churn rows")
	}

	return out, nil
}

// Close closes the database connection
func (p *Postgres) Close() error {
	if err := p.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close warehouse connection")
	}
	return nil
}

// churnQuery assembles the parameterized row query for one analysis pass
func churnQuery(table string, date time.Time, filters model.FilterSet) (string, []any) {
	var b strings.Builder
	args := []any{date.Format(time.DateOnly)}

	fmt.Fprintf(&b,
		"SELECT client_id, agreement_billing_start_date, reporting_date_start_of_month, "+
			"agreement_eff_end_date, customer_churn_flag, channel, product_group, award_agent_team_roll_up "+
			"FROM %s WHERE customer_churn_flag = '%s' AND agreement_billing_start_date = $1",
		table, churnFlagValue,
	)

	if filters.ProductGroup != types.FilterAll {
		args = append(args, filters.ProductGroup)
		fmt.Fprintf(&b, " AND product_group = $%d", len(args))
	}
	if filters.Channel != types.FilterAll {
		args = append(args, filters.Channel)
		fmt.Fprintf(&b, " AND channel = $%d", len(args))
	}
	if filters.Team != types.FilterAll {
		args = append(args, filters.Team)
		fmt.Fprintf(&b, " AND award_agent_team_roll_up = $%d", len(args))
	}

	return b.String(), args
}

func scanChurnRow(rows *sql.Rows) (model.ChurnRow, error) {
	var (
		clientID       string
		billingStart   time.Time
		reportingMonth sql.NullTime
		agreementEnd   sql.NullTime
		churnFlag      string
		channel        string
		productGroup   string
		teamRollup     string
	)

	if err := rows.Scan(&clientID, &billingStart, &reportingMonth, &agreementEnd,
		&churnFlag, &channel, &productGroup, &teamRollup); err != nil {
		return model.ChurnRow{}, goerr.Wrap(err, "failed to scan churn row")
	}

	row := model.ChurnRow{
		ClientID:     types.ClientID(clientID),
		BillingStart: DateOnly(billingStart),
		ChurnFlag:    churnFlag == churnFlagValue,
		Channel:      types.Channel(channel),
		ProductGroup: types.ProductGroup(productGroup),
		TeamRollup:   types.TeamRollup(teamRollup),
	}
	if reportingMonth.Valid {
		d := DateOnly(reportingMonth.Time)
		row.ReportingMonthStart = &d
	}
	if agreementEnd.Valid {
		d := DateOnly(agreementEnd.Time)
		row.AgreementEnd = &d
	}

	return row, nil
}

// validateTableName permits plain or schema-qualified identifiers only, since
// the table name is interpolated into query text
func validateTableName(table string) error {
	for _, r := range table {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '.':
		default:
			return goerr.New("invalid warehouse table name", goerr.V("table", table))
		}
	}
	return nil
}

// DateOnly normalizes a timestamp to midnight UTC so day arithmetic between
// date columns stays exact
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
