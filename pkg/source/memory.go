package source

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
)

// Memory implements DataSource over an in-memory row set. It backs demo mode
// and tests with the same filter semantics as the warehouse source.
type Memory struct {
	mu   sync.RWMutex
	rows []model.ChurnRow
}

// NewMemory creates a memory source seeded with the given rows
func NewMemory(rows ...model.ChurnRow) *Memory {
	return &Memory{rows: rows}
}

// Add appends rows to the source
func (m *Memory) Add(rows ...model.ChurnRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
}

// DistinctValues returns the sorted distinct non-empty values of a column
func (m *Memory) DistinctValues(ctx context.Context, column types.CategoryColumn) ([]string, error) {
	if !column.IsValid() {
		return nil, goerr.Wrap(model.ErrUnknownColumn, "cannot list distinct values",
			goerr.V("column", column))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for i := range m.rows {
		var v string
		switch column {
		case types.ColumnProductGroup:
			v = m.rows[i].ProductGroup.String()
		case types.ColumnChannel:
			v = m.rows[i].Channel.String()
		case types.ColumnTeamRollup:
			v = m.rows[i].TeamRollup.String()
		}
		if v != "" {
			seen[v] = true
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	return values, nil
}

// QueryChurnRows returns churn-flagged rows matching the date and filters
func (m *Memory) QueryChurnRows(ctx context.Context, date time.Time, filters model.FilterSet) ([]model.ChurnRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day := DateOnly(date)
	var out []model.ChurnRow
	for i := range m.rows {
		row := m.rows[i]
		if !row.ChurnFlag || !DateOnly(row.BillingStart).Equal(day) {
			continue
		}
		if !filters.Matches(&row) {
			continue
		}
		out = append(out, row)
	}

	return out, nil
}

// Close is a no-op for the memory source
func (m *Memory) Close() error {
	return nil
}

// SampleRows builds a deterministic demo data set anchored on the given
// billing start date: churned agreements across a few product groups and
// channels, with end dates spread over the first year and some left open.
func SampleRows(date time.Time) []model.ChurnRow {
	day := DateOnly(date)

	type seed struct {
		client   string
		product  string
		channel  string
		team     string
		endDays  int  // days from billing start to agreement end; <0 means missing
		repDays  int  // days from billing start to reporting month start; <0 means missing
	}

	seeds := []seed{
		{"C-1001", "Payroll", "Direct", "ANZ Direct", 14, 31},
		{"C-1002", "Payroll", "Direct", "ANZ Direct", 45, 62},
		{"C-1003", "Payroll", "Partner", "ANZ Partner", 88, 93},
		{"C-1004", "Practice Management", "Direct", "ANZ Direct", 120, 124},
		{"C-1005", "Practice Management", "Partner", "ANZ Partner", 160, 186},
		{"C-1006", "Practice Management", "Partner", "ANZ Partner", 214, 217},
		{"C-1007", "SME Accounting", "Direct", "ANZ Direct", 260, 279},
		{"C-1008", "SME Accounting", "Direct", "ANZ Direct", 300, 310},
		{"C-1009", "SME Accounting", "Partner", "ANZ Partner", 355, 341},
		{"C-1010", "Payroll", "Partner", "ANZ Partner", -1, 150},
		{"C-1011", "SME Accounting", "Partner", "ANZ Partner", 30, -1},
		{"C-1012", "Practice Management", "Direct", "ANZ Direct", -1, -1},
	}

	rows := make([]model.ChurnRow, 0, len(seeds))
	for _, s := range seeds {
		row := model.ChurnRow{
			ClientID:     types.ClientID(s.client),
			BillingStart: day,
			ChurnFlag:    true,
			Channel:      types.Channel(s.channel),
			ProductGroup: types.ProductGroup(s.product),
			TeamRollup:   types.TeamRollup(s.team),
		}
		if s.endDays >= 0 {
			d := day.AddDate(0, 0, s.endDays)
			row.AgreementEnd = &d
		}
		if s.repDays >= 0 {
			d := day.AddDate(0, 0, s.repDays)
			row.ReportingMonthStart = &d
		}
		rows = append(rows, row)
	}

	return rows
}
