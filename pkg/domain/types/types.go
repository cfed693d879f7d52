package types

import (
	"github.com/google/uuid"
)

// ClientID represents an opaque customer identifier from the warehouse
type ClientID string

// String returns the string representation
func (id ClientID) String() string {
	return string(id)
}

// ProductGroup represents a product group category
type ProductGroup string

// String returns the string representation
func (p ProductGroup) String() string {
	return string(p)
}

// Channel represents a sales channel category
type Channel string

// String returns the string representation
func (c Channel) String() string {
	return string(c)
}

// TeamRollup represents an award agent team rollup category
type TeamRollup string

// String returns the string representation
func (t TeamRollup) String() string {
	return string(t)
}

// FilterAll is the wildcard filter option meaning "no filter applied"
const FilterAll = "All"

// CategoryColumn names one of the categorical columns available for filtering
type CategoryColumn string

const (
	ColumnProductGroup CategoryColumn = "product_group"
	ColumnChannel      CategoryColumn = "channel"
	ColumnTeamRollup   CategoryColumn = "award_agent_team_roll_up"
)

// String returns the string representation
func (c CategoryColumn) String() string {
	return string(c)
}

// IsValid checks whether the column is one of the known categorical columns
func (c CategoryColumn) IsValid() bool {
	switch c {
	case ColumnProductGroup, ColumnChannel, ColumnTeamRollup:
		return true
	}
	return false
}

// EndDateField selects which date column represents the churn reference event
type EndDateField string

const (
	// EndDateAgreement measures elapsed time to the effective agreement end date
	EndDateAgreement EndDateField = "agreement_end"
	// EndDateReporting measures elapsed time to the reporting month start date
	EndDateReporting EndDateField = "reporting_month"
)

// String returns the string representation
func (f EndDateField) String() string {
	return string(f)
}

// IsValid checks whether the field is one of the two supported date columns
func (f EndDateField) IsValid() bool {
	return f == EndDateAgreement || f == EndDateReporting
}

// RunID represents an analysis run identifier
type RunID string

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// NewRunID creates a new RunID using UUID v7 (time-ordered)
func NewRunID() (RunID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return RunID(id.String()), nil
}

// RunStatus represents the lifecycle state of an analysis run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
)

// String returns the string representation
func (s RunStatus) String() string {
	return string(s)
}
