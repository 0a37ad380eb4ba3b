package models

import (
	"encoding/json"
	"time"
)

// GovernanceReport is a named, persisted aggregation artifact. Reports are
// written once and never mutated.
type GovernanceReport struct {
	ID               string          `db:"id" json:"id"`
	ReportType       string          `db:"report_type" json:"report_type"`
	Title            string          `db:"title" json:"title"`
	Description      *string         `db:"description" json:"description,omitempty"`
	ReportData       json.RawMessage `db:"report_data" json:"report_data,omitempty"`
	GeneratedBy      *string         `db:"generated_by" json:"generated_by,omitempty"`
	GeneratedByEmail *string         `db:"generated_by_email" json:"generated_by_email,omitempty"`
	PeriodStart      *time.Time      `db:"period_start" json:"period_start,omitempty"`
	PeriodEnd        *time.Time      `db:"period_end" json:"period_end,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
