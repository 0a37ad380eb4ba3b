package dto

import (
	"encoding/json"
	"time"
)

// InteractionRequest is the public telemetry payload.
type InteractionRequest struct {
	InteractionType string          `json:"interaction_type" validate:"required"`
	EntityType      string          `json:"entity_type" validate:"required"`
	EntityID        string          `json:"entity_id"`
	Metadata        json.RawMessage `json:"metadata"`
}

// InteractionResponse is always success-shaped; Logged reports whether the
// event was actually stored.
type InteractionResponse struct {
	Logged bool   `json:"logged"`
	Note   string `json:"note,omitempty"`
}

// MetadataRequest upserts a data-quality annotation.
type MetadataRequest struct {
	Field    *string         `json:"field"`
	Quality  string          `json:"quality" validate:"required"`
	Source   *string         `json:"source"`
	Comments *string         `json:"comments"`
	Tags     json.RawMessage `json:"tags"`
}

// ReportRequest persists a named governance report.
type ReportRequest struct {
	ReportType  string          `json:"report_type" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Description *string         `json:"description"`
	ReportData  json.RawMessage `json:"report_data"`
	PeriodStart *time.Time      `json:"period_start"`
	PeriodEnd   *time.Time      `json:"period_end"`
}

// ReportResponse acknowledges a persisted report.
type ReportResponse struct {
	ID string `json:"id"`
}
