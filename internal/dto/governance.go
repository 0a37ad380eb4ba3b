package dto

import "time"

// ActionCount pairs an audit action with its occurrence count.
type ActionCount struct {
	Action string `db:"action" json:"action"`
	Count  int    `db:"count" json:"count"`
}

// TableCount pairs a governed table with its change count.
type TableCount struct {
	Table string `db:"table_name" json:"table"`
	Count int    `db:"count" json:"count"`
}

// ActorCount pairs an actor with an activity count.
type ActorCount struct {
	ActorID    string  `db:"actor_id" json:"actor_id"`
	ActorEmail *string `db:"actor_email" json:"actor_email,omitempty"`
	Count      int     `db:"count" json:"count"`
}

// TypeCount pairs an interaction type with its count.
type TypeCount struct {
	Type  string `db:"interaction_type" json:"type"`
	Count int    `db:"count" json:"count"`
}

// EntityTypeCount pairs an entity type with its count.
type EntityTypeCount struct {
	EntityType string `db:"entity_type" json:"entity_type"`
	Count      int    `db:"count" json:"count"`
}

// EntityCount ranks a single entity by interaction volume.
type EntityCount struct {
	EntityID string `db:"entity_id" json:"entity_id"`
	Count    int    `db:"count" json:"count"`
}

// DeviceCount pairs a device class with its count.
type DeviceCount struct {
	DeviceClass string `db:"device_class" json:"device_class"`
	Count       int    `db:"count" json:"count"`
}

// AccessTypeCount pairs an access type with its count.
type AccessTypeCount struct {
	AccessType string `db:"access_type" json:"access_type"`
	Count      int    `db:"count" json:"count"`
}

// AuditSummary aggregates audit activity over a trailing window. A zero-count
// summary with empty slices is the degraded shape returned on store failure.
type AuditSummary struct {
	WindowDays  int           `json:"period_days"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	Actions     []ActionCount `json:"actions"`
	TopTables   []TableCount  `json:"top_tables"`
	TopActors   []ActorCount  `json:"top_actors"`
}

// AccessSummary aggregates authentication activity over a trailing window.
type AccessSummary struct {
	WindowDays     int               `json:"period_days"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
	AccessTypes    []AccessTypeCount `json:"access_types"`
	FailedAttempts int               `json:"failed_attempts"`
	TopActors      []ActorCount      `json:"top_actors"`
}

// InteractionSummary aggregates telemetry over a trailing window.
type InteractionSummary struct {
	WindowDays    int               `json:"period_days"`
	PeriodStart   time.Time         `json:"period_start"`
	PeriodEnd     time.Time         `json:"period_end"`
	ByType        []TypeCount       `json:"by_type"`
	ByEntity      []EntityTypeCount `json:"by_entity"`
	TopTires      []EntityCount     `json:"top_tires"`
	TopBusinesses []EntityCount     `json:"top_businesses"`
	ByDevice      []DeviceCount     `json:"by_device"`
	SearchCount   int               `json:"search_count"`
	CompareCount  int               `json:"compare_count"`
}

// QualityReport summarizes data-quality tier distribution, optionally scoped
// to one governed table.
type QualityReport struct {
	Table        string         `json:"table,omitempty"`
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total"`
	ExcellentPct float64        `json:"excellent_pct"`
	GoodPct      float64        `json:"good_pct"`
}

// TierCount is the raw grouping row behind QualityReport.
type TierCount struct {
	Quality string `db:"quality"`
	Count   int    `db:"count"`
}

// ExportRequest asks for an asynchronous trail export.
type ExportRequest struct {
	Source     string `json:"source" validate:"required"`
	Format     string `json:"format" validate:"required"`
	WindowDays int    `json:"window_days"`
}

// ExportJobResponse acknowledges a queued export.
type ExportJobResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// ExportStatusResponse reports job progress and the signed download URL once
// the artifact is ready.
type ExportStatusResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Progress  int     `json:"progress"`
	ResultURL *string `json:"result_url,omitempty"`
	Error     *string `json:"error,omitempty"`
}
