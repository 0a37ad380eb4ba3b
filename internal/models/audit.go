package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants represent governed mutation kinds.
const (
	AuditActionInsert = "INSERT"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AccessType constants cover authentication events.
const (
	AccessTypeLogin       = "LOGIN"
	AccessTypeLoginFailed = "LOGIN_FAILED"
	AccessTypeLogout      = "LOGOUT"
)

// AuditEntry records a single governed mutation with before/after snapshots.
// Entries are append-only; nothing in the system updates or deletes them.
type AuditEntry struct {
	ID           string          `db:"id" json:"id"`
	TableName    string          `db:"table_name" json:"table"`
	RecordID     string          `db:"record_id" json:"record_id"`
	Action       string          `db:"action" json:"action"`
	ActorID      *string         `db:"actor_id" json:"actor_id,omitempty"`
	ActorEmail   *string         `db:"actor_email" json:"actor_email,omitempty"`
	OldData      json.RawMessage `db:"old_data" json:"old_data,omitempty"`
	NewData      json.RawMessage `db:"new_data" json:"new_data,omitempty"`
	ChangedField *string         `db:"changed_field" json:"changed_field,omitempty"`
	OldValue     *string         `db:"old_value" json:"old_value,omitempty"`
	NewValue     *string         `db:"new_value" json:"new_value,omitempty"`
	SourceIP     *string         `db:"source_ip" json:"source_ip,omitempty"`
	UserAgent    *string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// AccessLogEntry records one authentication attempt.
type AccessLogEntry struct {
	ID           string    `db:"id" json:"id"`
	ActorID      *string   `db:"actor_id" json:"actor_id,omitempty"`
	ActorEmail   *string   `db:"actor_email" json:"actor_email,omitempty"`
	AccessType   string    `db:"access_type" json:"access_type"`
	SourceIP     *string   `db:"source_ip" json:"source_ip,omitempty"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	Successful   bool      `db:"successful" json:"successful"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AuditTrailFilter narrows audit trail listings. All fields are optional and
// combine conjunctively.
type AuditTrailFilter struct {
	Table        string
	RecordID     string
	ActorID      string
	Action       string
	CreatedAfter *time.Time
	Limit        int
	Offset       int
}

// AccessLogFilter narrows access log listings.
type AccessLogFilter struct {
	ActorID      string
	AccessType   string
	Successful   *bool
	CreatedAfter *time.Time
	Limit        int
	Offset       int
}
