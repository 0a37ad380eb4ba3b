package models

import (
	"encoding/json"
	"time"
)

// VersionRecord is a full snapshot of a governed record at one version. For a
// given (table, record) key the version numbers form a gap-free sequence
// starting at 1.
type VersionRecord struct {
	ID           string          `db:"id" json:"id"`
	TableName    string          `db:"table_name" json:"table"`
	RecordID     string          `db:"record_id" json:"record_id"`
	Version      int             `db:"version" json:"version"`
	Snapshot     json.RawMessage `db:"snapshot" json:"snapshot"`
	ActorID      *string         `db:"actor_id" json:"actor_id,omitempty"`
	ActorEmail   *string         `db:"actor_email" json:"actor_email,omitempty"`
	ChangeReason *string         `db:"change_reason" json:"change_reason,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
