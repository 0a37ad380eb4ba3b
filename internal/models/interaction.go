package models

import (
	"encoding/json"
	"time"
)

// DeviceClass is a coarse device category inferred from the User-Agent.
type DeviceClass string

const (
	DeviceMobile  DeviceClass = "MOBILE"
	DeviceTablet  DeviceClass = "TABLET"
	DeviceDesktop DeviceClass = "DESKTOP"
	DeviceUnknown DeviceClass = "UNKNOWN"
)

// Well-known interaction types. The column is free-form; callers may send
// additional values.
const (
	InteractionClick   = "CLICK"
	InteractionView    = "VIEW"
	InteractionSearch  = "SEARCH"
	InteractionCompare = "COMPARE"
)

// Well-known entity types for interaction events.
const (
	EntityTire     = "TIRE"
	EntityBusiness = "BUSINESS"
	EntityPage     = "PAGE"
)

// InteractionEvent is one best-effort telemetry record. Persistence is
// advisory only; a failed write never reaches the caller as an error.
type InteractionEvent struct {
	ID              string          `db:"id" json:"id"`
	InteractionType string          `db:"interaction_type" json:"interaction_type"`
	EntityType      string          `db:"entity_type" json:"entity_type"`
	EntityID        string          `db:"entity_id" json:"entity_id"`
	ActorID         *string         `db:"actor_id" json:"actor_id,omitempty"`
	ActorEmail      *string         `db:"actor_email" json:"actor_email,omitempty"`
	Metadata        json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	SourceIP        *string         `db:"source_ip" json:"source_ip,omitempty"`
	UserAgent       *string         `db:"user_agent" json:"user_agent,omitempty"`
	DeviceClass     DeviceClass     `db:"device_class" json:"device_class"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// InteractionFilter narrows interaction listings.
type InteractionFilter struct {
	EntityType      string
	EntityID        string
	InteractionType string
	ActorID         string
	CreatedAfter    *time.Time
	Limit           int
	Offset          int
}
