package models

import (
	"encoding/json"
	"time"
)

// QualityTier grades how trustworthy a governed record's data is.
type QualityTier string

const (
	QualityExcellent QualityTier = "EXCELLENT"
	QualityGood      QualityTier = "GOOD"
	QualityFair      QualityTier = "FAIR"
	QualityPoor      QualityTier = "POOR"
	QualityNoData    QualityTier = "NO_DATA"
)

// QualityTiers lists every tier in report order.
var QualityTiers = []QualityTier{QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityNoData}

// Valid reports whether the tier is one of the known grades.
func (t QualityTier) Valid() bool {
	switch t {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityNoData:
		return true
	default:
		return false
	}
}

// RecordMetadata annotates a governed (table, record[, field]) with data
// quality information. Upserts replace the existing row for the same key.
type RecordMetadata struct {
	ID         string          `db:"id" json:"id"`
	TableName  string          `db:"table_name" json:"table"`
	RecordID   string          `db:"record_id" json:"record_id"`
	Field      *string         `db:"field" json:"field,omitempty"`
	Quality    QualityTier     `db:"quality" json:"quality"`
	Source     *string         `db:"source" json:"source,omitempty"`
	ReviewedBy *string         `db:"reviewed_by" json:"reviewed_by,omitempty"`
	Comments   *string         `db:"comments" json:"comments,omitempty"`
	Tags       json.RawMessage `db:"tags" json:"tags,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}
