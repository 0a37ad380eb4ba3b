package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/models"
)

// AuditStore abstracts persistence for audit and access log entries.
type AuditStore interface {
	InsertChange(ctx context.Context, entry *models.AuditEntry) error
	ListChanges(ctx context.Context, filter models.AuditTrailFilter) ([]models.AuditEntry, int, error)
	InsertAccess(ctx context.Context, entry *models.AccessLogEntry) error
	ListAccess(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogEntry, int, error)
}

// ChangeInput describes one governed mutation to record.
type ChangeInput struct {
	Table        string
	RecordID     string
	Action       string
	OldSnapshot  interface{}
	NewSnapshot  interface{}
	ChangedField *string
	OldValue     *string
	NewValue     *string
}

// AuditService is the fail-soft boundary around the audit log. Write methods
// return false instead of an error: auditing is a secondary concern triggered
// after the caller's primary write, and must never fail that operation.
type AuditService struct {
	store   AuditStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService constructs an audit service.
func NewAuditService(store AuditStore, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: store, metrics: metrics, logger: logger}
}

// RecordChange persists one audit entry. Returns false on any failure.
func (s *AuditService) RecordChange(ctx context.Context, reqCtx models.RequestContext, actor models.Actor, input ChangeInput) bool {
	entry := &models.AuditEntry{
		TableName:    input.Table,
		RecordID:     input.RecordID,
		Action:       input.Action,
		ActorID:      optionalString(actor.ID),
		ActorEmail:   optionalString(actor.Email),
		ChangedField: input.ChangedField,
		OldValue:     input.OldValue,
		NewValue:     input.NewValue,
		SourceIP:     optionalString(reqCtx.SourceIP),
		UserAgent:    optionalString(reqCtx.UserAgent),
	}

	var ok bool
	entry.OldData, ok = marshalSnapshot(input.OldSnapshot, s.logger, "old snapshot")
	if !ok {
		return false
	}
	entry.NewData, ok = marshalSnapshot(input.NewSnapshot, s.logger, "new snapshot")
	if !ok {
		return false
	}

	if err := s.store.InsertChange(ctx, entry); err != nil {
		s.logger.Warn("audit write dropped",
			zap.String("table", input.Table),
			zap.String("record_id", input.RecordID),
			zap.String("action", input.Action),
			zap.Error(err))
		s.metrics.RecordDroppedEvent("audit_change")
		return false
	}
	return true
}

// QueryTrail lists audit entries. On store failure the second return is an
// empty page and ok is false; callers render that as "no data", not an error.
func (s *AuditService) QueryTrail(ctx context.Context, filter models.AuditTrailFilter) ([]models.AuditEntry, int, bool) {
	entries, total, err := s.store.ListChanges(ctx, filter)
	if err != nil {
		s.logger.Warn("audit trail query failed", zap.Error(err))
		return []models.AuditEntry{}, 0, false
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return entries, total, true
}

// RecordAccess persists one access log entry. Returns false on any failure.
func (s *AuditService) RecordAccess(ctx context.Context, reqCtx models.RequestContext, actor models.Actor, accessType string, successful bool, errorMessage *string) bool {
	entry := &models.AccessLogEntry{
		ActorID:      optionalString(actor.ID),
		ActorEmail:   optionalString(actor.Email),
		AccessType:   accessType,
		SourceIP:     optionalString(reqCtx.SourceIP),
		UserAgent:    optionalString(reqCtx.UserAgent),
		Successful:   successful,
		ErrorMessage: errorMessage,
	}
	if err := s.store.InsertAccess(ctx, entry); err != nil {
		s.logger.Warn("access log write dropped",
			zap.String("access_type", accessType),
			zap.Error(err))
		s.metrics.RecordDroppedEvent("access_log")
		return false
	}
	return true
}

// QueryAccessLog lists access log entries with the same degrade contract as
// QueryTrail.
func (s *AuditService) QueryAccessLog(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogEntry, int, bool) {
	entries, total, err := s.store.ListAccess(ctx, filter)
	if err != nil {
		s.logger.Warn("access log query failed", zap.Error(err))
		return []models.AccessLogEntry{}, 0, false
	}
	if entries == nil {
		entries = []models.AccessLogEntry{}
	}
	return entries, total, true
}

func marshalSnapshot(v interface{}, logger *zap.Logger, label string) (json.RawMessage, bool) {
	if v == nil {
		return nil, true
	}
	if raw, isRaw := v.(json.RawMessage); isRaw {
		return raw, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("snapshot serialization failed", zap.String("snapshot", label), zap.Error(err))
		return nil, false
	}
	return data, true
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// nowUTC exists so services share one clock convention.
func nowUTC() time.Time {
	return time.Now().UTC()
}
