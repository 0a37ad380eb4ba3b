package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/models"
)

// VersionStore abstracts persistence for record snapshots.
type VersionStore interface {
	Create(ctx context.Context, record *models.VersionRecord) error
	List(ctx context.Context, tableName, recordID string, limit int) ([]models.VersionRecord, error)
	Get(ctx context.Context, tableName, recordID string, version int) (*models.VersionRecord, error)
	Latest(ctx context.Context, tableName, recordID string) (*models.VersionRecord, error)
}

// VersionService wraps the version store with the fail-soft contract: writes
// report success as a boolean, reads degrade to empty results.
type VersionService struct {
	store   VersionStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewVersionService constructs a version service.
func NewVersionService(store VersionStore, metrics *MetricsService, logger *zap.Logger) *VersionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VersionService{store: store, metrics: metrics, logger: logger}
}

// CreateVersion snapshots a record under the next version number. Returns
// false on any failure, including an unserializable snapshot.
func (s *VersionService) CreateVersion(ctx context.Context, table, recordID string, snapshot interface{}, actor models.Actor, changeReason *string) bool {
	raw, ok := marshalSnapshot(snapshot, s.logger, "version snapshot")
	if !ok {
		return false
	}
	if raw == nil {
		s.logger.Warn("version snapshot missing", zap.String("table", table), zap.String("record_id", recordID))
		return false
	}
	record := &models.VersionRecord{
		TableName:    table,
		RecordID:     recordID,
		Snapshot:     raw,
		ActorID:      optionalString(actor.ID),
		ActorEmail:   optionalString(actor.Email),
		ChangeReason: changeReason,
	}
	if err := s.store.Create(ctx, record); err != nil {
		s.logger.Warn("version write dropped",
			zap.String("table", table),
			zap.String("record_id", recordID),
			zap.Error(err))
		s.metrics.RecordDroppedEvent("record_version")
		return false
	}
	return true
}

// ListVersions returns snapshots for a record, most recent first. ok is false
// only when the store failed; an empty history is ok=true.
func (s *VersionService) ListVersions(ctx context.Context, table, recordID string, limit int) ([]models.VersionRecord, bool) {
	records, err := s.store.List(ctx, table, recordID, limit)
	if err != nil {
		s.logger.Warn("version list failed",
			zap.String("table", table),
			zap.String("record_id", recordID),
			zap.Error(err))
		return []models.VersionRecord{}, false
	}
	if records == nil {
		records = []models.VersionRecord{}
	}
	for i := range records {
		records[i].Snapshot = normalizeSnapshot(records[i].Snapshot)
	}
	return records, true
}

// GetVersion fetches one exact version. A nil record with ok=true means the
// version does not exist; ok=false means the store failed.
func (s *VersionService) GetVersion(ctx context.Context, table, recordID string, version int) (*models.VersionRecord, bool) {
	record, err := s.store.Get(ctx, table, recordID, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, true
		}
		s.logger.Warn("version lookup failed",
			zap.String("table", table),
			zap.String("record_id", recordID),
			zap.Int("version", version),
			zap.Error(err))
		return nil, false
	}
	record.Snapshot = normalizeSnapshot(record.Snapshot)
	return record, true
}

// GetLatest fetches the newest version with the same contract as GetVersion.
func (s *VersionService) GetLatest(ctx context.Context, table, recordID string) (*models.VersionRecord, bool) {
	record, err := s.store.Latest(ctx, table, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, true
		}
		s.logger.Warn("latest version lookup failed",
			zap.String("table", table),
			zap.String("record_id", recordID),
			zap.Error(err))
		return nil, false
	}
	record.Snapshot = normalizeSnapshot(record.Snapshot)
	return record, true
}

// normalizeSnapshot keeps stored blobs usable even when a legacy row holds a
// non-JSON payload: invalid bytes are re-wrapped as a JSON string rather than
// dropped.
func normalizeSnapshot(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	if json.Valid(raw) {
		return raw
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return raw
	}
	return quoted
}
