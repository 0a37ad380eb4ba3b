package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
)

// MetadataStore abstracts data-quality annotation persistence.
type MetadataStore interface {
	Upsert(ctx context.Context, meta *models.RecordMetadata) error
	Get(ctx context.Context, tableName, recordID string, field *string) (*models.RecordMetadata, error)
	TierCounts(ctx context.Context, tableName string) ([]dto.TierCount, error)
}

// MetadataInput describes one quality annotation.
type MetadataInput struct {
	Table    string
	RecordID string
	Field    *string
	Quality  models.QualityTier
	Source   *string
	Comments *string
	Tags     json.RawMessage
}

// MetadataService wraps quality annotations with the fail-soft contract.
type MetadataService struct {
	store   MetadataStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMetadataService constructs a metadata service.
func NewMetadataService(store MetadataStore, metrics *MetricsService, logger *zap.Logger) *MetadataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataService{store: store, metrics: metrics, logger: logger}
}

// UpsertMetadata writes or replaces the annotation for a key. Returns false
// on invalid tier or store failure.
func (s *MetadataService) UpsertMetadata(ctx context.Context, actor models.Actor, input MetadataInput) bool {
	if !input.Quality.Valid() {
		s.logger.Warn("metadata upsert rejected",
			zap.String("table", input.Table),
			zap.String("quality", string(input.Quality)))
		return false
	}
	meta := &models.RecordMetadata{
		TableName:  input.Table,
		RecordID:   input.RecordID,
		Field:      input.Field,
		Quality:    input.Quality,
		Source:     input.Source,
		ReviewedBy: optionalString(actor.ID),
		Comments:   input.Comments,
		Tags:       input.Tags,
	}
	if err := s.store.Upsert(ctx, meta); err != nil {
		s.logger.Warn("metadata upsert dropped",
			zap.String("table", input.Table),
			zap.String("record_id", input.RecordID),
			zap.Error(err))
		s.metrics.RecordDroppedEvent("record_metadata")
		return false
	}
	return true
}

// GetMetadata fetches one annotation. nil with ok=true means no annotation
// exists; ok=false means the store failed.
func (s *MetadataService) GetMetadata(ctx context.Context, table, recordID string, field *string) (*models.RecordMetadata, bool) {
	meta, err := s.store.Get(ctx, table, recordID, field)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, true
		}
		s.logger.Warn("metadata lookup failed",
			zap.String("table", table),
			zap.String("record_id", recordID),
			zap.Error(err))
		return nil, false
	}
	return meta, true
}

// QualityReport summarizes tier distribution, optionally scoped to one table.
// Always returns a populated structure; store failure yields all-zero counts.
func (s *MetadataService) QualityReport(ctx context.Context, table string) dto.QualityReport {
	report := dto.QualityReport{
		Table:  table,
		Counts: map[string]int{},
	}
	for _, tier := range models.QualityTiers {
		report.Counts[string(tier)] = 0
	}

	counts, err := s.store.TierCounts(ctx, table)
	if err != nil {
		s.logger.Warn("quality report failed", zap.String("table", table), zap.Error(err))
		return report
	}
	for _, tc := range counts {
		report.Counts[tc.Quality] = tc.Count
		report.Total += tc.Count
	}
	if report.Total > 0 {
		report.ExcellentPct = pct(report.Counts[string(models.QualityExcellent)], report.Total)
		report.GoodPct = pct(report.Counts[string(models.QualityGood)], report.Total)
	}
	return report
}

func pct(part, total int) float64 {
	return float64(part) * 100 / float64(total)
}
