package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/pkg/database"
)

// InteractionStore abstracts telemetry persistence and aggregation.
type InteractionStore interface {
	Insert(ctx context.Context, event *models.InteractionEvent) error
	List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionEvent, int, error)
	CountByType(ctx context.Context, since time.Time) ([]dto.TypeCount, error)
	CountByEntityType(ctx context.Context, since time.Time) ([]dto.EntityTypeCount, error)
	TopEntities(ctx context.Context, entityType string, since time.Time, limit int) ([]dto.EntityCount, error)
	CountByDevice(ctx context.Context, since time.Time) ([]dto.DeviceCount, error)
	CountOfType(ctx context.Context, interactionType string, since time.Time) (int, error)
}

// InteractionInput describes one telemetry event to log.
type InteractionInput struct {
	InteractionType string
	EntityType      string
	EntityID        string
	Metadata        json.RawMessage
}

// InteractionService is deliberately degradable telemetry. The backing table
// may not exist in every deployment; once that condition is observed the
// service stops hitting the store entirely and answers with empty shapes.
type InteractionService struct {
	store         InteractionStore
	metrics       *MetricsService
	logger        *zap.Logger
	enabled       bool
	schemaMissing atomic.Bool
	missingOnce   sync.Once
}

// NewInteractionService constructs an interaction service.
func NewInteractionService(store InteractionStore, metrics *MetricsService, logger *zap.Logger, enabled bool) *InteractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InteractionService{store: store, metrics: metrics, logger: logger, enabled: enabled}
}

// ClassifyDevice derives a coarse device class from a User-Agent string.
func ClassifyDevice(userAgent string) models.DeviceClass {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return models.DeviceMobile
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return models.DeviceTablet
	case ua != "":
		return models.DeviceDesktop
	default:
		return models.DeviceUnknown
	}
}

// LogInteraction persists one event. Returns false when telemetry is
// unavailable for any reason; the caller's request must treat that as
// harmless.
func (s *InteractionService) LogInteraction(ctx context.Context, reqCtx models.RequestContext, actor models.Actor, input InteractionInput) bool {
	if !s.enabled || s.schemaMissing.Load() {
		return false
	}
	event := &models.InteractionEvent{
		InteractionType: input.InteractionType,
		EntityType:      input.EntityType,
		EntityID:        input.EntityID,
		ActorID:         optionalString(actor.ID),
		ActorEmail:      optionalString(actor.Email),
		Metadata:        input.Metadata,
		SourceIP:        optionalString(reqCtx.SourceIP),
		UserAgent:       optionalString(reqCtx.UserAgent),
		DeviceClass:     ClassifyDevice(reqCtx.UserAgent),
	}
	if err := s.store.Insert(ctx, event); err != nil {
		s.noteFailure(err, "interaction write dropped")
		s.metrics.RecordDroppedEvent("interaction")
		return false
	}
	return true
}

// Summarize aggregates the trailing window. Every field is populated; on any
// store failure the corresponding slice stays empty and counts stay zero so
// dashboards render "no data yet" rather than an error.
func (s *InteractionService) Summarize(ctx context.Context, windowDays int) dto.InteractionSummary {
	if windowDays <= 0 {
		windowDays = 30
	}
	end := nowUTC()
	start := end.AddDate(0, 0, -windowDays)
	summary := dto.InteractionSummary{
		WindowDays:    windowDays,
		PeriodStart:   start,
		PeriodEnd:     end,
		ByType:        []dto.TypeCount{},
		ByEntity:      []dto.EntityTypeCount{},
		TopTires:      []dto.EntityCount{},
		TopBusinesses: []dto.EntityCount{},
		ByDevice:      []dto.DeviceCount{},
	}
	empty := summary
	if !s.enabled || s.schemaMissing.Load() {
		return empty
	}

	byType, err := s.store.CountByType(ctx, start)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}
	byEntity, err := s.store.CountByEntityType(ctx, start)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}
	topTires, err := s.store.TopEntities(ctx, models.EntityTire, start, 10)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}
	topBusinesses, err := s.store.TopEntities(ctx, models.EntityBusiness, start, 10)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}
	byDevice, err := s.store.CountByDevice(ctx, start)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}
	searches, err := s.store.CountOfType(ctx, models.InteractionSearch, start)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}
	compares, err := s.store.CountOfType(ctx, models.InteractionCompare, start)
	if err != nil {
		s.noteFailure(err, "interaction summary failed")
		return empty
	}

	if byType != nil {
		summary.ByType = byType
	}
	if byEntity != nil {
		summary.ByEntity = byEntity
	}
	if topTires != nil {
		summary.TopTires = topTires
	}
	if topBusinesses != nil {
		summary.TopBusinesses = topBusinesses
	}
	if byDevice != nil {
		summary.ByDevice = byDevice
	}
	summary.SearchCount = searches
	summary.CompareCount = compares
	return summary
}

// QueryInteractions lists events matching the filter. Degrades to an empty
// page on failure.
func (s *InteractionService) QueryInteractions(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionEvent, int, bool) {
	if !s.enabled || s.schemaMissing.Load() {
		return []models.InteractionEvent{}, 0, false
	}
	events, total, err := s.store.List(ctx, filter)
	if err != nil {
		s.noteFailure(err, "interaction query failed")
		return []models.InteractionEvent{}, 0, false
	}
	if events == nil {
		events = []models.InteractionEvent{}
	}
	return events, total, true
}

// noteFailure logs a store failure; a missing table latches the service into
// degraded mode so later calls skip the round trip.
func (s *InteractionService) noteFailure(err error, msg string) {
	if database.IsSchemaMissing(err) {
		s.schemaMissing.Store(true)
		s.missingOnce.Do(func() {
			s.logger.Warn("interaction table absent, telemetry disabled", zap.Error(err))
		})
		return
	}
	s.logger.Warn(msg, zap.Error(err))
}
