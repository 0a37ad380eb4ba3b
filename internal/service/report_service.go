package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
)

// ReportStore abstracts report persistence and the aggregate queries behind
// the governance summaries.
type ReportStore interface {
	InsertReport(ctx context.Context, report *models.GovernanceReport) error
	GetReport(ctx context.Context, id string) (*models.GovernanceReport, error)
	CountChangesByAction(ctx context.Context, since time.Time) ([]dto.ActionCount, error)
	TopChangedTables(ctx context.Context, since time.Time, limit int) ([]dto.TableCount, error)
	TopChangeActors(ctx context.Context, since time.Time, limit int) ([]dto.ActorCount, error)
	CountAccessByType(ctx context.Context, since time.Time) ([]dto.AccessTypeCount, error)
	CountFailedAccess(ctx context.Context, since time.Time) (int, error)
	TopAccessActors(ctx context.Context, since time.Time, limit int) ([]dto.ActorCount, error)
}

// ReportInput describes one governance report to persist.
type ReportInput struct {
	ReportType  string
	Title       string
	Description *string
	ReportData  json.RawMessage
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// ReportService computes trailing-window governance summaries and persists
// report artifacts. Summaries are cached briefly since dashboards poll them.
type ReportService struct {
	store    ReportStore
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewReportService constructs a report service.
func NewReportService(store ReportStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: store, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// AuditSummary aggregates audit activity over the trailing window. Always
// returns a populated structure; on store failure everything is empty.
func (s *ReportService) AuditSummary(ctx context.Context, windowDays int) dto.AuditSummary {
	if windowDays <= 0 {
		windowDays = 30
	}
	end := nowUTC()
	start := end.AddDate(0, 0, -windowDays)
	summary := dto.AuditSummary{
		WindowDays:  windowDays,
		PeriodStart: start,
		PeriodEnd:   end,
		Actions:     []dto.ActionCount{},
		TopTables:   []dto.TableCount{},
		TopActors:   []dto.ActorCount{},
	}

	cacheKey := fmt.Sprintf("governance:audit-summary:%d", windowDays)
	var cached dto.AuditSummary
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached
		}
	}

	queryStart := time.Now()
	actions, err := s.store.CountChangesByAction(ctx, start)
	if err != nil {
		s.logger.Warn("audit summary failed", zap.Error(err))
		return summary
	}
	topTables, err := s.store.TopChangedTables(ctx, start, 10)
	if err != nil {
		s.logger.Warn("audit summary failed", zap.Error(err))
		return summary
	}
	topActors, err := s.store.TopChangeActors(ctx, start, 10)
	if err != nil {
		s.logger.Warn("audit summary failed", zap.Error(err))
		return summary
	}
	s.metrics.ObserveDBQuery("audit_summary", time.Since(queryStart))

	if actions != nil {
		summary.Actions = actions
	}
	if topTables != nil {
		summary.TopTables = topTables
	}
	if topActors != nil {
		summary.TopActors = topActors
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, summary, s.cacheTTL)
	}
	return summary
}

// AccessSummary aggregates authentication activity over the trailing window
// with the same degrade contract as AuditSummary.
func (s *ReportService) AccessSummary(ctx context.Context, windowDays int) dto.AccessSummary {
	if windowDays <= 0 {
		windowDays = 30
	}
	end := nowUTC()
	start := end.AddDate(0, 0, -windowDays)
	summary := dto.AccessSummary{
		WindowDays:  windowDays,
		PeriodStart: start,
		PeriodEnd:   end,
		AccessTypes: []dto.AccessTypeCount{},
		TopActors:   []dto.ActorCount{},
	}

	cacheKey := fmt.Sprintf("governance:access-summary:%d", windowDays)
	var cached dto.AccessSummary
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached
		}
	}

	queryStart := time.Now()
	accessTypes, err := s.store.CountAccessByType(ctx, start)
	if err != nil {
		s.logger.Warn("access summary failed", zap.Error(err))
		return summary
	}
	failed, err := s.store.CountFailedAccess(ctx, start)
	if err != nil {
		s.logger.Warn("access summary failed", zap.Error(err))
		return summary
	}
	topActors, err := s.store.TopAccessActors(ctx, start, 10)
	if err != nil {
		s.logger.Warn("access summary failed", zap.Error(err))
		return summary
	}
	s.metrics.ObserveDBQuery("access_summary", time.Since(queryStart))

	if accessTypes != nil {
		summary.AccessTypes = accessTypes
	}
	summary.FailedAttempts = failed
	if topActors != nil {
		summary.TopActors = topActors
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, summary, s.cacheTTL)
	}
	return summary
}

// GenerateReport persists a governance report with caller-supplied data.
// Returns the new report id, or empty string on failure (fail-soft).
func (s *ReportService) GenerateReport(ctx context.Context, actor models.Actor, input ReportInput) string {
	report := &models.GovernanceReport{
		ReportType:       input.ReportType,
		Title:            input.Title,
		Description:      input.Description,
		ReportData:       input.ReportData,
		GeneratedBy:      optionalString(actor.ID),
		GeneratedByEmail: optionalString(actor.Email),
		PeriodStart:      input.PeriodStart,
		PeriodEnd:        input.PeriodEnd,
	}
	if err := s.store.InsertReport(ctx, report); err != nil {
		s.logger.Warn("report write dropped",
			zap.String("report_type", input.ReportType),
			zap.Error(err))
		s.metrics.RecordDroppedEvent("governance_report")
		return ""
	}
	return report.ID
}

// GetReport loads one persisted report. ok=false signals a store failure;
// a missing id returns (nil, true).
func (s *ReportService) GetReport(ctx context.Context, id string) (*models.GovernanceReport, bool) {
	report, err := s.store.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, true
		}
		s.logger.Warn("report read failed",
			zap.String("report_id", id),
			zap.Error(err))
		return nil, false
	}
	return report, true
}
