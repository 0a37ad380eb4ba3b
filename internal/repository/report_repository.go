package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
)

// ReportRepository persists governance reports and runs the aggregate queries
// behind the audit and access summaries.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// InsertReport stores one governance report.
func (r *ReportRepository) InsertReport(ctx context.Context, report *models.GovernanceReport) error {
	if report.ID == "" {
		report.ID = newID("rpt")
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO governance_reports (id, report_type, title, description, report_data, generated_by, generated_by_email, period_start, period_end, created_at)
VALUES (:id, :report_type, :title, :description, :report_data, :generated_by, :generated_by_email, :period_start, :period_end, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("insert governance report: %w", err)
	}
	return nil
}

// GetReport fetches one report by id. sql.ErrNoRows passes through.
func (r *ReportRepository) GetReport(ctx context.Context, id string) (*models.GovernanceReport, error) {
	const query = `SELECT id, report_type, title, description, report_data, generated_by, generated_by_email, period_start, period_end, created_at
FROM governance_reports WHERE id = $1`
	var report models.GovernanceReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// CountChangesByAction groups audit entries since the cutoff by action.
func (r *ReportRepository) CountChangesByAction(ctx context.Context, since time.Time) ([]dto.ActionCount, error) {
	const query = `SELECT action, COUNT(*) AS count FROM audit_changes
WHERE created_at >= $1 GROUP BY action ORDER BY count DESC`
	var counts []dto.ActionCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("count changes by action: %w", err)
	}
	return counts, nil
}

// TopChangedTables ranks governed tables by change volume since the cutoff.
func (r *ReportRepository) TopChangedTables(ctx context.Context, since time.Time, limit int) ([]dto.TableCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT table_name, COUNT(*) AS count FROM audit_changes
WHERE created_at >= $1 GROUP BY table_name ORDER BY count DESC LIMIT %d`, limit)
	var counts []dto.TableCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("top changed tables: %w", err)
	}
	return counts, nil
}

// TopChangeActors ranks actors by change volume since the cutoff. Anonymous
// changes (NULL actor) are excluded.
func (r *ReportRepository) TopChangeActors(ctx context.Context, since time.Time, limit int) ([]dto.ActorCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT actor_id, MAX(actor_email) AS actor_email, COUNT(*) AS count FROM audit_changes
WHERE created_at >= $1 AND actor_id IS NOT NULL GROUP BY actor_id ORDER BY count DESC LIMIT %d`, limit)
	var counts []dto.ActorCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("top change actors: %w", err)
	}
	return counts, nil
}

// CountAccessByType groups access log rows since the cutoff by access type.
func (r *ReportRepository) CountAccessByType(ctx context.Context, since time.Time) ([]dto.AccessTypeCount, error) {
	const query = `SELECT access_type, COUNT(*) AS count FROM access_logs
WHERE created_at >= $1 GROUP BY access_type ORDER BY count DESC`
	var counts []dto.AccessTypeCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("count access by type: %w", err)
	}
	return counts, nil
}

// CountFailedAccess returns the number of unsuccessful attempts since the
// cutoff.
func (r *ReportRepository) CountFailedAccess(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM access_logs WHERE created_at >= $1 AND successful = false`
	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("count failed access: %w", err)
	}
	return count, nil
}

// TopAccessActors ranks actors by authentication attempt volume since the
// cutoff.
func (r *ReportRepository) TopAccessActors(ctx context.Context, since time.Time, limit int) ([]dto.ActorCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT actor_id, MAX(actor_email) AS actor_email, COUNT(*) AS count FROM access_logs
WHERE created_at >= $1 AND actor_id IS NOT NULL GROUP BY actor_id ORDER BY count DESC LIMIT %d`, limit)
	var counts []dto.ActorCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("top access actors: %w", err)
	}
	return counts, nil
}
