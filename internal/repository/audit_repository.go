package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roadfy/roadfy-api/internal/models"
)

// AuditRepository persists change-audit entries and access log rows. Both
// tables are append-only; this repository exposes no update or delete.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertChange stores one audit entry.
func (r *AuditRepository) InsertChange(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = newID("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_changes (id, table_name, record_id, action, actor_id, actor_email, old_data, new_data, changed_field, old_value, new_value, source_ip, user_agent, created_at)
VALUES (:id, :table_name, :record_id, :action, :actor_id, :actor_email, :old_data, :new_data, :changed_field, :old_value, :new_value, :source_ip, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListChanges returns audit entries matching the filter, newest first.
func (r *AuditRepository) ListChanges(ctx context.Context, filter models.AuditTrailFilter) ([]models.AuditEntry, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Table != "" {
		where = append(where, fmt.Sprintf("table_name = $%d", len(args)+1))
		args = append(args, filter.Table)
	}
	if filter.RecordID != "" {
		where = append(where, fmt.Sprintf("record_id = $%d", len(args)+1))
		args = append(args, filter.RecordID)
	}
	if filter.ActorID != "" {
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)+1))
		args = append(args, filter.ActorID)
	}
	if filter.Action != "" {
		where = append(where, fmt.Sprintf("action = $%d", len(args)+1))
		args = append(args, filter.Action)
	}
	if filter.CreatedAfter != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedAfter)
	}
	whereClause := strings.Join(where, " AND ")

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT id, table_name, record_id, action, actor_id, actor_email, old_data, new_data, changed_field, old_value, new_value, source_ip, user_agent, created_at
FROM audit_changes WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, limit, offset)
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_changes WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}
	return entries, total, nil
}

// InsertAccess stores one access log row.
func (r *AuditRepository) InsertAccess(ctx context.Context, entry *models.AccessLogEntry) error {
	if entry.ID == "" {
		entry.ID = newID("log")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO access_logs (id, actor_id, actor_email, access_type, source_ip, user_agent, successful, error_message, created_at)
VALUES (:id, :actor_id, :actor_email, :access_type, :source_ip, :user_agent, :successful, :error_message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}
	return nil
}

// ListAccess returns access log rows matching the filter, newest first.
func (r *AuditRepository) ListAccess(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogEntry, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.ActorID != "" {
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)+1))
		args = append(args, filter.ActorID)
	}
	if filter.AccessType != "" {
		where = append(where, fmt.Sprintf("access_type = $%d", len(args)+1))
		args = append(args, filter.AccessType)
	}
	if filter.Successful != nil {
		where = append(where, fmt.Sprintf("successful = $%d", len(args)+1))
		args = append(args, *filter.Successful)
	}
	if filter.CreatedAfter != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedAfter)
	}
	whereClause := strings.Join(where, " AND ")

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT id, actor_id, actor_email, access_type, source_ip, user_agent, successful, error_message, created_at
FROM access_logs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, limit, offset)
	var entries []models.AccessLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list access logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM access_logs WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count access logs: %w", err)
	}
	return entries, total, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
