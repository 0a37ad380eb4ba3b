package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
)

// InteractionRepository persists anonymous behavior telemetry. The backing
// table may legitimately not exist in a deployment; callers detect that with
// database.IsSchemaMissing and degrade instead of failing the request.
type InteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository constructs the repository.
func NewInteractionRepository(db *sqlx.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Insert stores one interaction event.
func (r *InteractionRepository) Insert(ctx context.Context, event *models.InteractionEvent) error {
	if event.ID == "" {
		event.ID = newID("interaction")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_interactions (id, interaction_type, entity_type, entity_id, actor_id, actor_email, metadata, source_ip, user_agent, device_class, created_at)
VALUES (:id, :interaction_type, :entity_type, :entity_id, :actor_id, :actor_email, :metadata, :source_ip, :user_agent, :device_class, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// List returns interaction events matching the filter, newest first.
func (r *InteractionRepository) List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionEvent, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EntityType != "" {
		where = append(where, fmt.Sprintf("entity_type = $%d", len(args)+1))
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		where = append(where, fmt.Sprintf("entity_id = $%d", len(args)+1))
		args = append(args, filter.EntityID)
	}
	if filter.InteractionType != "" {
		where = append(where, fmt.Sprintf("interaction_type = $%d", len(args)+1))
		args = append(args, filter.InteractionType)
	}
	if filter.ActorID != "" {
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)+1))
		args = append(args, filter.ActorID)
	}
	if filter.CreatedAfter != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedAfter)
	}
	whereClause := strings.Join(where, " AND ")

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT id, interaction_type, entity_type, entity_id, actor_id, actor_email, metadata, source_ip, user_agent, device_class, created_at
FROM user_interactions WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, limit, offset)
	var events []models.InteractionEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list interactions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM user_interactions WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count interactions: %w", err)
	}
	return events, total, nil
}

// CountByType groups events since the cutoff by interaction type.
func (r *InteractionRepository) CountByType(ctx context.Context, since time.Time) ([]dto.TypeCount, error) {
	const query = `SELECT interaction_type, COUNT(*) AS count FROM user_interactions
WHERE created_at >= $1 GROUP BY interaction_type ORDER BY count DESC`
	var counts []dto.TypeCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("count interactions by type: %w", err)
	}
	return counts, nil
}

// CountByEntityType groups events since the cutoff by entity type.
func (r *InteractionRepository) CountByEntityType(ctx context.Context, since time.Time) ([]dto.EntityTypeCount, error) {
	const query = `SELECT entity_type, COUNT(*) AS count FROM user_interactions
WHERE created_at >= $1 GROUP BY entity_type ORDER BY count DESC`
	var counts []dto.EntityTypeCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("count interactions by entity type: %w", err)
	}
	return counts, nil
}

// TopEntities ranks entities of one type by click and view volume.
func (r *InteractionRepository) TopEntities(ctx context.Context, entityType string, since time.Time, limit int) ([]dto.EntityCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT entity_id, COUNT(*) AS count FROM user_interactions
WHERE entity_type = $1 AND created_at >= $2 AND interaction_type IN ('CLICK', 'VIEW') AND entity_id IS NOT NULL AND entity_id <> ''
GROUP BY entity_id ORDER BY count DESC LIMIT %d`, limit)
	var counts []dto.EntityCount
	if err := r.db.SelectContext(ctx, &counts, query, entityType, since); err != nil {
		return nil, fmt.Errorf("top entities: %w", err)
	}
	return counts, nil
}

// CountByDevice groups events since the cutoff by device class.
func (r *InteractionRepository) CountByDevice(ctx context.Context, since time.Time) ([]dto.DeviceCount, error) {
	const query = `SELECT device_class, COUNT(*) AS count FROM user_interactions
WHERE created_at >= $1 GROUP BY device_class ORDER BY count DESC`
	var counts []dto.DeviceCount
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("count interactions by device: %w", err)
	}
	return counts, nil
}

// CountOfType returns the total events of one type since the cutoff.
func (r *InteractionRepository) CountOfType(ctx context.Context, interactionType string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM user_interactions WHERE interaction_type = $1 AND created_at >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, interactionType, since); err != nil {
		return 0, fmt.Errorf("count interactions of type: %w", err)
	}
	return count, nil
}
