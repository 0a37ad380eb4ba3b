package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
)

// MetadataRepository persists data-quality annotations keyed by
// (table_name, record_id, field). field is nullable; NULL and a concrete
// field name are distinct keys.
type MetadataRepository struct {
	db *sqlx.DB
}

// NewMetadataRepository constructs the repository.
func NewMetadataRepository(db *sqlx.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

// Upsert updates the annotation for the key when one exists, otherwise
// inserts a new row. Runs in one transaction so the lookup and write see the
// same state.
func (r *MetadataRepository) Upsert(ctx context.Context, meta *models.RecordMetadata) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin metadata upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var existingID string
	err = tx.GetContext(ctx, &existingID,
		`SELECT id FROM record_metadata WHERE table_name = $1 AND record_id = $2 AND field IS NOT DISTINCT FROM $3`,
		meta.TableName, meta.RecordID, meta.Field)
	switch {
	case err == nil:
		meta.ID = existingID
		meta.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`UPDATE record_metadata SET quality = $1, source = $2, reviewed_by = $3, comments = $4, tags = $5, updated_at = $6 WHERE id = $7`,
			meta.Quality, meta.Source, meta.ReviewedBy, meta.Comments, meta.Tags, meta.UpdatedAt, existingID)
		if err != nil {
			return fmt.Errorf("update record metadata: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		if meta.ID == "" {
			meta.ID = newID("meta")
		}
		meta.CreatedAt = now
		meta.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO record_metadata (id, table_name, record_id, field, quality, source, reviewed_by, comments, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			meta.ID, meta.TableName, meta.RecordID, meta.Field, meta.Quality,
			meta.Source, meta.ReviewedBy, meta.Comments, meta.Tags, meta.CreatedAt, meta.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert record metadata: %w", err)
		}
	default:
		return fmt.Errorf("lookup record metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit metadata upsert: %w", err)
	}
	return nil
}

// Get fetches the annotation for an exact key. sql.ErrNoRows passes through.
func (r *MetadataRepository) Get(ctx context.Context, tableName, recordID string, field *string) (*models.RecordMetadata, error) {
	const query = `SELECT id, table_name, record_id, field, quality, source, reviewed_by, comments, tags, created_at, updated_at
FROM record_metadata WHERE table_name = $1 AND record_id = $2 AND field IS NOT DISTINCT FROM $3`
	var meta models.RecordMetadata
	if err := r.db.GetContext(ctx, &meta, query, tableName, recordID, field); err != nil {
		return nil, err
	}
	return &meta, nil
}

// TierCounts groups annotations by quality tier, optionally scoped to one
// governed table.
func (r *MetadataRepository) TierCounts(ctx context.Context, tableName string) ([]dto.TierCount, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if tableName != "" {
		where = append(where, fmt.Sprintf("table_name = $%d", len(args)+1))
		args = append(args, tableName)
	}
	query := fmt.Sprintf(`SELECT quality, COUNT(*) AS count FROM record_metadata WHERE %s GROUP BY quality`,
		strings.Join(where, " AND "))
	var counts []dto.TierCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count metadata tiers: %w", err)
	}
	return counts, nil
}
