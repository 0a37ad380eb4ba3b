package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/pkg/database"
)

// createVersionRetries bounds the retry loop when two writers race for the
// same (table, record) sequence slot.
const createVersionRetries = 3

// VersionRepository persists immutable record snapshots with a per-record
// monotonic version sequence.
type VersionRepository struct {
	db *sqlx.DB
}

// NewVersionRepository constructs the repository.
func NewVersionRepository(db *sqlx.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// Create inserts a snapshot and assigns the next version number atomically.
// The version is computed inside the INSERT so concurrent writers cannot read
// the same max; a unique index on (table_name, record_id, version) rejects the
// loser, which retries.
func (r *VersionRepository) Create(ctx context.Context, record *models.VersionRecord) error {
	if record.ID == "" {
		record.ID = newID("ver")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO record_versions (id, table_name, record_id, version, snapshot, actor_id, actor_email, change_reason, created_at)
SELECT $1, $2, $3, COALESCE(MAX(version), 0) + 1, $4, $5, $6, $7, $8
FROM record_versions WHERE table_name = $2 AND record_id = $3
RETURNING version`

	var lastErr error
	for attempt := 0; attempt < createVersionRetries; attempt++ {
		err := r.db.QueryRowContext(ctx, query,
			record.ID, record.TableName, record.RecordID,
			record.Snapshot, record.ActorID, record.ActorEmail,
			record.ChangeReason, record.CreatedAt,
		).Scan(&record.Version)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return fmt.Errorf("insert record version: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("insert record version: sequence contention: %w", lastErr)
}

// List returns versions for one record, newest version first.
func (r *VersionRepository) List(ctx context.Context, tableName, recordID string, limit int) ([]models.VersionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	query := fmt.Sprintf(`SELECT id, table_name, record_id, version, snapshot, actor_id, actor_email, change_reason, created_at
FROM record_versions WHERE table_name = $1 AND record_id = $2 ORDER BY version DESC LIMIT %d`, limit)
	var records []models.VersionRecord
	if err := r.db.SelectContext(ctx, &records, query, tableName, recordID); err != nil {
		return nil, fmt.Errorf("list record versions: %w", err)
	}
	return records, nil
}

// Get fetches a single version of a record. sql.ErrNoRows passes through so
// callers can distinguish absence from failure.
func (r *VersionRepository) Get(ctx context.Context, tableName, recordID string, version int) (*models.VersionRecord, error) {
	const query = `SELECT id, table_name, record_id, version, snapshot, actor_id, actor_email, change_reason, created_at
FROM record_versions WHERE table_name = $1 AND record_id = $2 AND version = $3`
	var record models.VersionRecord
	if err := r.db.GetContext(ctx, &record, query, tableName, recordID, version); err != nil {
		return nil, err
	}
	return &record, nil
}

// Latest fetches the highest version of a record.
func (r *VersionRepository) Latest(ctx context.Context, tableName, recordID string) (*models.VersionRecord, error) {
	const query = `SELECT id, table_name, record_id, version, snapshot, actor_id, actor_email, change_reason, created_at
FROM record_versions WHERE table_name = $1 AND record_id = $2 ORDER BY version DESC LIMIT 1`
	var record models.VersionRecord
	if err := r.db.GetContext(ctx, &record, query, tableName, recordID); err != nil {
		return nil, err
	}
	return &record, nil
}
