package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/roadfy/roadfy-api/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryInsertChange(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_changes")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	actorID := "user-1"
	entry := &models.AuditEntry{
		TableName: "tires",
		RecordID:  "tire-9",
		Action:    models.AuditActionUpdate,
		ActorID:   &actorID,
	}
	require.NoError(t, repo.InsertChange(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.True(t, len(entry.ID) > len("audit-"))
	require.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListChangesFilters(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	rows := sqlmock.NewRows([]string{"id", "table_name", "record_id", "action", "actor_id", "actor_email", "old_data", "new_data", "changed_field", "old_value", "new_value", "source_ip", "user_agent", "created_at"}).
		AddRow("audit-1", "tires", "tire-9", "UPDATE", "user-1", "a@roadfy.com", nil, nil, nil, nil, nil, "10.0.0.1", "curl", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_changes WHERE 1=1 AND table_name = $1 AND record_id = $2 ORDER BY created_at DESC LIMIT 100 OFFSET 0")).
		WithArgs("tires", "tire-9").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_changes WHERE 1=1 AND table_name = $1 AND record_id = $2")).
		WithArgs("tires", "tire-9").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.ListChanges(context.Background(), models.AuditTrailFilter{Table: "tires", RecordID: "tire-9"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "tires", entries[0].TableName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListChangesCreatedAfter(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	since := time.Now().Add(-7 * 24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "table_name", "record_id", "action", "actor_id", "actor_email", "old_data", "new_data", "changed_field", "old_value", "new_value", "source_ip", "user_agent", "created_at"}).
		AddRow("audit-1", "tires", "tire-9", "UPDATE", nil, nil, nil, nil, nil, nil, nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_changes WHERE 1=1 AND created_at >= $1 ORDER BY created_at DESC LIMIT 100 OFFSET 0")).
		WithArgs(since).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_changes WHERE 1=1 AND created_at >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.ListChanges(context.Background(), models.AuditTrailFilter{CreatedAfter: &since})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryInsertAccess(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO access_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AccessLogEntry{
		AccessType: models.AccessTypeLoginFailed,
		Successful: false,
	}
	require.NoError(t, repo.InsertAccess(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListAccessSuccessFilter(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	successful := false
	rows := sqlmock.NewRows([]string{"id", "actor_id", "actor_email", "access_type", "source_ip", "user_agent", "successful", "error_message", "created_at"}).
		AddRow("log-1", nil, "a@roadfy.com", "LOGIN_FAILED", "10.0.0.1", "curl", false, "bad password", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM access_logs WHERE 1=1 AND successful = $1 ORDER BY created_at DESC LIMIT 100 OFFSET 0")).
		WithArgs(false).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM access_logs WHERE 1=1 AND successful = $1")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.ListAccess(context.Background(), models.AccessLogFilter{Successful: &successful})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, total)
	require.False(t, entries[0].Successful)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizePage(t *testing.T) {
	limit, offset := normalizePage(0, -5)
	require.Equal(t, 100, limit)
	require.Equal(t, 0, offset)

	limit, offset = normalizePage(1000, 20)
	require.Equal(t, 100, limit)
	require.Equal(t, 20, offset)

	limit, _ = normalizePage(25, 0)
	require.Equal(t, 25, limit)
}
