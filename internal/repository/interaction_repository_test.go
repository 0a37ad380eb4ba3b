package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/pkg/database"
)

func newInteractionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInteractionRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newInteractionRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_interactions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.InteractionEvent{
		InteractionType: models.InteractionClick,
		EntityType:      models.EntityTire,
		EntityID:        "tire-9",
		DeviceClass:     models.DeviceMobile,
	}
	require.NoError(t, repo.Insert(context.Background(), event))
	require.NotEmpty(t, event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryInsertMissingTable(t *testing.T) {
	db, mock, cleanup := newInteractionRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_interactions")).
		WillReturnError(&pq.Error{Code: "42P01"})

	event := &models.InteractionEvent{
		InteractionType: models.InteractionView,
		EntityType:      models.EntityPage,
		EntityID:        "home",
		DeviceClass:     models.DeviceUnknown,
	}
	err := repo.Insert(context.Background(), event)
	require.Error(t, err)
	require.True(t, database.IsSchemaMissing(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryList(t *testing.T) {
	db, mock, cleanup := newInteractionRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "interaction_type", "entity_type", "entity_id", "actor_id", "actor_email", "metadata", "source_ip", "user_agent", "device_class", "created_at"}).
		AddRow("interaction-1", "CLICK", "TIRE", "tire-9", nil, nil, nil, "10.0.0.1", "curl", "DESKTOP", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_interactions WHERE 1=1 AND entity_type = $1 ORDER BY created_at DESC LIMIT 100 OFFSET 0")).
		WithArgs("TIRE").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_interactions WHERE 1=1 AND entity_type = $1")).
		WithArgs("TIRE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	events, total, err := repo.List(context.Background(), models.InteractionFilter{EntityType: models.EntityTire})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryTopEntities(t *testing.T) {
	db, mock, cleanup := newInteractionRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	since := time.Now().Add(-30 * 24 * time.Hour)
	rows := sqlmock.NewRows([]string{"entity_id", "count"}).
		AddRow("tire-9", 42).
		AddRow("tire-3", 17)
	mock.ExpectQuery(regexp.QuoteMeta("interaction_type IN ('CLICK', 'VIEW')")).
		WithArgs("TIRE", since).
		WillReturnRows(rows)

	counts, err := repo.TopEntities(context.Background(), models.EntityTire, since, 10)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, "tire-9", counts[0].EntityID)
	require.Equal(t, 42, counts[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepositoryCountOfType(t *testing.T) {
	db, mock, cleanup := newInteractionRepoMock(t)
	defer cleanup()
	repo := NewInteractionRepository(db)

	since := time.Now().Add(-7 * 24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_interactions WHERE interaction_type = $1 AND created_at >= $2")).
		WithArgs("SEARCH", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountOfType(context.Background(), models.InteractionSearch, since)
	require.NoError(t, err)
	require.Equal(t, 12, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
