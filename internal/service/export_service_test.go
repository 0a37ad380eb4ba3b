package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/pkg/export"
	"github.com/roadfy/roadfy-api/pkg/storage"
)

type exportAuditStub struct {
	entries []models.AuditEntry
	access  []models.AccessLogEntry
}

func (s *exportAuditStub) InsertChange(ctx context.Context, entry *models.AuditEntry) error {
	return nil
}

func (s *exportAuditStub) ListChanges(ctx context.Context, filter models.AuditTrailFilter) ([]models.AuditEntry, int, error) {
	matched := make([]models.AuditEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.CreatedAfter != nil && e.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, len(matched), nil
}

func (s *exportAuditStub) InsertAccess(ctx context.Context, entry *models.AccessLogEntry) error {
	return nil
}

func (s *exportAuditStub) ListAccess(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogEntry, int, error) {
	matched := make([]models.AccessLogEntry, 0, len(s.access))
	for _, e := range s.access {
		if filter.CreatedAfter != nil && e.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, len(matched), nil
}

type exportInteractionStub struct {
	events []models.InteractionEvent
}

func (s *exportInteractionStub) Insert(ctx context.Context, event *models.InteractionEvent) error {
	return nil
}

func (s *exportInteractionStub) List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionEvent, int, error) {
	matched := make([]models.InteractionEvent, 0, len(s.events))
	for _, e := range s.events {
		if filter.CreatedAfter != nil && e.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, len(matched), nil
}

func (s *exportInteractionStub) CountByType(ctx context.Context, since time.Time) ([]dto.TypeCount, error) {
	return nil, nil
}

func (s *exportInteractionStub) CountByEntityType(ctx context.Context, since time.Time) ([]dto.EntityTypeCount, error) {
	return nil, nil
}

func (s *exportInteractionStub) TopEntities(ctx context.Context, entityType string, since time.Time, limit int) ([]dto.EntityCount, error) {
	return nil, nil
}

func (s *exportInteractionStub) CountByDevice(ctx context.Context, since time.Time) ([]dto.DeviceCount, error) {
	return nil, nil
}

func (s *exportInteractionStub) CountOfType(ctx context.Context, interactionType string, since time.Time) (int, error) {
	return 0, nil
}

func newTestExportService(t *testing.T, audit AuditStore, interactions InteractionStore) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("test-secret", time.Hour)
	return NewExportService(
		audit,
		interactions,
		store,
		signer,
		ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour},
		zap.NewNop(),
		export.NewCSVExporter(),
		export.NewPDFExporter(),
	)
}

func TestExportServiceGenerateHonorsWindow(t *testing.T) {
	now := time.Now().UTC()
	audit := &exportAuditStub{
		entries: []models.AuditEntry{
			{ID: "audit-legacy", TableName: "tires", RecordID: "tire-legacy", Action: models.AuditActionUpdate, CreatedAt: now.AddDate(-5, 0, 0)},
			{ID: "audit-recent", TableName: "tires", RecordID: "tire-recent", Action: models.AuditActionInsert, CreatedAt: now},
		},
	}
	svc := newTestExportService(t, audit, &exportInteractionStub{})

	job := &models.ExportJob{
		ID:     "export-1",
		Source: models.ExportSourceAuditTrail,
		Params: models.ExportJobParams{WindowDays: 7, Format: models.ExportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)

	content := string(payload)
	assert.Contains(t, content, "tire-recent")
	assert.NotContains(t, content, "tire-legacy")
	assert.Contains(t, content, "record_id")
}

func TestExportServiceGenerateSignsDownloadURL(t *testing.T) {
	now := time.Now().UTC()
	audit := &exportAuditStub{
		entries: []models.AuditEntry{
			{ID: "audit-1", TableName: "businesses", RecordID: "biz-1", Action: models.AuditActionDelete, CreatedAt: now},
		},
	}
	svc := newTestExportService(t, audit, &exportInteractionStub{})

	job := &models.ExportJob{
		ID:     "export-42",
		Source: models.ExportSourceAuditTrail,
		Params: models.ExportJobParams{WindowDays: 30, Format: models.ExportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/download/"), "unexpected url %s", result.URL)

	parsed, err := svc.VerifyToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "export-42", parsed.JobID)
	assert.Equal(t, result.RelativePath, parsed.Artifact)
	assert.False(t, parsed.Expired())
}

func TestExportServiceGeneratePDFInteractions(t *testing.T) {
	now := time.Now().UTC()
	interactions := &exportInteractionStub{
		events: []models.InteractionEvent{
			{ID: "evt-1", InteractionType: models.InteractionClick, EntityType: models.EntityTire, EntityID: "tire-9", DeviceClass: models.DeviceMobile, CreatedAt: now},
		},
	}
	svc := newTestExportService(t, &exportAuditStub{}, interactions)

	job := &models.ExportJob{
		ID:     "export-7",
		Source: models.ExportSourceInteractions,
		Params: models.ExportJobParams{WindowDays: 30, Format: models.ExportFormatPDF},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := io.ReadAll(file)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte("%PDF")), "expected a pdf document")
}

func TestExportServiceGenerateRejectsUnknownSource(t *testing.T) {
	svc := newTestExportService(t, &exportAuditStub{}, &exportInteractionStub{})

	job := &models.ExportJob{
		ID:     "export-9",
		Source: models.ExportSource("warehouse"),
		Params: models.ExportJobParams{WindowDays: 7, Format: models.ExportFormatCSV},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}
