package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/pkg/export"
	"github.com/roadfy/roadfy-api/pkg/storage"
)

// exportRowCap bounds how many rows one export will pull from the store.
const exportRowCap = 5000

const exportPageSize = 500

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds governance datasets and persists rendered files.
type ExportService struct {
	audit        AuditStore
	interactions InteractionStore
	storage      fileStorage
	csv          csvRenderer
	pdf          pdfRenderer
	signer       *storage.DownloadSigner
	logger       *zap.Logger
	cfg          ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(audit AuditStore, interactions InteractionStore, store fileStorage, signer *storage.DownloadSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		audit:        audit,
		interactions: interactions,
		storage:      store,
		csv:          csv,
		pdf:          pdf,
		signer:       signer,
		logger:       logger,
		cfg:          cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s-%s.%s", job.Source, job.ID, job.Params.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// VerifyToken validates a download token and returns its metadata.
func (s *ExportService) VerifyToken(token string, allowExpired bool) (storage.DownloadToken, error) {
	return s.signer.Verify(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes stored files older than the TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	windowDays := job.Params.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)

	switch job.Source {
	case models.ExportSourceAuditTrail:
		ds, err := s.buildAuditDataset(ctx, since)
		return ds, "Audit Trail", err
	case models.ExportSourceAccessLogs:
		ds, err := s.buildAccessDataset(ctx, since)
		return ds, "Access Logs", err
	case models.ExportSourceInteractions:
		ds, err := s.buildInteractionDataset(ctx, since)
		return ds, "User Interactions", err
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export source %s", job.Source)
	}
}

func (s *ExportService) buildAuditDataset(ctx context.Context, since time.Time) (export.Dataset, error) {
	dataset := export.Dataset{
		Headers: []string{"id", "table", "record_id", "action", "actor_id", "actor_email", "changed_field", "old_value", "new_value", "source_ip", "created_at"},
	}
	for offset := 0; offset < exportRowCap; offset += exportPageSize {
		entries, total, err := s.audit.ListChanges(ctx, models.AuditTrailFilter{CreatedAfter: &since, Limit: exportPageSize, Offset: offset})
		if err != nil {
			return dataset, err
		}
		for _, e := range entries {
			dataset.AddRow(map[string]string{
				"id":            e.ID,
				"table":         e.TableName,
				"record_id":     e.RecordID,
				"action":        e.Action,
				"actor_id":      derefString(e.ActorID),
				"actor_email":   derefString(e.ActorEmail),
				"changed_field": derefString(e.ChangedField),
				"old_value":     derefString(e.OldValue),
				"new_value":     derefString(e.NewValue),
				"source_ip":     derefString(e.SourceIP),
				"created_at":    e.CreatedAt.Format(time.RFC3339),
			})
		}
		if offset+len(entries) >= total || len(entries) == 0 {
			break
		}
	}
	return dataset, nil
}

func (s *ExportService) buildAccessDataset(ctx context.Context, since time.Time) (export.Dataset, error) {
	dataset := export.Dataset{
		Headers: []string{"id", "actor_id", "actor_email", "access_type", "successful", "error_message", "source_ip", "created_at"},
	}
	for offset := 0; offset < exportRowCap; offset += exportPageSize {
		entries, total, err := s.audit.ListAccess(ctx, models.AccessLogFilter{CreatedAfter: &since, Limit: exportPageSize, Offset: offset})
		if err != nil {
			return dataset, err
		}
		for _, e := range entries {
			dataset.AddRow(map[string]string{
				"id":            e.ID,
				"actor_id":      derefString(e.ActorID),
				"actor_email":   derefString(e.ActorEmail),
				"access_type":   e.AccessType,
				"successful":    fmt.Sprintf("%t", e.Successful),
				"error_message": derefString(e.ErrorMessage),
				"source_ip":     derefString(e.SourceIP),
				"created_at":    e.CreatedAt.Format(time.RFC3339),
			})
		}
		if offset+len(entries) >= total || len(entries) == 0 {
			break
		}
	}
	return dataset, nil
}

func (s *ExportService) buildInteractionDataset(ctx context.Context, since time.Time) (export.Dataset, error) {
	dataset := export.Dataset{
		Headers: []string{"id", "interaction_type", "entity_type", "entity_id", "actor_id", "device_class", "source_ip", "created_at"},
	}
	for offset := 0; offset < exportRowCap; offset += exportPageSize {
		events, total, err := s.interactions.List(ctx, models.InteractionFilter{CreatedAfter: &since, Limit: exportPageSize, Offset: offset})
		if err != nil {
			return dataset, err
		}
		for _, e := range events {
			dataset.AddRow(map[string]string{
				"id":               e.ID,
				"interaction_type": e.InteractionType,
				"entity_type":      e.EntityType,
				"entity_id":        e.EntityID,
				"actor_id":         derefString(e.ActorID),
				"device_class":     string(e.DeviceClass),
				"source_ip":        derefString(e.SourceIP),
				"created_at":       e.CreatedAt.Format(time.RFC3339),
			})
		}
		if offset+len(events) >= total || len(events) == 0 {
			break
		}
	}
	return dataset, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
