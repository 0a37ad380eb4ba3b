package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/internal/repository"
	appErrors "github.com/roadfy/roadfy-api/pkg/errors"
	"github.com/roadfy/roadfy-api/pkg/jobs"
)

type stubExportJobStore struct {
	createErr error
	jobs      map[string]*models.ExportJob
	updates   []repository.UpdateExportJobParams
}

func newStubExportJobStore() *stubExportJobStore {
	return &stubExportJobStore{jobs: map[string]*models.ExportJob{}}
}

func (s *stubExportJobStore) Create(_ context.Context, job *models.ExportJob) error {
	if s.createErr != nil {
		return s.createErr
	}
	job.ID = "export-test"
	s.jobs[job.ID] = job
	return nil
}

func (s *stubExportJobStore) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.New("missing")
	}
	return job, nil
}

func (s *stubExportJobStore) Update(_ context.Context, id string, params repository.UpdateExportJobParams) error {
	s.updates = append(s.updates, params)
	if job, ok := s.jobs[id]; ok {
		if params.Status != nil {
			job.Status = *params.Status
		}
		if params.Progress != nil {
			job.Progress = *params.Progress
		}
		if params.ResultURL != nil {
			job.ResultURL = params.ResultURL
		}
	}
	return nil
}

func (s *stubExportJobStore) ListQueued(_ context.Context) ([]models.ExportJob, error) {
	var out []models.ExportJob
	for _, job := range s.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *stubExportJobStore) ListFinishedBefore(_ context.Context, _ time.Time) ([]models.ExportJob, error) {
	return nil, nil
}

type stubDispatcher struct {
	enqueueErr error
	enqueued   []jobs.Job
}

func (d *stubDispatcher) Enqueue(job jobs.Job) error {
	if d.enqueueErr != nil {
		return d.enqueueErr
	}
	d.enqueued = append(d.enqueued, job)
	return nil
}

type stubGenerator struct {
	err    error
	result *ExportResult
}

func (g *stubGenerator) Generate(_ context.Context, _ *models.ExportJob) (*ExportResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func TestExportJobServiceCreateJob(t *testing.T) {
	store := newStubExportJobStore()
	queue := &stubDispatcher{}
	svc := NewExportJobService(store, queue, nil, zap.NewNop(), ExportJobServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		Source: "audit_trail",
		Format: "csv",
	}, "user-1")
	require.NoError(t, err)
	require.Equal(t, "export-test", resp.ID)
	require.Equal(t, string(models.ExportStatusQueued), resp.Status)
	require.Len(t, queue.enqueued, 1)
	require.Equal(t, 30, store.jobs["export-test"].Params.WindowDays)
}

func TestExportJobServiceCreateJobRejectsBadSource(t *testing.T) {
	svc := NewExportJobService(newStubExportJobStore(), &stubDispatcher{}, nil, zap.NewNop(), ExportJobServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{Source: "billing", Format: "csv"}, "user-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportJobServiceCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	store := newStubExportJobStore()
	queue := &stubDispatcher{enqueueErr: errors.New("queue closed")}
	svc := NewExportJobService(store, queue, nil, zap.NewNop(), ExportJobServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{Source: "access_logs", Format: "pdf"}, "user-1")
	require.Error(t, err)
	require.Equal(t, models.ExportStatusFailed, store.jobs["export-test"].Status)
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	store := newStubExportJobStore()
	store.jobs["export-1"] = &models.ExportJob{
		ID:     "export-1",
		Source: models.ExportSourceAuditTrail,
		Params: models.ExportJobParams{WindowDays: 30, Format: models.ExportFormatCSV},
		Status: models.ExportStatusQueued,
	}
	gen := &stubGenerator{result: &ExportResult{URL: "/api/v1/exports/download/token"}}
	worker := NewExportWorker(store, gen, 3, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "export-1", Attempt: 1}))
	job := store.jobs["export-1"]
	require.Equal(t, models.ExportStatusFinished, job.Status)
	require.Equal(t, 100, job.Progress)
	require.Equal(t, "/api/v1/exports/download/token", *job.ResultURL)
}

func TestExportWorkerHandleRequeuesThenFails(t *testing.T) {
	store := newStubExportJobStore()
	store.jobs["export-1"] = &models.ExportJob{
		ID:     "export-1",
		Source: models.ExportSourceAuditTrail,
		Params: models.ExportJobParams{WindowDays: 30, Format: models.ExportFormatCSV},
		Status: models.ExportStatusQueued,
	}
	gen := &stubGenerator{err: errors.New("render failed")}
	worker := NewExportWorker(store, gen, 2, zap.NewNop())

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "export-1", Attempt: 1}))
	require.Equal(t, models.ExportStatusQueued, store.jobs["export-1"].Status)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "export-1", Attempt: 2}))
	require.Equal(t, models.ExportStatusFailed, store.jobs["export-1"].Status)
}
