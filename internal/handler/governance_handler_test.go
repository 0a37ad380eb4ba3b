package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/internal/service"
)

type auditStoreMock struct {
	changes   []models.AuditEntry
	total     int
	listErr   error
	accessErr error
}

func (m *auditStoreMock) InsertChange(ctx context.Context, entry *models.AuditEntry) error {
	return nil
}

func (m *auditStoreMock) ListChanges(ctx context.Context, filter models.AuditTrailFilter) ([]models.AuditEntry, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.changes, m.total, nil
}

func (m *auditStoreMock) InsertAccess(ctx context.Context, entry *models.AccessLogEntry) error {
	return nil
}

func (m *auditStoreMock) ListAccess(ctx context.Context, filter models.AccessLogFilter) ([]models.AccessLogEntry, int, error) {
	if m.accessErr != nil {
		return nil, 0, m.accessErr
	}
	return nil, 0, nil
}

type versionStoreMock struct {
	records []models.VersionRecord
	getResp *models.VersionRecord
	getErr  error
}

func (m *versionStoreMock) Create(ctx context.Context, record *models.VersionRecord) error {
	return nil
}

func (m *versionStoreMock) List(ctx context.Context, tableName, recordID string, limit int) ([]models.VersionRecord, error) {
	return m.records, nil
}

func (m *versionStoreMock) Get(ctx context.Context, tableName, recordID string, version int) (*models.VersionRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *versionStoreMock) Latest(ctx context.Context, tableName, recordID string) (*models.VersionRecord, error) {
	return nil, sql.ErrNoRows
}

type reportStoreMock struct {
	report *models.GovernanceReport
	getErr error
}

func (m *reportStoreMock) InsertReport(ctx context.Context, report *models.GovernanceReport) error {
	return nil
}

func (m *reportStoreMock) GetReport(ctx context.Context, id string) (*models.GovernanceReport, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.report == nil || m.report.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.report, nil
}

func (m *reportStoreMock) CountChangesByAction(ctx context.Context, since time.Time) ([]dto.ActionCount, error) {
	return nil, nil
}

func (m *reportStoreMock) TopChangedTables(ctx context.Context, since time.Time, limit int) ([]dto.TableCount, error) {
	return nil, nil
}

func (m *reportStoreMock) TopChangeActors(ctx context.Context, since time.Time, limit int) ([]dto.ActorCount, error) {
	return nil, nil
}

func (m *reportStoreMock) CountAccessByType(ctx context.Context, since time.Time) ([]dto.AccessTypeCount, error) {
	return nil, nil
}

func (m *reportStoreMock) CountFailedAccess(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}

func (m *reportStoreMock) TopAccessActors(ctx context.Context, since time.Time, limit int) ([]dto.ActorCount, error) {
	return nil, nil
}

type trailEnvelope struct {
	Data       []models.AuditEntry    `json:"data"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func governanceHandlerWith(audit *auditStoreMock, versions *versionStoreMock) *GovernanceHandler {
	auditSvc := service.NewAuditService(audit, nil, nil)
	versionSvc := service.NewVersionService(versions, nil, nil)
	return NewGovernanceHandler(auditSvc, versionSvc, nil, nil, nil, 30)
}

func TestAuditTrailReturnsEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &auditStoreMock{
		changes: []models.AuditEntry{
			{ID: "audit-1", TableName: "tires", RecordID: "tire-001", Action: models.AuditActionUpdate},
			{ID: "audit-2", TableName: "tires", RecordID: "tire-002", Action: models.AuditActionInsert},
		},
		total: 7,
	}
	h := governanceHandlerWith(store, &versionStoreMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/audit-trail?table=tires&limit=2", nil)

	h.AuditTrail(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope trailEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 7, envelope.Pagination.TotalCount)
	assert.NotContains(t, envelope.Meta, "degraded")
}

func TestAuditTrailDegradesToEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &auditStoreMock{listErr: errors.New("connection refused")}
	h := governanceHandlerWith(store, &versionStoreMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/audit-trail", nil)

	h.AuditTrail(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope trailEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data)
	assert.Equal(t, true, envelope.Meta["degraded"])
}

func TestAccessLogsRejectsBadSuccessfulParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := governanceHandlerWith(&auditStoreMock{}, &versionStoreMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/access-logs?successful=maybe", nil)

	h.AccessLogs(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVersionRejectsNonNumericParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := governanceHandlerWith(&auditStoreMock{}, &versionStoreMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/versions/tires/tire-001/abc", nil)
	c.Params = gin.Params{
		{Key: "table", Value: "tires"},
		{Key: "recordId", Value: "tire-001"},
		{Key: "version", Value: "abc"},
	}

	h.Version(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVersionNotRecorded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := governanceHandlerWith(&auditStoreMock{}, &versionStoreMock{getErr: sql.ErrNoRows})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/versions/tires/tire-001/4", nil)
	c.Params = gin.Params{
		{Key: "table", Value: "tires"},
		{Key: "recordId", Value: "tire-001"},
		{Key: "version", Value: "4"},
	}

	h.Version(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportReturnsPersistedReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &reportStoreMock{
		report: &models.GovernanceReport{ID: "rpt-1", ReportType: "monthly_audit", Title: "August audit digest"},
	}
	reportSvc := service.NewReportService(reports, nil, nil, nil, 0)
	h := NewGovernanceHandler(nil, nil, nil, reportSvc, nil, 30)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/reports/rpt-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "rpt-1"}}

	h.Report(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.GovernanceReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "monthly_audit", envelope.Data.ReportType)
}

func TestReportMissingReturnsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reportSvc := service.NewReportService(&reportStoreMock{}, nil, nil, nil, 0)
	h := NewGovernanceHandler(nil, nil, nil, reportSvc, nil, 30)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/reports/rpt-missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "rpt-missing"}}

	h.Report(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVersionsListsNewestFirst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	versions := &versionStoreMock{
		records: []models.VersionRecord{
			{ID: "ver-2", TableName: "tires", RecordID: "tire-001", Version: 2},
			{ID: "ver-1", TableName: "tires", RecordID: "tire-001", Version: 1},
		},
	}
	h := governanceHandlerWith(&auditStoreMock{}, versions)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/governance/versions/tires/tire-001", nil)
	c.Params = gin.Params{
		{Key: "table", Value: "tires"},
		{Key: "recordId", Value: "tire-001"},
	}

	h.Versions(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.VersionRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, 2, envelope.Data[0].Version)
}
