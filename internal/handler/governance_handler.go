package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/middleware"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/internal/service"
	appErrors "github.com/roadfy/roadfy-api/pkg/errors"
	"github.com/roadfy/roadfy-api/pkg/response"
)

// GovernanceHandler exposes the privileged governance read surface plus
// report creation.
type GovernanceHandler struct {
	audit        *service.AuditService
	versions     *service.VersionService
	interactions *service.InteractionService
	reports      *service.ReportService
	validate     *validator.Validate
	windowDays   int
}

// NewGovernanceHandler constructs the handler. defaultWindowDays is the
// summary window applied when the request omits ?days.
func NewGovernanceHandler(audit *service.AuditService, versions *service.VersionService, interactions *service.InteractionService, reports *service.ReportService, validate *validator.Validate, defaultWindowDays int) *GovernanceHandler {
	if validate == nil {
		validate = validator.New()
	}
	if defaultWindowDays <= 0 {
		defaultWindowDays = 30
	}
	return &GovernanceHandler{
		audit:        audit,
		versions:     versions,
		interactions: interactions,
		reports:      reports,
		validate:     validate,
		windowDays:   defaultWindowDays,
	}
}

// AuditTrail godoc
// @Summary List audit trail entries
// @Tags Governance
// @Produce json
// @Param table query string false "Governed table"
// @Param record_id query string false "Record ID"
// @Param user_id query string false "Actor ID"
// @Param action query string false "Action"
// @Success 200 {object} response.Envelope
// @Router /governance/audit-trail [get]
func (h *GovernanceHandler) AuditTrail(c *gin.Context) {
	filter := models.AuditTrailFilter{
		Table:    c.Query("table"),
		RecordID: c.Query("record_id"),
		ActorID:  c.Query("user_id"),
		Action:   c.Query("action"),
		Limit:    queryInt(c, "limit", 100),
		Offset:   queryInt(c, "offset", 0),
	}
	entries, total, ok := h.audit.QueryTrail(c.Request.Context(), filter)
	if !ok {
		middleware.SetDegraded(c)
	}
	pagination := &models.Pagination{Limit: filter.Limit, Offset: filter.Offset, TotalCount: total}
	response.JSON(c, http.StatusOK, entries, pagination, middleware.ExtractMeta(c))
}

// AccessLogs godoc
// @Summary List access log entries
// @Tags Governance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /governance/access-logs [get]
func (h *GovernanceHandler) AccessLogs(c *gin.Context) {
	filter := models.AccessLogFilter{
		ActorID:    c.Query("user_id"),
		AccessType: c.Query("access_type"),
		Limit:      queryInt(c, "limit", 100),
		Offset:     queryInt(c, "offset", 0),
	}
	if raw := c.Query("successful"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "successful must be a boolean"))
			return
		}
		filter.Successful = &parsed
	}
	entries, total, ok := h.audit.QueryAccessLog(c.Request.Context(), filter)
	if !ok {
		middleware.SetDegraded(c)
	}
	pagination := &models.Pagination{Limit: filter.Limit, Offset: filter.Offset, TotalCount: total}
	response.JSON(c, http.StatusOK, entries, pagination, middleware.ExtractMeta(c))
}

// Versions godoc
// @Summary List version history for a record
// @Tags Governance
// @Produce json
// @Param table path string true "Governed table"
// @Param recordId path string true "Record ID"
// @Param limit query int false "Max versions (default 10)"
// @Success 200 {object} response.Envelope
// @Router /governance/versions/{table}/{recordId} [get]
func (h *GovernanceHandler) Versions(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	records, ok := h.versions.ListVersions(c.Request.Context(), c.Param("table"), c.Param("recordId"), limit)
	if !ok {
		middleware.SetDegraded(c)
	}
	pagination := &models.Pagination{Limit: limit, TotalCount: len(records)}
	response.JSON(c, http.StatusOK, records, pagination, middleware.ExtractMeta(c))
}

// Version godoc
// @Summary Fetch one exact version of a record
// @Tags Governance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /governance/versions/{table}/{recordId}/{version} [get]
func (h *GovernanceHandler) Version(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer"))
		return
	}
	record, ok := h.versions.GetVersion(c.Request.Context(), c.Param("table"), c.Param("recordId"), version)
	if !ok {
		middleware.SetDegraded(c)
		response.JSON(c, http.StatusOK, nil, nil, middleware.ExtractMeta(c))
		return
	}
	if record == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	response.JSON(c, http.StatusOK, record, nil, middleware.ExtractMeta(c))
}

// AuditSummary godoc
// @Summary Audit activity summary for a trailing window
// @Tags Governance
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /governance/reports/audit-summary [get]
func (h *GovernanceHandler) AuditSummary(c *gin.Context) {
	summary := h.reports.AuditSummary(c.Request.Context(), queryInt(c, "days", h.windowDays))
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// AccessSummary godoc
// @Summary Authentication activity summary for a trailing window
// @Tags Governance
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /governance/reports/access-summary [get]
func (h *GovernanceHandler) AccessSummary(c *gin.Context) {
	summary := h.reports.AccessSummary(c.Request.Context(), queryInt(c, "days", h.windowDays))
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// InteractionSummary godoc
// @Summary Telemetry summary for a trailing window
// @Tags Governance
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /governance/reports/interaction-summary [get]
func (h *GovernanceHandler) InteractionSummary(c *gin.Context) {
	summary := h.interactions.Summarize(c.Request.Context(), queryInt(c, "days", h.windowDays))
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Interactions godoc
// @Summary List interaction events
// @Tags Governance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /governance/interactions [get]
func (h *GovernanceHandler) Interactions(c *gin.Context) {
	filter := models.InteractionFilter{
		EntityType:      c.Query("entity_type"),
		EntityID:        c.Query("entity_id"),
		InteractionType: c.Query("interaction_type"),
		ActorID:         c.Query("user_id"),
		Limit:           queryInt(c, "limit", 100),
		Offset:          queryInt(c, "offset", 0),
	}
	events, total, ok := h.interactions.QueryInteractions(c.Request.Context(), filter)
	if !ok {
		middleware.SetDegraded(c)
	}
	pagination := &models.Pagination{Limit: filter.Limit, Offset: filter.Offset, TotalCount: total}
	response.JSON(c, http.StatusOK, events, pagination, middleware.ExtractMeta(c))
}

// CreateReport godoc
// @Summary Persist a named governance report
// @Tags Governance
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /governance/reports [post]
func (h *GovernanceHandler) CreateReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid report payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "report_type and title are required"))
		return
	}
	actor := middleware.ActorFrom(c)
	id := h.reports.GenerateReport(c.Request.Context(), actor, service.ReportInput{
		ReportType:  req.ReportType,
		Title:       req.Title,
		Description: req.Description,
		ReportData:  req.ReportData,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	})
	if id == "" {
		middleware.SetDegraded(c)
		response.JSON(c, http.StatusOK, dto.ReportResponse{}, nil, middleware.ExtractMeta(c))
		return
	}
	response.Created(c, dto.ReportResponse{ID: id})
}

// Report godoc
// @Summary Fetch one persisted governance report
// @Tags Governance
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /governance/reports/{id} [get]
func (h *GovernanceHandler) Report(c *gin.Context) {
	report, ok := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if !ok {
		middleware.SetDegraded(c)
		response.JSON(c, http.StatusOK, nil, nil, middleware.ExtractMeta(c))
		return
	}
	if report == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
