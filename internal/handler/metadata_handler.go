package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/middleware"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/internal/service"
	appErrors "github.com/roadfy/roadfy-api/pkg/errors"
	"github.com/roadfy/roadfy-api/pkg/response"
)

// MetadataHandler exposes data-quality annotation endpoints.
type MetadataHandler struct {
	metadata *service.MetadataService
	validate *validator.Validate
}

// NewMetadataHandler constructs the handler.
func NewMetadataHandler(metadata *service.MetadataService, validate *validator.Validate) *MetadataHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &MetadataHandler{metadata: metadata, validate: validate}
}

// Get godoc
// @Summary Fetch the quality annotation for a record
// @Tags Governance
// @Produce json
// @Param table path string true "Governed table"
// @Param recordId path string true "Record ID"
// @Param field query string false "Field name"
// @Success 200 {object} response.Envelope
// @Router /governance/metadata/{table}/{recordId} [get]
func (h *MetadataHandler) Get(c *gin.Context) {
	var field *string
	if raw := c.Query("field"); raw != "" {
		field = &raw
	}
	meta, ok := h.metadata.GetMetadata(c.Request.Context(), c.Param("table"), c.Param("recordId"), field)
	if !ok {
		middleware.SetDegraded(c)
		response.JSON(c, http.StatusOK, nil, nil, middleware.ExtractMeta(c))
		return
	}
	if meta == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	response.JSON(c, http.StatusOK, meta, nil, middleware.ExtractMeta(c))
}

// Upsert godoc
// @Summary Create or replace the quality annotation for a record
// @Tags Governance
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /governance/metadata/{table}/{recordId} [put]
func (h *MetadataHandler) Upsert(c *gin.Context) {
	var req dto.MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid metadata payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "quality is required"))
		return
	}
	tier := models.QualityTier(req.Quality)
	if !tier.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown quality tier"))
		return
	}

	actor := middleware.ActorFrom(c)
	ok := h.metadata.UpsertMetadata(c.Request.Context(), actor, service.MetadataInput{
		Table:    c.Param("table"),
		RecordID: c.Param("recordId"),
		Field:    req.Field,
		Quality:  tier,
		Source:   req.Source,
		Comments: req.Comments,
		Tags:     req.Tags,
	})
	if !ok {
		middleware.SetDegraded(c)
	}
	response.JSON(c, http.StatusOK, gin.H{"saved": ok}, nil, middleware.ExtractMeta(c))
}

// QualityReport godoc
// @Summary Data-quality tier distribution
// @Tags Governance
// @Produce json
// @Param table query string false "Scope to one governed table"
// @Success 200 {object} response.Envelope
// @Router /governance/data-quality [get]
func (h *MetadataHandler) QualityReport(c *gin.Context) {
	report := h.metadata.QualityReport(c.Request.Context(), c.Query("table"))
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}
