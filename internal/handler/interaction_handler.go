package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/middleware"
	"github.com/roadfy/roadfy-api/internal/service"
	appErrors "github.com/roadfy/roadfy-api/pkg/errors"
	"github.com/roadfy/roadfy-api/pkg/response"
)

// InteractionHandler exposes the public telemetry write endpoint. The
// response is success-shaped even when logging is unavailable: telemetry must
// never present as an application outage.
type InteractionHandler struct {
	interactions *service.InteractionService
	validate     *validator.Validate
}

// NewInteractionHandler constructs the handler.
func NewInteractionHandler(interactions *service.InteractionService, validate *validator.Validate) *InteractionHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &InteractionHandler{interactions: interactions, validate: validate}
}

// Log godoc
// @Summary Record one interaction event
// @Tags Interactions
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /interactions [post]
func (h *InteractionHandler) Log(c *gin.Context) {
	var req dto.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid interaction payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "interaction_type and entity_type are required"))
		return
	}

	reqCtx := middleware.RequestContextFrom(c)
	actor := middleware.ActorFrom(c)
	logged := h.interactions.LogInteraction(c.Request.Context(), reqCtx, actor, service.InteractionInput{
		InteractionType: req.InteractionType,
		EntityType:      req.EntityType,
		EntityID:        req.EntityID,
		Metadata:        req.Metadata,
	})
	if !logged {
		response.JSON(c, http.StatusOK, dto.InteractionResponse{
			Logged: false,
			Note:   "interaction logging unavailable",
		}, nil)
		return
	}
	response.Created(c, dto.InteractionResponse{Logged: true})
}
