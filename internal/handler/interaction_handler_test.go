package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadfy/roadfy-api/internal/dto"
	"github.com/roadfy/roadfy-api/internal/models"
	"github.com/roadfy/roadfy-api/internal/service"
)

type interactionStoreMock struct {
	insertErr error
	inserted  []*models.InteractionEvent
}

func (m *interactionStoreMock) Insert(ctx context.Context, event *models.InteractionEvent) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, event)
	return nil
}

func (m *interactionStoreMock) List(ctx context.Context, filter models.InteractionFilter) ([]models.InteractionEvent, int, error) {
	return nil, 0, nil
}

func (m *interactionStoreMock) CountByType(ctx context.Context, since time.Time) ([]dto.TypeCount, error) {
	return nil, nil
}

func (m *interactionStoreMock) CountByEntityType(ctx context.Context, since time.Time) ([]dto.EntityTypeCount, error) {
	return nil, nil
}

func (m *interactionStoreMock) TopEntities(ctx context.Context, entityType string, since time.Time, limit int) ([]dto.EntityCount, error) {
	return nil, nil
}

func (m *interactionStoreMock) CountByDevice(ctx context.Context, since time.Time) ([]dto.DeviceCount, error) {
	return nil, nil
}

func (m *interactionStoreMock) CountOfType(ctx context.Context, interactionType string, since time.Time) (int, error) {
	return 0, nil
}

func interactionRequest(t *testing.T, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)")
	return req
}

func TestInteractionHandlerLogsEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &interactionStoreMock{}
	svc := service.NewInteractionService(store, nil, nil, true)
	h := NewInteractionHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = interactionRequest(t, dto.InteractionRequest{
		InteractionType: models.InteractionClick,
		EntityType:      models.EntityTire,
		EntityID:        "tire-001",
	})

	h.Log(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data dto.InteractionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Logged)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, models.DeviceMobile, store.inserted[0].DeviceClass)
}

func TestInteractionHandlerUnavailableStaysSuccessShaped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &interactionStoreMock{insertErr: &pq.Error{Code: "42P01"}}
	svc := service.NewInteractionService(store, nil, nil, true)
	h := NewInteractionHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = interactionRequest(t, dto.InteractionRequest{
		InteractionType: models.InteractionView,
		EntityType:      models.EntityTire,
	})

	h.Log(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.InteractionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Logged)
	assert.NotEmpty(t, envelope.Data.Note)
}

func TestInteractionHandlerRejectsInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewInteractionService(&interactionStoreMock{}, nil, nil, true)
	h := NewInteractionHandler(svc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = interactionRequest(t, map[string]string{"entity_type": models.EntityTire})

	h.Log(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
