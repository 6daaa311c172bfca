package handler

import (
	"context"
	"net/http"

	"persona-relay/internal/middleware"
	"persona-relay/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventResponder превращает событие в ответ персонажа. Реализация не должна возвращать ошибок.
type EventResponder interface {
	Respond(ctx context.Context, req models.EventRequest) models.EventResult
}

// EventHandler обрабатывает HTTP запросы игрового клиента.
type EventHandler struct {
	responder EventResponder
	logger    *zap.Logger
}

// NewEventHandler создает новый EventHandler.
func NewEventHandler(responder EventResponder, logger *zap.Logger) *EventHandler {
	registerJSONTagNames()
	return &EventHandler{
		responder: responder,
		logger:    logger.Named("EventHandler"),
	}
}

// RegisterRoutes регистрирует маршруты relay-сервиса.
func (h *EventHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", h.status)
	router.POST("/event", h.handleEvent)
}

func (h *EventHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Message: models.StatusMessage})
}

func (h *EventHandler) handleEvent(c *gin.Context) {
	var dto eventRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		handleBindError(c, err, h.logger)
		return
	}
	req := dto.toModel()
	requestID := middleware.RequestID(c)

	h.logger.Info("Event received",
		zap.String("request_id", requestID),
		zap.String("persona", req.Persona.PersonaName),
		zap.String("persona_type", req.Persona.PersonaType),
		zap.Int("harshness", req.Persona.Harshness),
		zap.String("event_text", req.EventText),
	)

	result := h.responder.Respond(c.Request.Context(), req)

	h.logger.Info("Event handled",
		zap.String("request_id", requestID),
		zap.String("action", result.Action),
		zap.String("commentary", result.Commentary),
		zap.Bool("fallback", result.IsFallback()),
	)
	c.JSON(http.StatusOK, result)
}
