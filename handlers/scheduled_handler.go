package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
)

type ScheduledHandler struct {
	service *service.MessageService
}

func NewScheduledHandler(service *service.MessageService) *ScheduledHandler {
	return &ScheduledHandler{service: service}
}

// ListScheduled godoc
// @Summary List scheduled messages for a thread
// @Description Returns a thread's scheduled messages ordered by due time ascending
// @Tags scheduled-messages
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param threadId query string true "Thread ID"
// @Success 200 {array} domain.ScheduledMessage
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/scheduled-messages [get]
func (h *ScheduledHandler) ListScheduled(c echo.Context) error {
	threadID := c.QueryParam("threadId")
	if threadID == "" {
		return response.BadRequestWithMessage(c, "Thread ID required")
	}

	jobs, err := h.service.ListScheduledByThread(c.Request().Context(), threadID)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return c.JSON(http.StatusOK, jobs)
}
