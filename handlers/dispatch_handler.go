package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/dispatcher"
	"github.com/ecinar/unified-inbox/pkg/response"
)

// DispatchHandler exposes the cron trigger and the background
// dispatcher's lifecycle controls.
type DispatchHandler struct {
	dispatcher *dispatcher.Dispatcher
	ctx        context.Context
}

func NewDispatchHandler(d *dispatcher.Dispatcher, ctx context.Context) *DispatchHandler {
	return &DispatchHandler{dispatcher: d, ctx: ctx}
}

// TriggerDispatch godoc
// @Summary Run one scheduled-send dispatch pass
// @Description Invoked by the external cron scheduler; processes due scheduled messages once
// @Tags jobs
// @Produce json
// @Param X-Cron-Secret header string true "Shared cron secret"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /api/v1/jobs/send-scheduled [get]
func (h *DispatchHandler) TriggerDispatch(c echo.Context) error {
	processed := h.dispatcher.RunOnce(c.Request().Context())

	return c.JSON(http.StatusOK, map[string]any{"ok": true, "processed": processed})
}

// StartDispatcher godoc
// @Summary Start the background dispatcher
// @Description Starts ticker-driven processing of due scheduled messages
// @Tags dispatcher
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/dispatcher/start [post]
func (h *DispatchHandler) StartDispatcher(c echo.Context) error {
	if h.dispatcher.IsRunning() {
		return response.OkWithMessage(c, "Dispatcher is already running", h.dispatcher.GetStatus())
	}

	if err := h.dispatcher.Start(h.ctx); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Dispatcher started successfully", h.dispatcher.GetStatus())
}

// StopDispatcher godoc
// @Summary Stop the background dispatcher
// @Description Stops ticker-driven processing; the cron trigger endpoint keeps working
// @Tags dispatcher
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/dispatcher/stop [post]
func (h *DispatchHandler) StopDispatcher(c echo.Context) error {
	if !h.dispatcher.IsRunning() {
		return response.OkWithMessage(c, "Dispatcher is already stopped", h.dispatcher.GetStatus())
	}

	if err := h.dispatcher.Stop(); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Dispatcher stopped successfully", h.dispatcher.GetStatus())
}

// GetDispatcherStatus godoc
// @Summary Get dispatcher status
// @Description Returns run statistics for the background dispatcher
// @Tags dispatcher
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/dispatcher/status [get]
func (h *DispatchHandler) GetDispatcherStatus(c echo.Context) error {
	return response.Ok(c, h.dispatcher.GetStatus())
}
