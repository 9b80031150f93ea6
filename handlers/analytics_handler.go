package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetAnalytics godoc
// @Summary Get messaging analytics
// @Description Returns message/contact totals, per-channel counts, and 7-day volume
// @Tags analytics
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, summary)
}
