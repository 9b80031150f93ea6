package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
	"github.com/ecinar/unified-inbox/pkg/validator"
)

type MessageHandler struct {
	service *service.MessageService
}

func NewMessageHandler(service *service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

type SendMessageRequest struct {
	ThreadID    string     `json:"threadId" validate:"required"`
	To          string     `json:"to" validate:"required"`
	Channel     string     `json:"channel" validate:"required,oneof=SMS WHATSAPP"`
	Text        string     `json:"text" validate:"required,max=1600"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	MediaURLs   []string   `json:"mediaUrls,omitempty" validate:"omitempty,dive,url"`
}

// SendMessage godoc
// @Summary Send or schedule a message
// @Description Sends a message immediately, or enqueues it when scheduledAt is supplied
// @Tags messages
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param x-user-role header string true "Caller role (VIEWER, EDITOR, ADMIN)"
// @Param message body SendMessageRequest true "Message to send"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Failure 500 {object} map[string]any
// @Router /api/v1/messages [post]
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	outcome, err := h.service.Send(c.Request().Context(), service.SendMessageInput{
		ThreadID:    req.ThreadID,
		To:          req.To,
		Channel:     domain.Channel(req.Channel),
		Text:        req.Text,
		ScheduledAt: req.ScheduledAt,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		// Provider or persistence failure on the immediate path.
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
	}

	if outcome.ScheduledID != "" {
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "scheduledId": outcome.ScheduledID})
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// GetThreadMessages godoc
// @Summary List messages in a thread
// @Description Retrieves a paginated list of a thread's messages, oldest first
// @Tags messages
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param threadId query string true "Thread ID"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [get]
func (h *MessageHandler) GetThreadMessages(c echo.Context) error {
	threadID := c.QueryParam("threadId")
	if threadID == "" {
		return response.BadRequestWithMessage(c, "Thread ID required")
	}

	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	messages, totalCount, err := h.service.ListByThread(c.Request().Context(), threadID, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, messages, page, pageSize, totalCount)
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
