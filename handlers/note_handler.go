package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/middlewares"
	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
	"github.com/ecinar/unified-inbox/pkg/validator"
)

type NoteHandler struct {
	service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

type CreateNoteRequest struct {
	ThreadID  string `json:"threadId" validate:"required"`
	Content   string `json:"content" validate:"required,max=2000"`
	IsPrivate bool   `json:"isPrivate"`
}

// ListNotes godoc
// @Summary List notes for a thread
// @Description Retrieves a thread's team notes, newest first
// @Tags notes
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param threadId query string true "Thread ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/notes [get]
func (h *NoteHandler) ListNotes(c echo.Context) error {
	threadID := c.QueryParam("threadId")
	if threadID == "" {
		return response.BadRequestWithMessage(c, "Thread ID required")
	}

	notes, err := h.service.ListByThread(c.Request().Context(), threadID)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, notes)
}

// CreateNote godoc
// @Summary Create a note on a thread
// @Description Adds a team annotation to a thread
// @Tags notes
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param x-user-role header string true "Caller role (VIEWER, EDITOR, ADMIN)"
// @Param x-user-id header string true "Authenticated user id"
// @Param note body CreateNoteRequest true "Note to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	authorID := middlewares.UserIDFromContext(c)
	if authorID == "" {
		return response.Unauthorized(c)
	}

	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	note, err := h.service.Create(c.Request().Context(), req.ThreadID, authorID, req.Content, req.IsPrivate)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Note created successfully", note)
}
