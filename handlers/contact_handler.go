package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
	"github.com/ecinar/unified-inbox/pkg/validator"
)

type ContactHandler struct {
	service *service.ContactService
}

func NewContactHandler(service *service.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type CreateContactRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

const contactListLimit = 100

// ListContacts godoc
// @Summary List contacts
// @Description Retrieves contacts newest first, each with its latest thread
// @Tags contacts
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/contacts [get]
func (h *ContactHandler) ListContacts(c echo.Context) error {
	contacts, err := h.service.List(c.Request().Context(), contactListLimit)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, contacts)
}

// GetContact godoc
// @Summary Get a contact
// @Description Retrieves one contact with all of its threads
// @Tags contacts
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param id path string true "Contact id"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) GetContact(c echo.Context) error {
	detail, err := h.service.GetDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if detail == nil {
		return response.NotFound(c, "Contact not found")
	}

	return response.Ok(c, detail)
}

// CreateContact godoc
// @Summary Create a contact
// @Description Creates a contact; at least one of phone/email is required
// @Tags contacts
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param x-user-role header string true "Caller role (VIEWER, EDITOR, ADMIN)"
// @Param contact body CreateContactRequest true "Contact to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/contacts [post]
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	contact, err := h.service.Create(c.Request().Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrContactExists) {
			return response.Conflict(c, "Contact already exists")
		}
		return response.BadRequest(c, err)
	}

	return response.Created(c, "Contact created successfully", contact)
}
