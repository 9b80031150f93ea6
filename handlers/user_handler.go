package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/response"
	"github.com/ecinar/unified-inbox/pkg/validator"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=VIEWER EDITOR ADMIN"`
}

const userListLimit = 100

// ListUsers godoc
// @Summary List dashboard users
// @Tags users
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param x-user-role header string true "Caller role (VIEWER, EDITOR, ADMIN)"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.service.List(c.Request().Context(), userListLimit)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, users)
}

// CreateUser godoc
// @Summary Create a dashboard user
// @Tags users
// @Accept json
// @Produce json
// @Param x-inbox-auth-key header string true "API key"
// @Param x-user-role header string true "Caller role (VIEWER, EDITOR, ADMIN)"
// @Param user body CreateUserRequest true "User to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	user, err := h.service.Create(c.Request().Context(), req.Email, req.FirstName, req.LastName, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return response.Conflict(c, "User already exists")
		}
		return response.BadRequest(c, err)
	}

	return response.Created(c, "User created successfully", user)
}
