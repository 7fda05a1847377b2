package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthtracker/internal/model"
	"healthtracker/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateWeightRequest sets the current weight.
type UpdateWeightRequest struct {
	Weight float64 `json:"weight" validate:"required,gt=0"`
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	RealName        *string                `json:"real_name"`
	Email           *string                `json:"email" validate:"omitempty,email"`
	PhysicalDetails *model.PhysicalDetails `json:"physical_details"`
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateWeight godoc
// @Summary Record a new weight
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateWeightRequest true "Weight in kg"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/weight [put]
func (h *UserHandler) UpdateWeight(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req UpdateWeightRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateWeight(c.Request().Context(), userID, req.Weight)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, service.ProfileInput{
		RealName:        req.RealName,
		Email:           req.Email,
		PhysicalDetails: req.PhysicalDetails,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}
