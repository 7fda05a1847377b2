package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

// DietHandler handles diet log endpoints.
type DietHandler struct {
	dietService service.DietService
	loc         *time.Location
}

// NewDietHandler creates a new diet handler.
func NewDietHandler(dietService service.DietService, loc *time.Location) *DietHandler {
	return &DietHandler{dietService: dietService, loc: loc}
}

// CreateDietRequest represents a new diet entry.
type CreateDietRequest struct {
	FoodName   string         `json:"food_name" validate:"required"`
	Calories   float64        `json:"calories" validate:"required,gt=0"`
	MealType   model.MealType `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	CustomFood bool           `json:"custom_food"`
	Date       *time.Time     `json:"date"`
}

// UpdateDietRequest carries optional diet entry changes.
type UpdateDietRequest struct {
	FoodName   *string         `json:"food_name"`
	Calories   *float64        `json:"calories" validate:"omitempty,gt=0"`
	MealType   *model.MealType `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	CustomFood *bool           `json:"custom_food"`
	Date       *time.Time      `json:"date"`
}

// Create godoc
// @Summary Log a food item
// @Tags diet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDietRequest true "Diet entry"
// @Success 201 {object} model.DietEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /diet [post]
func (h *DietHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateDietRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.dietService.Add(c.Request().Context(), userID, service.DietInput{
		FoodName:   req.FoodName,
		Calories:   req.Calories,
		MealType:   req.MealType,
		CustomFood: req.CustomFood,
		Date:       req.Date,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// List godoc
// @Summary List diet entries, newest first
// @Tags diet
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "End date (RFC 3339 or YYYY-MM-DD)"
// @Param meal_type query string false "breakfast, lunch, dinner or snack"
// @Success 200 {array} model.DietEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /diet [get]
func (h *DietHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	from, to, err := queryRange(c, h.loc)
	if err != nil {
		return err
	}

	entries, err := h.dietService.List(c.Request().Context(), userID, repository.EntryFilter{
		From:     from,
		To:       to,
		MealType: model.MealType(c.QueryParam("meal_type")),
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Summary godoc
// @Summary Daily calorie summary
// @Tags diet
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day (YYYY-MM-DD) in the server timezone"
// @Success 200 {object} model.DietSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /diet/summary [get]
func (h *DietHandler) Summary(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	v := c.QueryParam("date")
	if v == "" {
		return badRequest("date is required")
	}
	day, err := time.ParseInLocation("2006-01-02", v, h.loc)
	if err != nil {
		return badRequest("date must be YYYY-MM-DD")
	}

	summary, err := h.dietService.Summary(c.Request().Context(), userID, day)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Get godoc
// @Summary Get a diet entry
// @Tags diet
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diet entry ID"
// @Success 200 {object} model.DietEntry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /diet/{id} [get]
func (h *DietHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrDietNotFound)
	if err != nil {
		return err
	}

	entry, err := h.dietService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Update godoc
// @Summary Update a diet entry
// @Tags diet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diet entry ID"
// @Param request body UpdateDietRequest true "Changes"
// @Success 200 {object} model.DietEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /diet/{id} [put]
func (h *DietHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrDietNotFound)
	if err != nil {
		return err
	}
	var req UpdateDietRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.dietService.Update(c.Request().Context(), userID, id, service.DietUpdate{
		FoodName:   req.FoodName,
		Calories:   req.Calories,
		MealType:   req.MealType,
		CustomFood: req.CustomFood,
		Date:       req.Date,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete a diet entry
// @Tags diet
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diet entry ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /diet/{id} [delete]
func (h *DietHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrDietNotFound)
	if err != nil {
		return err
	}

	if err := h.dietService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "diet entry removed"})
}
