package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"healthtracker/internal/errors"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

// ExerciseHandler handles exercise log endpoints.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	loc             *time.Location
}

// NewExerciseHandler creates a new exercise handler. Date-only query
// parameters are read in loc.
func NewExerciseHandler(exerciseService service.ExerciseService, loc *time.Location) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, loc: loc}
}

// CreateExerciseRequest represents a new exercise entry.
type CreateExerciseRequest struct {
	ExerciseType string     `json:"exercise_type" validate:"required"`
	Duration     float64    `json:"duration" validate:"required,gt=0"`
	Distance     *float64   `json:"distance" validate:"omitempty,gte=0"`
	Date         *time.Time `json:"date"`
}

// UpdateExerciseRequest carries optional exercise changes. Calories are
// always recomputed.
type UpdateExerciseRequest struct {
	ExerciseType *string    `json:"exercise_type"`
	Duration     *float64   `json:"duration" validate:"omitempty,gt=0"`
	Distance     *float64   `json:"distance" validate:"omitempty,gte=0"`
	Date         *time.Time `json:"date"`
}

// Create godoc
// @Summary Log an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExerciseRequest true "Exercise"
// @Success 201 {object} model.ExerciseEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /exercises [post]
func (h *ExerciseHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateExerciseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.exerciseService.Add(c.Request().Context(), userID, service.ExerciseInput{
		ExerciseType: req.ExerciseType,
		Duration:     req.Duration,
		Distance:     req.Distance,
		Date:         req.Date,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// List godoc
// @Summary List exercises, newest first
// @Tags exercises
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "End date (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {array} model.ExerciseEntry
// @Failure 401 {object} errors.ErrorResponse
// @Router /exercises [get]
func (h *ExerciseHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	from, to, err := queryRange(c, h.loc)
	if err != nil {
		return err
	}

	entries, err := h.exerciseService.List(c.Request().Context(), userID, repository.EntryFilter{From: from, To: to})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Get godoc
// @Summary Get an exercise
// @Tags exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} model.ExerciseEntry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrExerciseNotFound)
	if err != nil {
		return err
	}

	entry, err := h.exerciseService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Update godoc
// @Summary Update an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param request body UpdateExerciseRequest true "Changes"
// @Success 200 {object} model.ExerciseEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrExerciseNotFound)
	if err != nil {
		return err
	}
	var req UpdateExerciseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.exerciseService.Update(c.Request().Context(), userID, id, service.ExerciseUpdate{
		ExerciseType: req.ExerciseType,
		Duration:     req.Duration,
		Distance:     req.Distance,
		Date:         req.Date,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete an exercise
// @Tags exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrExerciseNotFound)
	if err != nil {
		return err
	}

	if err := h.exerciseService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "exercise removed"})
}
