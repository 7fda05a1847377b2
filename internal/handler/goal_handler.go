package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

// GoalHandler handles goal endpoints.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents a new goal.
type CreateGoalRequest struct {
	Type         model.GoalType `json:"type" validate:"required,oneof=weight exercise diet custom"`
	Title        string         `json:"title" validate:"required"`
	Description  string         `json:"description"`
	TargetValue  *float64       `json:"target_value"`
	CurrentValue *float64       `json:"current_value"`
	TargetDate   *time.Time     `json:"target_date" validate:"required"`
	IsGroupGoal  bool           `json:"is_group_goal"`
	GroupID      string         `json:"group_id"`
}

// UpdateGoalRequest carries optional goal changes.
type UpdateGoalRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	TargetValue  *float64   `json:"target_value"`
	CurrentValue *float64   `json:"current_value"`
	TargetDate   *time.Time `json:"target_date"`
	Completed    *bool      `json:"completed"`
}

// ProgressRequest reports progress on a goal.
type ProgressRequest struct {
	CurrentValue *float64 `json:"current_value" validate:"required"`
}

// Create godoc
// @Summary Create a personal or group goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "Goal"
// @Success 201 {object} model.Goal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals [post]
func (h *GoalHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.GoalInput{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		TargetDate:   req.TargetDate,
		IsGroupGoal:  req.IsGroupGoal,
	}
	if req.IsGroupGoal && req.GroupID != "" {
		groupID, err := uuid.Parse(req.GroupID)
		if err != nil {
			return respondError(errors.ErrGroupNotFound)
		}
		in.GroupID = &groupID
	}

	goal, err := h.goalService.Create(c.Request().Context(), userID, in)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, goal)
}

// List godoc
// @Summary List my goals by target date
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param type query string false "weight, exercise, diet or custom"
// @Param completed query bool false "Completion filter"
// @Success 200 {array} model.Goal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /goals [get]
func (h *GoalHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	filter := repository.GoalFilter{Type: model.GoalType(c.QueryParam("type"))}
	if v := c.QueryParam("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest("completed must be true or false")
		}
		filter.Completed = &completed
	}

	goals, err := h.goalService.List(c.Request().Context(), userID, filter)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, goals)
}

// ListGroup godoc
// @Summary List the goals of a group
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Success 200 {array} model.Goal
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/group/{groupId} [get]
func (h *GoalHandler) ListGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, err := pathID(c, "groupId", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}

	goals, err := h.goalService.ListGroupGoals(c.Request().Context(), userID, groupID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, goals)
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} model.Goal
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGoalNotFound)
	if err != nil {
		return err
	}

	goal, err := h.goalService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, goal)
}

// Update godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param request body UpdateGoalRequest true "Changes"
// @Success 200 {object} model.Goal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGoalNotFound)
	if err != nil {
		return err
	}
	var req UpdateGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	goal, err := h.goalService.Update(c.Request().Context(), userID, id, service.GoalUpdate{
		Title:        req.Title,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		TargetDate:   req.TargetDate,
		Completed:    req.Completed,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, goal)
}

// UpdateProgress godoc
// @Summary Report progress on a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param request body ProgressRequest true "Current value"
// @Success 200 {object} model.Goal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id}/progress [put]
func (h *GoalHandler) UpdateProgress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGoalNotFound)
	if err != nil {
		return err
	}
	var req ProgressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	goal, err := h.goalService.UpdateProgress(c.Request().Context(), userID, id, *req.CurrentValue)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, goal)
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGoalNotFound)
	if err != nil {
		return err
	}

	if err := h.goalService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "goal removed"})
}
