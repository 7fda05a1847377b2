package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthtracker/internal/errors"
	"healthtracker/internal/service"
)

// GroupHandler handles group endpoints.
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest represents a new group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateGroupRequest carries optional group changes.
type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// InviteRequest lists the addresses to invite.
type InviteRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,required"`
}

// Create godoc
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGroupRequest true "Group"
// @Success 201 {object} model.Group
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /groups [post]
func (h *GroupHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	group, err := h.groupService.Create(c.Request().Context(), userID, req.Name, req.Description)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

// List godoc
// @Summary List my groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Group
// @Failure 401 {object} errors.ErrorResponse
// @Router /groups [get]
func (h *GroupHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	groups, err := h.groupService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// Get godoc
// @Summary Get a group with members resolved
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} model.GroupDetail
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}

	detail, err := h.groupService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Update godoc
// @Summary Update a group (admin only)
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body UpdateGroupRequest true "Changes"
// @Success 200 {object} model.Group
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}
	var req UpdateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	group, err := h.groupService.Update(c.Request().Context(), userID, id, service.GroupUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, group)
}

// Delete godoc
// @Summary Delete a group (admin only)
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}

	if err := h.groupService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "group removed"})
}

// Invite godoc
// @Summary Email invitations to a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body InviteRequest true "Recipients"
// @Success 200 {object} model.InviteResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/invite/{id} [post]
func (h *GroupHandler) Invite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}
	var req InviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.groupService.Invite(c.Request().Context(), userID, id, req.Emails)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Join godoc
// @Summary Join a group by invite code
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param inviteCode path string true "Invite code"
// @Success 200 {object} model.Group
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/join/{inviteCode} [post]
func (h *GroupHandler) Join(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	group, err := h.groupService.Join(c.Request().Context(), userID, c.Param("inviteCode"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, group)
}

// Leave godoc
// @Summary Leave a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id}/leave [delete]
func (h *GroupHandler) Leave(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}

	if err := h.groupService.Leave(c.Request().Context(), userID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "you have left the group"})
}

// TransferAdmin godoc
// @Summary Transfer admin rights to another member
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param userId path string true "New admin user ID"
// @Success 200 {object} model.Group
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /groups/{id}/admin/{userId} [put]
func (h *GroupHandler) TransferAdmin(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", errors.ErrGroupNotFound)
	if err != nil {
		return err
	}
	newAdminID, err := pathID(c, "userId", errors.ErrUserNotFound)
	if err != nil {
		return err
	}

	group, err := h.groupService.TransferAdmin(c.Request().Context(), userID, id, newAdminID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, group)
}
