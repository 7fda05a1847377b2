package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"healthtracker/internal/errors"
	"healthtracker/internal/model"
)

func TestGroupHandler_Create(t *testing.T) {
	userID := uuid.New()
	svc := new(MockGroupService)
	e := newTestServer(userID)
	e.POST("/groups", NewGroupHandler(svc).Create)

	svc.On("Create", mock.Anything, userID, "Runners", "Morning runs").
		Return(&model.Group{ID: uuid.New(), Name: "Runners", AdminID: userID, InviteCode: "a1b2c3d4"}, nil)

	rec := doRequest(e, http.MethodPost, "/groups", `{"name":"Runners","description":"Morning runs"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invite_code":"a1b2c3d4"`)
	svc.AssertExpectations(t)
}

func TestGroupHandler_Create_MissingName(t *testing.T) {
	svc := new(MockGroupService)
	e := newTestServer(uuid.New())
	e.POST("/groups", NewGroupHandler(svc).Create)

	rec := doRequest(e, http.MethodPost, "/groups", `{"description":"no name"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGroupHandler_Join(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "joined", wantStatus: http.StatusOK},
		{name: "unknown code", err: errors.ErrInvalidInvite, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "already a member", err: errors.ErrAlreadyMember, wantStatus: http.StatusBadRequest, wantCode: "ALREADY_MEMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockGroupService)
			e := newTestServer(userID)
			e.POST("/groups/join/:inviteCode", NewGroupHandler(svc).Join)

			if tt.err != nil {
				svc.On("Join", mock.Anything, userID, "a1b2c3d4").Return(nil, tt.err)
			} else {
				svc.On("Join", mock.Anything, userID, "a1b2c3d4").Return(&model.Group{ID: uuid.New()}, nil)
			}

			rec := doRequest(e, http.MethodPost, "/groups/join/a1b2c3d4", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGroupHandler_Leave_AdminForbidden(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()
	svc := new(MockGroupService)
	e := newTestServer(userID)
	e.DELETE("/groups/:id/leave", NewGroupHandler(svc).Leave)

	svc.On("Leave", mock.Anything, userID, groupID).Return(errors.ErrAdminCannotLeave)

	rec := doRequest(e, http.MethodDelete, "/groups/"+groupID.String()+"/leave", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
}

func TestGroupHandler_TransferAdmin(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()

	t.Run("malformed user id", func(t *testing.T) {
		svc := new(MockGroupService)
		e := newTestServer(userID)
		e.PUT("/groups/:id/admin/:userId", NewGroupHandler(svc).TransferAdmin)

		rec := doRequest(e, http.MethodPut, "/groups/"+groupID.String()+"/admin/bob", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "user not found", decodeError(t, rec).Error)
	})

	t.Run("transferred", func(t *testing.T) {
		newAdmin := uuid.New()
		svc := new(MockGroupService)
		e := newTestServer(userID)
		e.PUT("/groups/:id/admin/:userId", NewGroupHandler(svc).TransferAdmin)

		svc.On("TransferAdmin", mock.Anything, userID, groupID, newAdmin).
			Return(&model.Group{ID: groupID, AdminID: newAdmin}, nil)

		rec := doRequest(e, http.MethodPut, "/groups/"+groupID.String()+"/admin/"+newAdmin.String(), "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"admin":"`+newAdmin.String()+`"`)
		svc.AssertExpectations(t)
	})
}

func TestGroupHandler_Invite(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()

	t.Run("empty list", func(t *testing.T) {
		svc := new(MockGroupService)
		e := newTestServer(userID)
		e.POST("/groups/invite/:id", NewGroupHandler(svc).Invite)

		rec := doRequest(e, http.MethodPost, "/groups/invite/"+groupID.String(), `{"emails":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Invite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial delivery", func(t *testing.T) {
		svc := new(MockGroupService)
		e := newTestServer(userID)
		e.POST("/groups/invite/:id", NewGroupHandler(svc).Invite)

		emails := []string{"a@x.com", "b@x.com"}
		svc.On("Invite", mock.Anything, userID, groupID, emails).Return(&model.InviteResult{
			InviteCode: "a1b2c3d4",
			InviteURL:  "http://localhost:3000/join-group/a1b2c3d4",
			SentEmails: []string{"a@x.com"},
		}, nil)

		rec := doRequest(e, http.MethodPost, "/groups/invite/"+groupID.String(), `{"emails":["a@x.com","b@x.com"]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"invite_code":"a1b2c3d4","invite_url":"http://localhost:3000/join-group/a1b2c3d4","sent_emails":["a@x.com"]}`, rec.Body.String())
		svc.AssertExpectations(t)
	})
}
