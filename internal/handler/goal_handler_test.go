package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

func TestGoalHandler_Create(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()

	t.Run("group goal", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.POST("/goals", NewGoalHandler(svc).Create)

		target := 10.0
		created := &model.Goal{ID: uuid.New(), UserID: userID, Type: model.GoalExercise, Title: "Run 10 times", TargetValue: &target, IsGroupGoal: true, GroupID: &groupID}
		svc.On("Create", mock.Anything, userID, mock.MatchedBy(func(in service.GoalInput) bool {
			return in.Type == model.GoalExercise &&
				in.Title == "Run 10 times" &&
				in.IsGroupGoal &&
				in.GroupID != nil && *in.GroupID == groupID &&
				in.TargetDate != nil && in.TargetDate.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		})).Return(created, nil)

		body := `{"type":"exercise","title":"Run 10 times","target_value":10,"target_date":"2030-01-01T00:00:00Z","is_group_goal":true,"group_id":"` + groupID.String() + `"}`
		rec := doRequest(e, http.MethodPost, "/goals", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got model.Goal
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("malformed group id is not found", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.POST("/goals", NewGoalHandler(svc).Create)

		body := `{"type":"exercise","title":"Run","target_date":"2030-01-01T00:00:00Z","is_group_goal":true,"group_id":"nope"}`
		rec := doRequest(e, http.MethodPost, "/goals", body)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "group not found", decodeError(t, rec).Error)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing target date", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.POST("/goals", NewGoalHandler(svc).Create)

		rec := doRequest(e, http.MethodPost, "/goals", `{"type":"custom","title":"Sleep more"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown type", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.POST("/goals", NewGoalHandler(svc).Create)

		rec := doRequest(e, http.MethodPost, "/goals", `{"type":"sleep","title":"Sleep more","target_date":"2030-01-01T00:00:00Z"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGoalHandler_List(t *testing.T) {
	userID := uuid.New()

	t.Run("completed filter", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.GET("/goals", NewGoalHandler(svc).List)

		svc.On("List", mock.Anything, userID, mock.MatchedBy(func(f repository.GoalFilter) bool {
			return f.Type == model.GoalWeight && f.Completed != nil && *f.Completed
		})).Return([]model.Goal{}, nil)

		rec := doRequest(e, http.MethodGet, "/goals?type=weight&completed=true", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("bad completed value", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.GET("/goals", NewGoalHandler(svc).List)

		rec := doRequest(e, http.MethodGet, "/goals?completed=maybe", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGoalHandler_Get_MalformedID(t *testing.T) {
	svc := new(MockGoalService)
	e := newTestServer(uuid.New())
	e.GET("/goals/:id", NewGoalHandler(svc).Get)

	rec := doRequest(e, http.MethodGet, "/goals/not-a-uuid", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "goal not found", decodeError(t, rec).Error)
}

func TestGoalHandler_UpdateProgress(t *testing.T) {
	userID := uuid.New()
	goalID := uuid.New()

	t.Run("not authorized", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.PUT("/goals/:id/progress", NewGoalHandler(svc).UpdateProgress)

		svc.On("UpdateProgress", mock.Anything, userID, goalID, 5.0).
			Return(nil, errors.NotAuthorized("user not authorized"))

		rec := doRequest(e, http.MethodPut, "/goals/"+goalID.String()+"/progress", `{"current_value":5}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "NOT_AUTHORIZED", decodeError(t, rec).Code)
		svc.AssertExpectations(t)
	})

	t.Run("zero progress is accepted", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.PUT("/goals/:id/progress", NewGoalHandler(svc).UpdateProgress)

		svc.On("UpdateProgress", mock.Anything, userID, goalID, 0.0).
			Return(&model.Goal{ID: goalID}, nil)

		rec := doRequest(e, http.MethodPut, "/goals/"+goalID.String()+"/progress", `{"current_value":0}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing value", func(t *testing.T) {
		svc := new(MockGoalService)
		e := newTestServer(userID)
		e.PUT("/goals/:id/progress", NewGoalHandler(svc).UpdateProgress)

		rec := doRequest(e, http.MethodPut, "/goals/"+goalID.String()+"/progress", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGoalHandler_Delete(t *testing.T) {
	userID := uuid.New()
	goalID := uuid.New()
	svc := new(MockGoalService)
	e := newTestServer(userID)
	e.DELETE("/goals/:id", NewGoalHandler(svc).Delete)

	svc.On("Delete", mock.Anything, userID, goalID).Return(nil)

	rec := doRequest(e, http.MethodDelete, "/goals/"+goalID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"goal removed"}`, rec.Body.String())
	svc.AssertExpectations(t)
}
