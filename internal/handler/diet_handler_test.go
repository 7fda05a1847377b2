package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

func TestDietHandler_Summary(t *testing.T) {
	userID := uuid.New()
	loc := time.FixedZone("UTC+2", 2*60*60)

	t.Run("explicit date", func(t *testing.T) {
		svc := new(MockDietService)
		e := newTestServer(userID)
		e.GET("/diet/summary", NewDietHandler(svc, loc).Summary)

		day := time.Date(2024, 3, 5, 0, 0, 0, 0, loc)
		svc.On("Summary", mock.Anything, userID, mock.MatchedBy(func(d time.Time) bool { return d.Equal(day) })).Return(&model.DietSummary{Date: "2024-03-05", TotalCalories: 900, EntryCount: 2}, nil)

		rec := doRequest(e, http.MethodGet, "/diet/summary?date=2024-03-05", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_calories":900`)
		svc.AssertExpectations(t)
	})

	t.Run("date is required", func(t *testing.T) {
		svc := new(MockDietService)
		e := newTestServer(userID)
		e.GET("/diet/summary", NewDietHandler(svc, loc).Summary)

		rec := doRequest(e, http.MethodGet, "/diet/summary", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "date is required", decodeError(t, rec).Error)
		svc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("timestamps are rejected", func(t *testing.T) {
		svc := new(MockDietService)
		e := newTestServer(userID)
		e.GET("/diet/summary", NewDietHandler(svc, time.FixedZone("UTC-5", -5*60*60)).Summary)

		rec := doRequest(e, http.MethodGet, "/diet/summary?date=2024-03-10T00:00:00Z", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := new(MockDietService)
		e := newTestServer(userID)
		e.GET("/diet/summary", NewDietHandler(svc, loc).Summary)

		rec := doRequest(e, http.MethodGet, "/diet/summary?date=tomorrow", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDietHandler_List_MealType(t *testing.T) {
	userID := uuid.New()
	svc := new(MockDietService)
	e := newTestServer(userID)
	e.GET("/diet", NewDietHandler(svc, time.UTC).List)

	svc.On("List", mock.Anything, userID, mock.MatchedBy(func(f repository.EntryFilter) bool {
		return f.MealType == model.MealLunch && f.From == nil && f.To == nil
	})).Return([]model.DietEntry{}, nil)

	rec := doRequest(e, http.MethodGet, "/diet?meal_type=lunch", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDietHandler_Create_Validation(t *testing.T) {
	svc := new(MockDietService)
	e := newTestServer(uuid.New())
	e.POST("/diet", NewDietHandler(svc, time.UTC).Create)

	rec := doRequest(e, http.MethodPost, "/diet", `{"food_name":"Apple","calories":95,"meal_type":"brunch"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	svc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}
