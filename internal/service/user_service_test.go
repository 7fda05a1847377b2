package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

type userFixture struct {
	users  *MockUserRepository
	goals  *MockGoalRepository
	groups *MockGroupRepository
	tx     *fakeTx
	svc    UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:  new(MockUserRepository),
		goals:  new(MockGoalRepository),
		groups: new(MockGroupRepository),
	}
	f.tx = &fakeTx{repos: repository.Repositories{Users: f.users, Goals: f.goals, Groups: f.groups}}
	f.svc = NewUserService(f.users, f.goals, f.groups, f.tx)
	return f
}

func TestUserService_CurrentUser(t *testing.T) {
	f := newUserFixture()
	userID := uuid.New()
	goalIDs := []uuid.UUID{uuid.New()}
	groupIDs := []uuid.UUID{uuid.New(), uuid.New()}
	f.users.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:              userID,
		Username:        "alice",
		PhysicalDetails: model.PhysicalDetails{Height: ptr(180.0), Weight: ptr(81.0)},
	}, nil)
	f.goals.On("IDsByUser", mock.Anything, userID).Return(goalIDs, nil)
	f.groups.On("GroupIDsByUser", mock.Anything, userID).Return(groupIDs, nil)

	user, err := f.svc.CurrentUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, goalIDs, user.Goals)
	assert.Equal(t, groupIDs, user.Groups)
	require.NotNil(t, user.BMI)
	assert.InDelta(t, 25.0, *user.BMI, 0.001)
	assert.NotNil(t, user.WeightHistory)
}

func TestUserService_CurrentUser_NotFound(t *testing.T) {
	f := newUserFixture()
	f.users.On("FindByID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.CurrentUser(context.Background(), uuid.New())

	assert.Equal(t, apperrors.ErrUserNotFound, err)
}

func TestUserService_UpdateWeight(t *testing.T) {
	t.Run("rejects non-positive weight", func(t *testing.T) {
		f := newUserFixture()
		_, err := f.svc.UpdateWeight(context.Background(), uuid.New(), 0)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("sets weight and appends history in one transaction", func(t *testing.T) {
		f := newUserFixture()
		userID := uuid.New()
		user := &model.User{ID: userID}
		f.users.On("FindByID", mock.Anything, userID).Return(user, nil)
		f.users.On("Update", mock.Anything, user).Return(nil)
		f.users.On("AddWeightEntry", mock.Anything, mock.MatchedBy(func(e *model.WeightEntry) bool {
			return e.UserID == userID && e.Weight == 75
		})).Return(nil)
		f.goals.On("IDsByUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)
		f.groups.On("GroupIDsByUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)

		updated, err := f.svc.UpdateWeight(context.Background(), userID, 75)

		require.NoError(t, err)
		assert.Equal(t, 75.0, *updated.PhysicalDetails.Weight)
		assert.Equal(t, 1, f.tx.calls)
		f.users.AssertExpectations(t)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		f := newUserFixture()
		userID := uuid.New()
		f.users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "old@example.com"}, nil)
		f.users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: uuid.New()}, nil)

		_, err := f.svc.UpdateProfile(context.Background(), userID, ProfileInput{Email: ptr("taken@example.com")})

		assert.Equal(t, apperrors.ErrDuplicateEmail, err)
	})

	t.Run("unchanged weight is not appended", func(t *testing.T) {
		f := newUserFixture()
		userID := uuid.New()
		user := &model.User{ID: userID, RealName: "Old", PhysicalDetails: model.PhysicalDetails{Weight: ptr(70.0)}}
		f.users.On("FindByID", mock.Anything, userID).Return(user, nil)
		f.users.On("Update", mock.Anything, user).Return(nil)
		f.goals.On("IDsByUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)
		f.groups.On("GroupIDsByUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)

		updated, err := f.svc.UpdateProfile(context.Background(), userID, ProfileInput{
			RealName:        ptr("New Name"),
			PhysicalDetails: &model.PhysicalDetails{Weight: ptr(70.0), Age: ptr(30)},
		})

		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.RealName)
		assert.Equal(t, 30, *updated.PhysicalDetails.Age)
		f.users.AssertNotCalled(t, "AddWeightEntry", mock.Anything, mock.Anything)
	})

	t.Run("changed weight is appended", func(t *testing.T) {
		f := newUserFixture()
		userID := uuid.New()
		user := &model.User{ID: userID, PhysicalDetails: model.PhysicalDetails{Weight: ptr(70.0)}}
		f.users.On("FindByID", mock.Anything, userID).Return(user, nil)
		f.users.On("Update", mock.Anything, user).Return(nil)
		f.users.On("AddWeightEntry", mock.Anything, mock.AnythingOfType("*model.WeightEntry")).Return(nil)
		f.goals.On("IDsByUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)
		f.groups.On("GroupIDsByUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)

		_, err := f.svc.UpdateProfile(context.Background(), userID, ProfileInput{
			PhysicalDetails: &model.PhysicalDetails{Weight: ptr(68.0)},
		})

		require.NoError(t, err)
		f.users.AssertExpectations(t)
	})
}
