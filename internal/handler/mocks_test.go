package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"healthtracker/internal/model"
	"healthtracker/internal/repository"
	"healthtracker/internal/service"
)

type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) Create(ctx context.Context, userID uuid.UUID, in service.GoalInput) (*model.Goal, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalService) List(ctx context.Context, userID uuid.UUID, filter repository.GoalFilter) ([]model.Goal, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Goal), args.Error(1)
}

func (m *MockGoalService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Goal, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalService) ListGroupGoals(ctx context.Context, userID, groupID uuid.UUID) ([]model.Goal, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Goal), args.Error(1)
}

func (m *MockGoalService) Update(ctx context.Context, userID, id uuid.UUID, in service.GoalUpdate) (*model.Goal, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalService) UpdateProgress(ctx context.Context, userID, id uuid.UUID, currentValue float64) (*model.Goal, error) {
	args := m.Called(ctx, userID, id, currentValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) Create(ctx context.Context, userID uuid.UUID, name, description string) (*model.Group, error) {
	args := m.Called(ctx, userID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockGroupService) Get(ctx context.Context, userID, id uuid.UUID) (*model.GroupDetail, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupDetail), args.Error(1)
}

func (m *MockGroupService) Update(ctx context.Context, userID, id uuid.UUID, in service.GroupUpdate) (*model.Group, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockGroupService) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*model.Group, error) {
	args := m.Called(ctx, userID, inviteCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) Leave(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockGroupService) TransferAdmin(ctx context.Context, userID, id, newAdminID uuid.UUID) (*model.Group, error) {
	args := m.Called(ctx, userID, id, newAdminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) Invite(ctx context.Context, userID, id uuid.UUID, emails []string) (*model.InviteResult, error) {
	args := m.Called(ctx, userID, id, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InviteResult), args.Error(1)
}

type MockDietService struct {
	mock.Mock
}

func (m *MockDietService) Add(ctx context.Context, userID uuid.UUID, in service.DietInput) (*model.DietEntry, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DietEntry), args.Error(1)
}

func (m *MockDietService) List(ctx context.Context, userID uuid.UUID, filter repository.EntryFilter) ([]model.DietEntry, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DietEntry), args.Error(1)
}

func (m *MockDietService) Get(ctx context.Context, userID, id uuid.UUID) (*model.DietEntry, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DietEntry), args.Error(1)
}

func (m *MockDietService) Update(ctx context.Context, userID, id uuid.UUID, in service.DietUpdate) (*model.DietEntry, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DietEntry), args.Error(1)
}

func (m *MockDietService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockDietService) Summary(ctx context.Context, userID uuid.UUID, day time.Time) (*model.DietSummary, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DietSummary), args.Error(1)
}
