package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apperrors "healthtracker/internal/errors"
	"healthtracker/internal/metrics"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

// GoalInput carries a new goal.
type GoalInput struct {
	Type         model.GoalType
	Title        string
	Description  string
	TargetValue  *float64
	CurrentValue *float64
	TargetDate   *time.Time
	IsGroupGoal  bool
	GroupID      *uuid.UUID
}

// GoalUpdate carries optional changes to a goal. Completed is honoured only
// for custom goals; for every other type it is derived from the values.
type GoalUpdate struct {
	Title        *string
	Description  *string
	TargetValue  *float64
	CurrentValue *float64
	TargetDate   *time.Time
	Completed    *bool
}

// GoalService manages personal and group goals.
type GoalService interface {
	Create(ctx context.Context, userID uuid.UUID, in GoalInput) (*model.Goal, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.GoalFilter) ([]model.Goal, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Goal, error)
	ListGroupGoals(ctx context.Context, userID, groupID uuid.UUID) ([]model.Goal, error)
	Update(ctx context.Context, userID, id uuid.UUID, in GoalUpdate) (*model.Goal, error)
	UpdateProgress(ctx context.Context, userID, id uuid.UUID, currentValue float64) (*model.Goal, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type goalService struct {
	goalRepo  repository.GoalRepository
	groupRepo repository.GroupRepository
	log       *logrus.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(goalRepo repository.GoalRepository, groupRepo repository.GroupRepository, log *logrus.Logger) GoalService {
	return &goalService{
		goalRepo:  goalRepo,
		groupRepo: groupRepo,
		log:       log,
	}
}

// Create persists a goal. A group goal requires the caller to belong to the
// group.
func (s *goalService) Create(ctx context.Context, userID uuid.UUID, in GoalInput) (*model.Goal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Type == "" || in.Title == "" || in.TargetDate == nil {
		return nil, apperrors.Validation("type, title and target date are required")
	}
	if !in.Type.Valid() {
		return nil, apperrors.Validation("type must be one of weight, exercise, diet, custom")
	}
	if in.Type != model.GoalCustom && in.TargetValue == nil {
		return nil, apperrors.Validation("target value is required unless the goal is custom")
	}

	goal := &model.Goal{
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		TargetValue: in.TargetValue,
		TargetDate:  *in.TargetDate,
	}
	if in.CurrentValue != nil {
		goal.CurrentValue = *in.CurrentValue
	}

	if in.IsGroupGoal {
		if in.GroupID == nil || *in.GroupID == uuid.Nil {
			return nil, apperrors.Validation("group id is required for a group goal")
		}
		group, err := s.findGroup(ctx, *in.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(userID) {
			return nil, apperrors.NotAuthorized("user not authorized to create goals for this group")
		}
		goal.IsGroupGoal = true
		goal.GroupID = &group.ID
	}

	goal.EvaluateCompletion()
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	if goal.Completed {
		metrics.GoalCompleted(string(goal.Type))
	}
	return goal, nil
}

// List returns the caller's goals ordered by target date.
func (s *goalService) List(ctx context.Context, userID uuid.UUID, filter repository.GoalFilter) ([]model.Goal, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperrors.Validation("type must be one of weight, exercise, diet, custom")
	}
	goals, err := s.goalRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals, nil
}

// Get returns a goal visible to the caller: its owner, or any member of its group.
func (s *goalService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Goal, error) {
	goal, group, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.UserID == userID || (group != nil && group.HasMember(userID)) {
		return goal, nil
	}
	return nil, apperrors.NotAuthorized("user not authorized")
}

// ListGroupGoals returns the goals of a group the caller belongs to.
func (s *goalService) ListGroupGoals(ctx context.Context, userID, groupID uuid.UUID) ([]model.Goal, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, apperrors.NotAuthorized("user not authorized to view this group's goals")
	}
	goals, err := s.goalRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group goals: %w", err)
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals, nil
}

// Update edits a goal. Personal goals are edited by their owner, group
// goals by the group admin.
func (s *goalService) Update(ctx context.Context, userID, id uuid.UUID, in GoalUpdate) (*model.Goal, error) {
	goal, group, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(goal, group, userID) {
		return nil, apperrors.NotAuthorized("user not authorized")
	}
	wasCompleted := goal.Completed

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.Validation("title cannot be empty")
		}
		goal.Title = title
	}
	if in.Description != nil {
		goal.Description = *in.Description
	}
	if in.TargetValue != nil {
		goal.TargetValue = in.TargetValue
	}
	if in.CurrentValue != nil {
		goal.CurrentValue = *in.CurrentValue
	}
	if in.TargetDate != nil {
		goal.TargetDate = *in.TargetDate
	}
	if in.Completed != nil && goal.Type == model.GoalCustom {
		goal.Completed = *in.Completed
	}

	return s.save(ctx, goal, wasCompleted)
}

// UpdateProgress sets the current value. Any group member may report
// progress on a group goal.
func (s *goalService) UpdateProgress(ctx context.Context, userID, id uuid.UUID, currentValue float64) (*model.Goal, error) {
	goal, group, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := goal.UserID == userID
	if group != nil {
		allowed = group.HasMember(userID)
	}
	if !allowed {
		return nil, apperrors.NotAuthorized("user not authorized")
	}

	wasCompleted := goal.Completed
	goal.CurrentValue = currentValue
	return s.save(ctx, goal, wasCompleted)
}

// Delete removes a goal. The goal disappears from its owner's and its
// group's goal sets with the row.
func (s *goalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	goal, group, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(goal, group, userID) {
		return apperrors.NotAuthorized("user not authorized")
	}
	if err := s.goalRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.log.WithFields(logrus.Fields{"goal_id": id, "user_id": userID}).Info("goal deleted")
	return nil
}

func (s *goalService) save(ctx context.Context, goal *model.Goal, wasCompleted bool) (*model.Goal, error) {
	goal.EvaluateCompletion()
	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if !wasCompleted && goal.Completed {
		metrics.GoalCompleted(string(goal.Type))
		s.log.WithFields(logrus.Fields{"goal_id": goal.ID, "type": goal.Type}).Info("goal completed")
	}
	return goal, nil
}

// load returns the goal and, for a goal attached to an existing group, the
// group with its members.
func (s *goalService) load(ctx context.Context, id uuid.UUID) (*model.Goal, *model.Group, error) {
	goal, err := s.goalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrGoalNotFound
		}
		return nil, nil, fmt.Errorf("find goal: %w", err)
	}
	if !goal.InGroup() {
		return goal, nil, nil
	}
	group, err := s.groupRepo.FindByID(ctx, *goal.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goal, nil, nil
		}
		return nil, nil, fmt.Errorf("find group: %w", err)
	}
	return goal, group, nil
}

func (s *goalService) findGroup(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return group, nil
}

func canManage(goal *model.Goal, group *model.Group, userID uuid.UUID) bool {
	if group != nil {
		return group.IsAdmin(userID)
	}
	return goal.UserID == userID
}
