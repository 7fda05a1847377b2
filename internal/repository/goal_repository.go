package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthtracker/internal/model"
)

// GoalFilter narrows goal listings.
type GoalFilter struct {
	Type      model.GoalType
	Completed *bool
}

// GoalRepository defines goal persistence operations. A goal row is the only
// record of the goal: the owner's and the group's goal sets are both queries
// over this table.
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter GoalFilter) ([]model.Goal, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]model.Goal, error)
	IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	IDsByGroup(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	DetachGroup(ctx context.Context, groupID uuid.UUID) error
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Goal{}).Error
}

func (r *goalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListByUser returns the user's goals ordered by target date. The completed
// filter is applied after the completion rule has been re-evaluated.
func (r *goalRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter GoalFilter) ([]model.Goal, error) {
	var goals []model.Goal
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if err := q.Order("target_date ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	if filter.Completed == nil {
		return goals, nil
	}
	filtered := goals[:0]
	for _, g := range goals {
		if g.Completed == *filter.Completed {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

func (r *goalRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("target_date ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *goalRepository) IDsByGroup(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).Where("group_id = ?", groupID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DetachGroup turns every goal of a group into a personal goal of its owner.
func (r *goalRepository) DetachGroup(ctx context.Context, groupID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("group_id = ?", groupID).
		Updates(map[string]interface{}{"is_group_goal": false, "group_id": nil}).Error
}
