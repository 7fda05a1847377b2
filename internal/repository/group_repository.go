package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthtracker/internal/model"
)

// GroupRepository defines group and membership persistence operations.
// Membership rows are the single record behind both group.Members and a
// user's group list.
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	FindByInviteCode(ctx context.Context, code string) (*model.Group, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Group, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	DeleteMembers(ctx context.Context, groupID uuid.UUID) error
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	GroupIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Update saves name, description and admin. The invite code is immutable.
func (r *groupRepository) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Model(group).
		Select("name", "description", "admin_id").
		Updates(group).Error
}

func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Group{}).Error
}

// FindByID returns the group with its member ids loaded.
func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, []*model.Group{&group}); err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByInviteCode returns the group with its member ids loaded.
func (r *groupRepository) FindByInviteCode(ctx context.Context, code string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&group).Error; err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, []*model.Group{&group}); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByMember returns every group userID belongs to.
func (r *groupRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN `group_members` ON `group_members`.`group_id` = `groups`.`id`").
		Where("`group_members`.`user_id` = ?", userID).
		Order("`groups`.`created_at` ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	ptrs := make([]*model.Group, len(groups))
	for i := range groups {
		ptrs[i] = &groups[i]
	}
	if err := r.loadMembers(ctx, ptrs); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) loadMembers(ctx context.Context, groups []*model.Group) error {
	if len(groups) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(groups))
	byID := make(map[uuid.UUID]*model.Group, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		g.Members = []uuid.UUID{}
		byID[g.ID] = g
	}

	var rows []model.GroupMember
	if err := r.db.WithContext(ctx).Where("group_id IN ?", ids).Order("joined_at ASC").Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		if g, ok := byID[row.GroupID]; ok {
			g.Members = append(g.Members, row.UserID)
		}
	}
	return nil
}

// AddMember inserts a membership row. A second insert of the same pair fails
// with gorm.ErrDuplicatedKey.
func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&model.GroupMember{GroupID: groupID, UserID: userID}).Error
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.GroupMember{}).Error
}

func (r *groupRepository) DeleteMembers(ctx context.Context, groupID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&model.GroupMember{}).Error
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepository) GroupIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
