package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

// ProfileInput carries optional profile changes. Nil fields are left as is.
type ProfileInput struct {
	RealName        *string
	Email           *string
	PhysicalDetails *model.PhysicalDetails
}

// UserService handles profile operations.
type UserService interface {
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateWeight(ctx context.Context, userID uuid.UUID, weight float64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	goalRepo  repository.GoalRepository
	groupRepo repository.GroupRepository
	tx        repository.TxManager
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	groupRepo repository.GroupRepository,
	tx repository.TxManager,
) UserService {
	return &userService{
		userRepo:  userRepo,
		goalRepo:  goalRepo,
		groupRepo: groupRepo,
		tx:        tx,
	}
}

// CurrentUser returns the user with weight history, goal and group ids and BMI.
func (s *userService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Goals, err = s.goalRepo.IDsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("list goal ids: %w", err)
	}
	if user.Groups, err = s.groupRepo.GroupIDsByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("list group ids: %w", err)
	}
	if user.WeightHistory == nil {
		user.WeightHistory = []model.WeightEntry{}
	}
	user.BMI = user.CalculateBMI()
	return user, nil
}

// UpdateWeight sets the current weight and appends it to the history.
func (s *userService) UpdateWeight(ctx context.Context, userID uuid.UUID, weight float64) (*model.User, error) {
	if weight <= 0 {
		return nil, apperrors.Validation("weight is required and must be positive")
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		user.PhysicalDetails.Weight = &weight
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		return repos.Users.AddWeightEntry(ctx, &model.WeightEntry{UserID: userID, Weight: weight})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update weight: %w", err)
	}
	return s.CurrentUser(ctx, userID)
}

// UpdateProfile applies the provided fields. A changed weight is also
// appended to the history.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.User, error) {
	if in.RealName != nil && strings.TrimSpace(*in.RealName) == "" {
		return nil, apperrors.Validation("real name cannot be empty")
	}
	if in.Email != nil && validate.Var(strings.TrimSpace(*in.Email), "required,email") != nil {
		return nil, apperrors.Validation("email is not valid")
	}
	if in.PhysicalDetails != nil {
		if err := validatePhysicalDetails(in.PhysicalDetails); err != nil {
			return nil, err
		}
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		if in.RealName != nil {
			user.RealName = strings.TrimSpace(*in.RealName)
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			if email != user.Email {
				existing, err := repos.Users.FindByEmail(ctx, email)
				if err == nil && existing.ID != user.ID {
					return apperrors.ErrDuplicateEmail
				}
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				user.Email = email
			}
		}

		var newWeight *float64
		if d := in.PhysicalDetails; d != nil {
			if d.Height != nil {
				user.PhysicalDetails.Height = d.Height
			}
			if d.Age != nil {
				user.PhysicalDetails.Age = d.Age
			}
			if d.Gender != nil {
				user.PhysicalDetails.Gender = d.Gender
			}
			if d.Weight != nil {
				if user.PhysicalDetails.Weight == nil || *user.PhysicalDetails.Weight != *d.Weight {
					newWeight = d.Weight
				}
				user.PhysicalDetails.Weight = d.Weight
			}
		}

		if err := repos.Users.Update(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateEmail
			}
			return err
		}
		if newWeight != nil {
			return repos.Users.AddWeightEntry(ctx, &model.WeightEntry{UserID: userID, Weight: *newWeight})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		if !apperrors.IsInternal(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.CurrentUser(ctx, userID)
}
