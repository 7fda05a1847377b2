package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "healthtracker/internal/errors"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

// ExerciseInput carries a new exercise entry.
type ExerciseInput struct {
	ExerciseType string
	Duration     float64
	Distance     *float64
	Date         *time.Time
}

// ExerciseUpdate carries optional changes to an exercise entry.
type ExerciseUpdate struct {
	ExerciseType *string
	Duration     *float64
	Distance     *float64
	Date         *time.Time
}

// ExerciseService manages the exercise log.
type ExerciseService interface {
	Add(ctx context.Context, userID uuid.UUID, in ExerciseInput) (*model.ExerciseEntry, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.EntryFilter) ([]model.ExerciseEntry, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.ExerciseEntry, error)
	Update(ctx context.Context, userID, id uuid.UUID, in ExerciseUpdate) (*model.ExerciseEntry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
	now          func() time.Time
}

// NewExerciseService creates a new exercise service.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, userRepo repository.UserRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

// Add logs an exercise. Calories are estimated from the owner's current weight.
func (s *exerciseService) Add(ctx context.Context, userID uuid.UUID, in ExerciseInput) (*model.ExerciseEntry, error) {
	in.ExerciseType = strings.TrimSpace(in.ExerciseType)
	if in.ExerciseType == "" || in.Duration <= 0 {
		return nil, apperrors.Validation("exercise type and a positive duration are required")
	}
	if in.Distance != nil && *in.Distance < 0 {
		return nil, apperrors.Validation("distance cannot be negative")
	}

	weight, err := s.bodyWeight(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := &model.ExerciseEntry{
		UserID:       userID,
		ExerciseType: in.ExerciseType,
		Duration:     in.Duration,
		Distance:     in.Distance,
		Date:         s.now(),
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}
	entry.Recalculate(weight)

	if err := s.exerciseRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return entry, nil
}

func (s *exerciseService) List(ctx context.Context, userID uuid.UUID, filter repository.EntryFilter) ([]model.ExerciseEntry, error) {
	entries, err := s.exerciseRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if entries == nil {
		entries = []model.ExerciseEntry{}
	}
	return entries, nil
}

func (s *exerciseService) Get(ctx context.Context, userID, id uuid.UUID) (*model.ExerciseEntry, error) {
	return s.owned(ctx, userID, id)
}

// Update applies the provided fields and recomputes calories from the
// resulting type and duration.
func (s *exerciseService) Update(ctx context.Context, userID, id uuid.UUID, in ExerciseUpdate) (*model.ExerciseEntry, error) {
	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.ExerciseType != nil {
		t := strings.TrimSpace(*in.ExerciseType)
		if t == "" {
			return nil, apperrors.Validation("exercise type cannot be empty")
		}
		entry.ExerciseType = t
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, apperrors.Validation("duration must be positive")
		}
		entry.Duration = *in.Duration
	}
	if in.Distance != nil {
		if *in.Distance < 0 {
			return nil, apperrors.Validation("distance cannot be negative")
		}
		entry.Distance = in.Distance
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}

	weight, err := s.bodyWeight(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry.Recalculate(weight)

	if err := s.exerciseRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	return entry, nil
}

func (s *exerciseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}

func (s *exerciseService) owned(ctx context.Context, userID, id uuid.UUID) (*model.ExerciseEntry, error) {
	entry, err := s.exerciseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExerciseNotFound
		}
		return nil, fmt.Errorf("find exercise: %w", err)
	}
	if entry.UserID != userID {
		return nil, apperrors.NotAuthorized("user not authorized")
	}
	return entry, nil
}

func (s *exerciseService) bodyWeight(ctx context.Context, userID uuid.UUID) (float64, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("find user: %w", err)
	}
	return user.CurrentWeight(model.DefaultBodyWeight), nil
}
