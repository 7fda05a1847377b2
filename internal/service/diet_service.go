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

// DietInput carries a new diet entry.
type DietInput struct {
	FoodName   string
	Calories   float64
	MealType   model.MealType
	CustomFood bool
	Date       *time.Time
}

// DietUpdate carries optional changes to a diet entry.
type DietUpdate struct {
	FoodName   *string
	Calories   *float64
	MealType   *model.MealType
	CustomFood *bool
	Date       *time.Time
}

// DietService manages the diet log.
type DietService interface {
	Add(ctx context.Context, userID uuid.UUID, in DietInput) (*model.DietEntry, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.EntryFilter) ([]model.DietEntry, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.DietEntry, error)
	Update(ctx context.Context, userID, id uuid.UUID, in DietUpdate) (*model.DietEntry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID, day time.Time) (*model.DietSummary, error)
}

type dietService struct {
	dietRepo repository.DietRepository
	loc      *time.Location
	now      func() time.Time
}

// NewDietService creates a new diet service. Day boundaries for summaries
// are taken in loc.
func NewDietService(dietRepo repository.DietRepository, loc *time.Location) DietService {
	if loc == nil {
		loc = time.Local
	}
	return &dietService{
		dietRepo: dietRepo,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *dietService) Add(ctx context.Context, userID uuid.UUID, in DietInput) (*model.DietEntry, error) {
	in.FoodName = strings.TrimSpace(in.FoodName)
	if in.FoodName == "" || in.Calories <= 0 {
		return nil, apperrors.Validation("food name and positive calories are required")
	}
	if !in.MealType.Valid() {
		return nil, apperrors.Validation("meal type must be one of breakfast, lunch, dinner, snack")
	}

	entry := &model.DietEntry{
		UserID:     userID,
		FoodName:   in.FoodName,
		Calories:   in.Calories,
		MealType:   in.MealType,
		CustomFood: in.CustomFood,
		Date:       s.now(),
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}

	if err := s.dietRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create diet entry: %w", err)
	}
	return entry, nil
}

func (s *dietService) List(ctx context.Context, userID uuid.UUID, filter repository.EntryFilter) ([]model.DietEntry, error) {
	if filter.MealType != "" && !filter.MealType.Valid() {
		return nil, apperrors.Validation("meal type must be one of breakfast, lunch, dinner, snack")
	}
	entries, err := s.dietRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list diet entries: %w", err)
	}
	if entries == nil {
		entries = []model.DietEntry{}
	}
	return entries, nil
}

func (s *dietService) Get(ctx context.Context, userID, id uuid.UUID) (*model.DietEntry, error) {
	return s.owned(ctx, userID, id)
}

func (s *dietService) Update(ctx context.Context, userID, id uuid.UUID, in DietUpdate) (*model.DietEntry, error) {
	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.FoodName != nil {
		name := strings.TrimSpace(*in.FoodName)
		if name == "" {
			return nil, apperrors.Validation("food name cannot be empty")
		}
		entry.FoodName = name
	}
	if in.Calories != nil {
		if *in.Calories <= 0 {
			return nil, apperrors.Validation("calories must be positive")
		}
		entry.Calories = *in.Calories
	}
	if in.MealType != nil {
		if !in.MealType.Valid() {
			return nil, apperrors.Validation("meal type must be one of breakfast, lunch, dinner, snack")
		}
		entry.MealType = *in.MealType
	}
	if in.CustomFood != nil {
		entry.CustomFood = *in.CustomFood
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}

	if err := s.dietRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update diet entry: %w", err)
	}
	return entry, nil
}

func (s *dietService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.dietRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete diet entry: %w", err)
	}
	return nil
}

// Summary totals the entries logged on day, per meal type.
func (s *dietService) Summary(ctx context.Context, userID uuid.UUID, day time.Time) (*model.DietSummary, error) {
	start, end := model.DayBounds(day, s.loc)
	entries, err := s.dietRepo.ListByUser(ctx, userID, repository.EntryFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("list diet entries: %w", err)
	}
	summary := model.Summarize(entries)
	summary.Date = start.Format("2006-01-02")
	return &summary, nil
}

func (s *dietService) owned(ctx context.Context, userID, id uuid.UUID) (*model.DietEntry, error) {
	entry, err := s.dietRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDietNotFound
		}
		return nil, fmt.Errorf("find diet entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, apperrors.NotAuthorized("user not authorized")
	}
	return entry, nil
}
