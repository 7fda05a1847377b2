package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthtracker/internal/model"
)

// EntryFilter narrows entry listings. Zero values mean no constraint.
type EntryFilter struct {
	From     *time.Time
	To       *time.Time
	MealType model.MealType
}

func (f EntryFilter) apply(db *gorm.DB) *gorm.DB {
	if f.From != nil {
		db = db.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("date <= ?", *f.To)
	}
	return db
}

// ExerciseRepository defines exercise log persistence operations.
type ExerciseRepository interface {
	Create(ctx context.Context, entry *model.ExerciseEntry) error
	Update(ctx context.Context, entry *model.ExerciseEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExerciseEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]model.ExerciseEntry, error)
}

type exerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository creates a new exercise repository.
func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(ctx context.Context, entry *model.ExerciseEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *exerciseRepository) Update(ctx context.Context, entry *model.ExerciseEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *exerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ExerciseEntry{}).Error
}

func (r *exerciseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ExerciseEntry, error) {
	var entry model.ExerciseEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *exerciseRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]model.ExerciseEntry, error) {
	var entries []model.ExerciseEntry
	q := filter.apply(r.db.WithContext(ctx).Where("user_id = ?", userID))
	if err := q.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DietRepository defines diet log persistence operations.
type DietRepository interface {
	Create(ctx context.Context, entry *model.DietEntry) error
	Update(ctx context.Context, entry *model.DietEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DietEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]model.DietEntry, error)
}

type dietRepository struct {
	db *gorm.DB
}

// NewDietRepository creates a new diet repository.
func NewDietRepository(db *gorm.DB) DietRepository {
	return &dietRepository{db: db}
}

func (r *dietRepository) Create(ctx context.Context, entry *model.DietEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *dietRepository) Update(ctx context.Context, entry *model.DietEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *dietRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DietEntry{}).Error
}

func (r *dietRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DietEntry, error) {
	var entry model.DietEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *dietRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]model.DietEntry, error) {
	var entries []model.DietEntry
	q := filter.apply(r.db.WithContext(ctx).Where("user_id = ?", userID))
	if filter.MealType != "" {
		q = q.Where("meal_type = ?", filter.MealType)
	}
	if err := q.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
