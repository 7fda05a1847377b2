package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultBodyWeight is used for calorie estimates when a user has no weight on file.
const DefaultBodyWeight = 70.0

// Activity coefficients in kcal per minute per kg.
var activityCoefficients = map[string]float64{
	"running":  0.20,
	"cycling":  0.13,
	"swimming": 0.25,
	"walking":  0.08,
}

const defaultActivityCoefficient = 0.10

// ActivityCoefficient returns the per-type constant used for calorie estimates.
func ActivityCoefficient(exerciseType string) float64 {
	if c, ok := activityCoefficients[exerciseType]; ok {
		return c
	}
	return defaultActivityCoefficient
}

// CaloriesBurned estimates calories for an activity, rounded to the nearest kcal.
func CaloriesBurned(exerciseType string, durationMinutes, bodyWeight float64) int {
	if bodyWeight <= 0 {
		bodyWeight = DefaultBodyWeight
	}
	return int(math.Round(durationMinutes * ActivityCoefficient(exerciseType) * bodyWeight))
}

// ExerciseEntry is a single logged activity owned by one user.
type ExerciseEntry struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index:idx_exercise_user_date"`
	ExerciseType   string    `json:"exercise_type" gorm:"size:64;not null"`
	Duration       float64   `json:"duration" gorm:"not null"` // minutes
	Distance       *float64  `json:"distance"`                 // km
	CaloriesBurned int       `json:"calories_burned"`
	Date           time.Time `json:"date" gorm:"not null;index:idx_exercise_user_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (e *ExerciseEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes CaloriesBurned from the entry's type and duration.
func (e *ExerciseEntry) Recalculate(bodyWeight float64) {
	e.CaloriesBurned = CaloriesBurned(e.ExerciseType, e.Duration, bodyWeight)
}
