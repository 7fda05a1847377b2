package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealType classifies a diet entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// DietEntry is a single logged food item owned by one user.
type DietEntry struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index:idx_diet_user_date"`
	FoodName   string    `json:"food_name" gorm:"size:255;not null"`
	Calories   float64   `json:"calories" gorm:"not null"`
	MealType   MealType  `json:"meal_type" gorm:"type:varchar(16);not null"`
	CustomFood bool      `json:"custom_food" gorm:"default:false"`
	Date       time.Time `json:"date" gorm:"not null;index:idx_diet_user_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (d *DietEntry) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// MealTotals aggregates entries of one meal type.
type MealTotals struct {
	Count    int     `json:"count"`
	Calories float64 `json:"calories"`
}

// DietSummary is the calorie breakdown for one day.
type DietSummary struct {
	Date          string                  `json:"date"`
	TotalCalories float64                 `json:"total_calories"`
	MealSummary   map[MealType]MealTotals `json:"meal_summary"`
	EntryCount    int                     `json:"entry_count"`
}

// Summarize totals entries per meal type. Every meal type is present in the
// result, with zeros when no entry matched.
func Summarize(entries []DietEntry) DietSummary {
	summary := DietSummary{MealSummary: make(map[MealType]MealTotals, len(MealTypes))}
	for _, t := range MealTypes {
		summary.MealSummary[t] = MealTotals{}
	}
	for _, e := range entries {
		totals := summary.MealSummary[e.MealType]
		totals.Count++
		totals.Calories += e.Calories
		summary.MealSummary[e.MealType] = totals
		summary.TotalCalories += e.Calories
	}
	summary.EntryCount = len(entries)
	return summary
}

// DayBounds returns [00:00:00.000, 23:59:59.999] of day in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}
