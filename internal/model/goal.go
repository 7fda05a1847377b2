package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalType classifies a goal.
type GoalType string

const (
	GoalWeight   GoalType = "weight"
	GoalExercise GoalType = "exercise"
	GoalDiet     GoalType = "diet"
	GoalCustom   GoalType = "custom"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalWeight, GoalExercise, GoalDiet, GoalCustom:
		return true
	}
	return false
}

// Goal is a personal or group goal owned by one user.
type Goal struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;index"`
	Type         GoalType   `json:"type" gorm:"type:varchar(16);not null;index"`
	Title        string     `json:"title" gorm:"size:255;not null"`
	Description  string     `json:"description" gorm:"type:text"`
	TargetValue  *float64   `json:"target_value"`
	CurrentValue float64    `json:"current_value" gorm:"not null;default:0"`
	TargetDate   time.Time  `json:"target_date" gorm:"not null;index"`
	Completed    bool       `json:"completed" gorm:"not null;default:false;index"`
	IsGroupGoal  bool       `json:"is_group_goal" gorm:"not null;default:false"`
	GroupID      *uuid.UUID `json:"group_id" gorm:"type:char(36);index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps Completed in line with the progress values.
func (g *Goal) BeforeSave(tx *gorm.DB) error {
	g.EvaluateCompletion()
	return nil
}

// AfterFind recomputes Completed so stale rows are never reported as truth.
func (g *Goal) AfterFind(tx *gorm.DB) error {
	g.EvaluateCompletion()
	return nil
}

// EvaluateCompletion applies the completion rule: for every non-custom goal
// Completed is true exactly when CurrentValue >= TargetValue. Custom goals
// keep their manually set flag.
func (g *Goal) EvaluateCompletion() {
	if g.Type == GoalCustom {
		return
	}
	g.Completed = g.TargetValue != nil && g.CurrentValue >= *g.TargetValue
}

// InGroup reports whether the goal is attached to an existing group context.
func (g *Goal) InGroup() bool {
	return g.IsGroupGoal && g.GroupID != nil
}
