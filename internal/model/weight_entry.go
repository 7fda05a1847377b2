package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeightEntry is one append-only point in a user's weight history.
type WeightEntry struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Weight     float64   `json:"weight" gorm:"not null"`
	RecordedAt time.Time `json:"date" gorm:"not null;index"`
}

// BeforeCreate sets UUID and timestamp before creating the record.
func (w *WeightEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.RecordedAt.IsZero() {
		w.RecordedAt = time.Now()
	}
	return nil
}
