package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is the optional self-reported gender on a physical profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// PhysicalDetails is the optional physical profile of a user.
type PhysicalDetails struct {
	Height *float64 `json:"height,omitempty" gorm:"column:height"` // cm
	Weight *float64 `json:"weight,omitempty" gorm:"column:weight"` // kg
	Age    *int     `json:"age,omitempty" gorm:"column:age"`
	Gender *Gender  `json:"gender,omitempty" gorm:"column:gender;size:16"`
}

// User represents a registered user.
//
// Goals and Groups are derived from the goals and group_members tables and
// are only populated by the service layer.
type User struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Username        string          `json:"username" gorm:"uniqueIndex;size:64;not null"`
	RealName        string          `json:"real_name" gorm:"size:255;not null"`
	Email           string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string          `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	PhysicalDetails PhysicalDetails `json:"physical_details" gorm:"embedded"`
	WeightHistory   []WeightEntry   `json:"weight_history" gorm:"foreignKey:UserID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Goals  []uuid.UUID `json:"goals" gorm:"-"`
	Groups []uuid.UUID `json:"groups" gorm:"-"`
	BMI    *float64    `json:"bmi,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CurrentWeight returns the profile weight, or def when unset.
func (u *User) CurrentWeight(def float64) float64 {
	if u.PhysicalDetails.Weight == nil || *u.PhysicalDetails.Weight <= 0 {
		return def
	}
	return *u.PhysicalDetails.Weight
}

// CalculateBMI returns weight / height(m)^2, or nil without both measurements.
func (u *User) CalculateBMI() *float64 {
	h, w := u.PhysicalDetails.Height, u.PhysicalDetails.Weight
	if h == nil || w == nil || *h <= 0 || *w <= 0 {
		return nil
	}
	meters := *h / 100
	bmi := *w / (meters * meters)
	return &bmi
}

// MemberSummary is the public view of a user inside a group.
type MemberSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	RealName string    `json:"real_name"`
}

// Summary returns the public member view of u.
func (u *User) Summary() MemberSummary {
	return MemberSummary{ID: u.ID, Username: u.Username, RealName: u.RealName}
}
