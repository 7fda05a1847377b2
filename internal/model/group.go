package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a named set of users with a single admin and an invite code.
//
// Members and Goals are derived from group_members and goals and are filled
// in by the repository on read.
type Group struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	AdminID     uuid.UUID `json:"admin" gorm:"type:char(36);not null;index"`
	InviteCode  string    `json:"invite_code" gorm:"size:32;not null;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Members []uuid.UUID `json:"members" gorm:"-"`
	Goals   []uuid.UUID `json:"goals" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether userID is the group admin.
func (g *Group) IsAdmin(userID uuid.UUID) bool {
	return g.AdminID == userID
}

// HasMember reports whether userID is the admin or one of the loaded members.
func (g *Group) HasMember(userID uuid.UUID) bool {
	if g.IsAdmin(userID) {
		return true
	}
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// GroupMember is one row of the membership relation. It is the single source
// of truth for both a user's groups and a group's members.
type GroupMember struct {
	GroupID  uuid.UUID `json:"group_id" gorm:"type:char(36);primaryKey"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey;index"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`
}

// BeforeCreate stamps the join time.
func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

// GroupDetail is a group with admin and members resolved for display.
type GroupDetail struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InviteCode  string          `json:"invite_code"`
	Admin       MemberSummary   `json:"admin"`
	Members     []MemberSummary `json:"members"`
	Goals       []Goal          `json:"goals"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InviteResult reports the outcome of an invite operation.
type InviteResult struct {
	InviteCode string   `json:"invite_code"`
	InviteURL  string   `json:"invite_url"`
	SentEmails []string `json:"sent_emails"`
}
