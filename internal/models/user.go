// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User is a SkillSwap member. Users are never hard-deleted by the application;
// private profiles are hidden via IsPublic instead.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"size:254;uniqueIndex;not null" json:"email,omitempty"`
	Password        string         `gorm:"size:255;not null" json:"-"`
	FirstName       string         `gorm:"size:80" json:"first_name"`
	LastName        string         `gorm:"size:80" json:"last_name"`
	ProfileImageURL string         `gorm:"size:512" json:"profile_image_url"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Location        string         `gorm:"size:120;index" json:"location"`
	IsPublic        bool           `gorm:"not null;index" json:"is_public"`
	IsAdmin         bool           `gorm:"not null" json:"is_admin"`
	LastActiveAt    *time.Time     `json:"last_active_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`
	Skills          []Skill        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"skills,omitempty"`
	Availability    []Availability `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"availability,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// RedactEmail blanks the address so it is left out of JSON shown to other users.
func (u *User) RedactEmail() {
	if u != nil {
		u.Email = ""
	}
}

// DisplayName joins first and last name, falling back to the email local part.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	IsPublic  *bool   `json:"is_public"`
}
