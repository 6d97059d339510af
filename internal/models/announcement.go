package models

import "time"

// AnnouncementType controls how clients style an announcement.
type AnnouncementType string

const (
	AnnouncementInfo        AnnouncementType = "info"
	AnnouncementWarning     AnnouncementType = "warning"
	AnnouncementMaintenance AnnouncementType = "maintenance"
)

// Valid reports whether t is a known type.
func (t AnnouncementType) Valid() bool {
	return t == AnnouncementInfo || t == AnnouncementWarning || t == AnnouncementMaintenance
}

// Announcement is a platform-wide message published by an admin.
type Announcement struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Title       string           `gorm:"size:160;not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	Type        AnnouncementType `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	IsActive    bool             `gorm:"not null;index" json:"is_active"`
	CreatedByID uint             `gorm:"not null;index" json:"created_by_id"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Announcement) TableName() string {
	return "announcements"
}
