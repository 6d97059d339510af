package models

import "time"

// ReportContentType identifies what kind of content a report targets.
type ReportContentType string

const (
	ReportContentProfile ReportContentType = "profile"
	ReportContentSkill   ReportContentType = "skill"
	ReportContentBio     ReportContentType = "bio"
	ReportContentReview  ReportContentType = "review"
)

// Valid reports whether t is a known content type.
func (t ReportContentType) Valid() bool {
	switch t {
	case ReportContentProfile, ReportContentSkill, ReportContentBio, ReportContentReview:
		return true
	}
	return false
}

// ReportStatus is the review state of a report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusResolved ReportStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	return s == ReportStatusPending || s == ReportStatusReviewed || s == ReportStatusResolved
}

// Report is a user complaint about another user's content.
type Report struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	ReporterID     uint              `gorm:"not null;index" json:"reporter_id"`
	ReportedUserID *uint             `gorm:"index" json:"reported_user_id"`
	ContentType    ReportContentType `gorm:"type:varchar(20);not null" json:"content_type"`
	ContentID      string            `gorm:"size:64" json:"content_id"`
	Reason         string            `gorm:"size:255;not null" json:"reason"`
	Description    string            `gorm:"type:text" json:"description"`
	Status         ReportStatus      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	Reporter     *User `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"reporter,omitempty"`
	ReportedUser *User `gorm:"foreignKey:ReportedUserID;constraint:OnDelete:SET NULL" json:"reported_user,omitempty"`
}

// TableName specifies the table name for GORM
func (Report) TableName() string {
	return "reports"
}
