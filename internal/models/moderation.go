package models

import "time"

// UserModerationAction is an admin action taken against a user.
type UserModerationAction string

const (
	UserModerationWarn    UserModerationAction = "warn"
	UserModerationSuspend UserModerationAction = "suspend"
	UserModerationBan     UserModerationAction = "ban"
)

// Valid reports whether a is a known action.
func (a UserModerationAction) Valid() bool {
	return a == UserModerationWarn || a == UserModerationSuspend || a == UserModerationBan
}

// UserModeration records a moderation action against a user.
// A ban is in force while IsActive is set and ExpiresAt is nil or in the future.
type UserModeration struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	UserID      uint                 `gorm:"not null;index:idx_user_moderations_user_active,priority:1" json:"user_id"`
	ModeratorID uint                 `gorm:"not null;index" json:"moderator_id"`
	Action      UserModerationAction `gorm:"type:varchar(20);not null" json:"action"`
	Reason      string               `gorm:"type:text;not null" json:"reason"`
	ExpiresAt   *time.Time           `json:"expires_at"`
	IsActive    bool                 `gorm:"not null;index:idx_user_moderations_user_active,priority:2" json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`

	Moderator *User `gorm:"foreignKey:ModeratorID;constraint:OnDelete:CASCADE" json:"moderator,omitempty"`
	User      *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (UserModeration) TableName() string {
	return "user_moderations"
}

// InForceAt reports whether the record is active and unexpired at t.
func (m UserModeration) InForceAt(t time.Time) bool {
	return m.IsActive && (m.ExpiresAt == nil || m.ExpiresAt.After(t))
}

// SkillModerationAction is an admin action taken against a skill listing.
type SkillModerationAction string

const (
	SkillModerationFlag    SkillModerationAction = "flag"
	SkillModerationReject  SkillModerationAction = "reject"
	SkillModerationApprove SkillModerationAction = "approve"
)

// Valid reports whether a is a known action.
func (a SkillModerationAction) Valid() bool {
	return a == SkillModerationFlag || a == SkillModerationReject || a == SkillModerationApprove
}

// SkillModeration is an append-only audit entry for a skill.
type SkillModeration struct {
	ID          uint                  `gorm:"primaryKey" json:"id"`
	SkillID     uint                  `gorm:"not null;index" json:"skill_id"`
	ModeratorID uint                  `gorm:"not null;index" json:"moderator_id"`
	Action      SkillModerationAction `gorm:"type:varchar(20);not null" json:"action"`
	Reason      string                `gorm:"type:text" json:"reason"`
	CreatedAt   time.Time             `json:"created_at"`

	Moderator *User  `gorm:"foreignKey:ModeratorID;constraint:OnDelete:CASCADE" json:"moderator,omitempty"`
	Skill     *Skill `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (SkillModeration) TableName() string {
	return "skill_moderations"
}

// PlatformStats are the admin dashboard counters.
type PlatformStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalSkills    int64 `json:"total_skills"`
	ActiveSwaps    int64 `json:"active_swaps"`
	CompletedSwaps int64 `json:"completed_swaps"`
	PendingReports int64 `json:"pending_reports"`
	TotalReports   int64 `json:"total_reports"`
}

// PublicStats is the landing-page summary shown to anonymous visitors.
type PublicStats struct {
	ActiveUsers     int64 `json:"active_users"`
	SkillsOffered   int64 `json:"skills_offered"`
	SuccessfulSwaps int64 `json:"successful_swaps"`
}

// ActivityReport is the admin JSON export of platform content.
type ActivityReport struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	Users        []User        `json:"users"`
	SwapRequests []SwapRequest `json:"swap_requests"`
	Skills       []Skill       `json:"skills"`
	Reports      []Report      `json:"reports"`
}
