package models

import "time"

// SkillLevel is the self-assessed proficiency for a skill.
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelExpert       SkillLevel = "expert"
)

// Valid reports whether l is one of the known levels.
func (l SkillLevel) Valid() bool {
	switch l {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelExpert:
		return true
	}
	return false
}

// SkillType says whether the user teaches or wants to learn the skill.
type SkillType string

const (
	SkillTypeOffered SkillType = "offered"
	SkillTypeWanted  SkillType = "wanted"
)

// Valid reports whether t is one of the known types.
func (t SkillType) Valid() bool {
	return t == SkillTypeOffered || t == SkillTypeWanted
}

// Skill is a skill a user offers or wants.
type Skill struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Name      string     `gorm:"size:80;not null" json:"name"`
	Level     SkillLevel `gorm:"type:varchar(20);not null" json:"level"`
	Type      SkillType  `gorm:"type:varchar(20);not null;index" json:"type"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}

// Availability is a weekly time window. DayOfWeek is 0 (Sunday) to 6; times are "HH:MM".
type Availability struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	DayOfWeek int       `gorm:"not null" json:"day_of_week"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Availability) TableName() string {
	return "availability"
}
