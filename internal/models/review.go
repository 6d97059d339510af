package models

import "time"

// Review is a rating left by one participant of a swap for the other.
type Review struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SwapRequestID uint      `gorm:"not null;uniqueIndex:idx_reviews_reviewer_swap,priority:2;index" json:"swap_request_id"`
	ReviewerID    uint      `gorm:"not null;uniqueIndex:idx_reviews_reviewer_swap,priority:1" json:"reviewer_id"`
	RevieweeID    uint      `gorm:"not null;index" json:"reviewee_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"reviewer,omitempty"`
}

// TableName specifies the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// ReviewSummary is the list of reviews a user received with their aggregate rating.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	Count         int      `json:"count"`
	AverageRating float64  `json:"average_rating"`
}
