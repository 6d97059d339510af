package models

import "time"

// SwapStatus represents the lifecycle state of a swap request.
type SwapStatus string

const (
	// SwapStatusPending is the initial state, awaiting the receiver's answer.
	SwapStatusPending SwapStatus = "pending"
	// SwapStatusAccepted means the receiver agreed to the exchange.
	SwapStatusAccepted SwapStatus = "accepted"
	// SwapStatusRejected means the receiver declined. Terminal.
	SwapStatusRejected SwapStatus = "rejected"
	// SwapStatusCompleted means the exchange happened. Terminal.
	SwapStatusCompleted SwapStatus = "completed"
	// SwapStatusCancelled means either party withdrew. Terminal.
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s SwapStatus) Terminal() bool {
	return s == SwapStatusRejected || s == SwapStatusCompleted || s == SwapStatusCancelled
}

// SwapRole identifies which side of a swap request a user is on.
type SwapRole int

const (
	SwapRoleNone SwapRole = iota
	SwapRoleRequester
	SwapRoleReceiver
)

// swapTransitions lists, per source state, the allowed targets and the roles that may trigger them.
var swapTransitions = map[SwapStatus]map[SwapStatus][]SwapRole{
	SwapStatusPending: {
		SwapStatusAccepted:  {SwapRoleReceiver},
		SwapStatusRejected:  {SwapRoleReceiver},
		SwapStatusCancelled: {SwapRoleRequester, SwapRoleReceiver},
	},
	SwapStatusAccepted: {
		SwapStatusCompleted: {SwapRoleRequester, SwapRoleReceiver},
		SwapStatusCancelled: {SwapRoleRequester, SwapRoleReceiver},
	},
}

// CanTransition reports whether from -> to exists at all, and whether role may perform it.
func CanTransition(from, to SwapStatus, role SwapRole) (allowed bool, permitted bool) {
	roles, ok := swapTransitions[from][to]
	if !ok {
		return false, false
	}
	for _, r := range roles {
		if r == role {
			return true, true
		}
	}
	return true, false
}

// SwapRequest is a proposal from one user to another to exchange skills.
type SwapRequest struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	RequesterID      uint       `gorm:"not null;index" json:"requester_id"`
	ReceiverID       uint       `gorm:"not null;index" json:"receiver_id"`
	OfferedSkillID   *uint      `gorm:"index" json:"offered_skill_id"`
	RequestedSkillID *uint      `gorm:"index" json:"requested_skill_id"`
	Message          string     `gorm:"type:text" json:"message"`
	Status           SwapStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ProposedTime     *time.Time `json:"proposed_time"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Requester      *User    `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Receiver       *User    `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
	OfferedSkill   *Skill   `gorm:"foreignKey:OfferedSkillID;constraint:OnDelete:SET NULL" json:"offered_skill,omitempty"`
	RequestedSkill *Skill   `gorm:"foreignKey:RequestedSkillID;constraint:OnDelete:SET NULL" json:"requested_skill,omitempty"`
	Reviews        []Review `gorm:"foreignKey:SwapRequestID;constraint:OnDelete:CASCADE" json:"reviews"`
}

// TableName specifies the table name for GORM
func (SwapRequest) TableName() string {
	return "swap_requests"
}

// RoleOf returns the role userID plays in the request.
func (r *SwapRequest) RoleOf(userID uint) SwapRole {
	switch userID {
	case r.RequesterID:
		return SwapRoleRequester
	case r.ReceiverID:
		return SwapRoleReceiver
	default:
		return SwapRoleNone
	}
}

// Counterpart returns the other participant's ID, or 0 if userID is not a participant.
func (r *SwapRequest) Counterpart(userID uint) uint {
	switch userID {
	case r.RequesterID:
		return r.ReceiverID
	case r.ReceiverID:
		return r.RequesterID
	default:
		return 0
	}
}
