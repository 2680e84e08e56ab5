package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat between a recruiter-side user and an expert-side
// user, optionally anchored to the match that introduced them.
type Conversation struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	RecruiterUserID uuid.UUID  `gorm:"type:uuid;index" json:"recruiter_user_id"`
	ExpertUserID    uuid.UUID  `gorm:"type:uuid;index" json:"expert_user_id"`
	MatchID         *uuid.UUID `gorm:"type:uuid;index" json:"match_id,omitempty"`

	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	RecruiterUser *User     `gorm:"foreignKey:RecruiterUserID" json:"recruiter_user,omitempty"`
	ExpertUser    *User     `gorm:"foreignKey:ExpertUserID" json:"expert_user,omitempty"`
	Messages      []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Message belongs to a conversation. The receiver is the other participant.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;index" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;index" json:"sender_id"`
	Type           string     `gorm:"default:'text'" json:"type"` // text, system
	Text           string     `json:"text"`
	IsRead         bool       `gorm:"default:false" json:"is_read"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
