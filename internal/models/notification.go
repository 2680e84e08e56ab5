package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification types pushed over the realtime channel and persisted here so
// missed pushes stay recoverable through the paged list endpoint.
const (
	NotificationNewMatch       = "NewMatch"
	NotificationMatchAccepted  = "MatchAccepted"
	NotificationMatchRejected  = "MatchRejected"
	NotificationMatchCompleted = "MatchCompleted"
	NotificationChatMessage    = "ChatMessage"
)

type Notification struct {
	ID      uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID  uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	Type    string         `gorm:"type:varchar(40);not null" json:"type"`
	Content string         `json:"content"`
	Data    datatypes.JSON `json:"data,omitempty"`

	IsRead bool       `gorm:"default:false" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
