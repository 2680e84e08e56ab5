package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	CodeTypeEmailConfirmation = "email_confirmation"
	CodeTypePasswordReset     = "password_reset"
)

// Code is a short-lived single-use token tied to a user. Valid means not
// expired, not used and not revoked. A consumed code is marked used and kept.
type Code struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Value  string    `gorm:"size:10;not null" json:"value"`
	Type   string    `gorm:"type:varchar(30);not null" json:"type"`

	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Code) IsValid(now time.Time) bool {
	return !c.IsUsed && !c.IsRevoked && now.Before(c.ExpiresAt)
}

// GenerateCodeValue returns a random numeric code of the given length.
func GenerateCodeValue(length int) (string, error) {
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b[i] = digits[n.Int64()]
	}
	return string(b), nil
}
