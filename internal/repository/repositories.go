package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by every repository when a row does not exist, so
// services never depend on the driver's sentinel errors.
var ErrNotFound = errors.New("record not found")

type Repositories struct {
	User         UserRepository
	Match        MatchRepository
	Notification NotificationRepository
	Code         CodeRepository
	Chat         ChatRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Match:        NewMatchRepository(db),
		Notification: NewNotificationRepository(db),
		Code:         NewCodeRepository(db),
		Chat:         NewChatRepository(db),
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
