package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/pagination"
	"github.com/talentlink-app/talentlink_be/internal/realtime"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

// Notifier is the realtime push side channel. Implemented by
// realtime.Notifier; faked in tests.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{})
}

// UserLookup is the slice of the user repository the feed needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type DTO struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Type      string      `json:"type"`
	Content   string      `json:"content"`
	Data      interface{} `json:"data,omitempty"`
	IsRead    bool        `json:"is_read"`
	ReadAt    *time.Time  `json:"read_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// Service owns the persisted notification feed. Writes always commit to the
// store first; the realtime push after is best effort and may be lost when
// the user has no open connection.
type Service struct {
	notifications repository.NotificationRepository
	users         UserLookup
	notifier      Notifier
}

func NewService(notifications repository.NotificationRepository, users UserLookup, notifier Notifier) *Service {
	return &Service{notifications: notifications, users: users, notifier: notifier}
}

// Create persists a notification for the user and pushes it.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, notifType, content string, data []byte) (result.Result[DTO], error) {
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if len(data) > 0 {
		n.Data = datatypes.JSON(data)
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return result.Result[DTO]{}, err
	}

	dto := toDTO(n)
	s.notifier.Notify(ctx, userID, realtime.EventNotificationCreated, dto)
	return result.Ok(dto), nil
}

// List returns the user's notifications newest first. An empty feed is a
// successful result with an empty items slice.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, pageSize int) (result.Result[pagination.PagedResult[DTO]], error) {
	if err := pagination.Validate(page, pageSize); err != nil {
		return result.Fail[pagination.PagedResult[DTO]](err), nil
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[pagination.PagedResult[DTO]](
				result.NotFound("User.NotFound", "user not found")), nil
		}
		return result.Result[pagination.PagedResult[DTO]]{}, err
	}

	limit, offset := pagination.Range(page, pageSize)
	notifications, total, err := s.notifications.PagedByUser(ctx, userID, limit, offset)
	if err != nil {
		return result.Result[pagination.PagedResult[DTO]]{}, err
	}

	items := make([]DTO, 0, len(notifications))
	for i := range notifications {
		items = append(items, toDTO(&notifications[i]))
	}
	return result.Ok(pagination.New(items, total, page, pageSize)), nil
}

// MarkAsRead marks the caller's notification as read. Re-reading an already
// read notification succeeds without a second write.
func (s *Service) MarkAsRead(ctx context.Context, id, callerID uuid.UUID) (result.Result[DTO], error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[DTO](result.NotFound("Notification.NotFound", "notification not found")), nil
		}
		return result.Result[DTO]{}, err
	}
	if n.UserID != callerID {
		return result.Fail[DTO](result.Forbidden("Notification.Forbidden",
			"notification belongs to another user")), nil
	}

	if n.IsRead {
		return result.Ok(toDTO(n)), nil
	}

	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	if err := s.notifications.Save(ctx, n); err != nil {
		return result.Result[DTO]{}, err
	}

	dto := toDTO(n)
	s.notifier.Notify(ctx, callerID, realtime.EventNotificationRead, dto)
	return result.Ok(dto), nil
}

// Delete removes the caller's notification.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) (result.Result[struct{}], error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[struct{}](result.NotFound("Notification.NotFound", "notification not found")), nil
		}
		return result.Result[struct{}]{}, err
	}
	if n.UserID != callerID {
		return result.Fail[struct{}](result.Forbidden("Notification.Forbidden",
			"notification belongs to another user")), nil
	}

	if err := s.notifications.Delete(ctx, id); err != nil {
		return result.Result[struct{}]{}, err
	}

	s.notifier.Notify(ctx, callerID, realtime.EventNotificationDeleted, map[string]string{"id": id.String()})
	return result.Ok(struct{}{}), nil
}

func toDTO(n *models.Notification) DTO {
	dto := DTO{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      n.Type,
		Content:   n.Content,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		dto.Data = n.Data
	}
	return dto
}
