package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink-app/talentlink_be/internal/models"
)

type ChatRepository interface {
	GetOrCreateConversation(ctx context.Context, recruiterUserID, expertUserID uuid.UUID, matchID *uuid.UUID) (*models.Conversation, bool, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ConversationsForUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error)
	MessagesPaged(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, int64, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
	UnreadTotal(ctx context.Context, userID uuid.UUID) (int64, error)
	TouchLastMessage(ctx context.Context, conversationID uuid.UUID, at time.Time) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetOrCreateConversation(ctx context.Context, recruiterUserID, expertUserID uuid.UUID, matchID *uuid.UUID) (*models.Conversation, bool, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Where("recruiter_user_id = ? AND expert_user_id = ?", recruiterUserID, expertUserID).
		Order("updated_at DESC").
		First(&conv).Error
	if err == nil {
		return &conv, false, nil
	}
	if translate(err) != ErrNotFound {
		return nil, false, err
	}

	conv = models.Conversation{
		ID:              uuid.New(),
		RecruiterUserID: recruiterUserID,
		ExpertUserID:    expertUserID,
		MatchID:         matchID,
		LastMessageAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, false, err
	}
	return &conv, true, nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (r *chatRepository) ConversationsForUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("RecruiterUser").
		Preload("ExpertUser").
		Where("recruiter_user_id = ? OR expert_user_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

func (r *chatRepository) LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(1).
		First(&msg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *chatRepository) MessagesPaged(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = false", conversationID, readerID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *chatRepository) UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = false", conversationID, userID).
		Count(&count).Error
	return count, err
}

func (r *chatRepository) UnreadTotal(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN conversations ON messages.conversation_id = conversations.id").
		Where("(conversations.recruiter_user_id = ? OR conversations.expert_user_id = ?) AND messages.sender_id != ? AND messages.is_read = false",
			userID, userID, userID).
		Count(&count).Error
	return count, err
}

func (r *chatRepository) TouchLastMessage(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
}
