package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink-app/talentlink_be/internal/models"
)

type CodeRepository interface {
	Create(ctx context.Context, code *models.Code) error
	GetByValue(ctx context.Context, userID uuid.UUID, codeType, value string) (*models.Code, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	RevokeActive(ctx context.Context, userID uuid.UUID, codeType string) error
}

type codeRepository struct {
	db *gorm.DB
}

func NewCodeRepository(db *gorm.DB) CodeRepository {
	return &codeRepository{db: db}
}

func (r *codeRepository) Create(ctx context.Context, code *models.Code) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *codeRepository) GetByValue(ctx context.Context, userID uuid.UUID, codeType, value string) (*models.Code, error) {
	var code models.Code
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND value = ?", userID, codeType, value).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, translate(err)
	}
	return &code, nil
}

func (r *codeRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Code{}).
		Where("id = ?", id).
		Update("is_used", true).Error
}

func (r *codeRepository) RevokeActive(ctx context.Context, userID uuid.UUID, codeType string) error {
	return r.db.WithContext(ctx).Model(&models.Code{}).
		Where("user_id = ? AND type = ? AND is_used = false AND is_revoked = false AND expires_at > ?",
			userID, codeType, time.Now()).
		Update("is_revoked", true).Error
}
