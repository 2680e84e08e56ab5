package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink-app/talentlink_be/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	CountActive(ctx context.Context) (int64, error)
	LatestPaged(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	LastBanned(ctx context.Context, limit int) ([]models.User, error)

	CreateExpert(ctx context.Context, expert *models.Expert) error
	CreateRecruiter(ctx context.Context, recruiter *models.Recruiter) error
	ExpertIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	RecruiterIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)

	CreateAdmin(ctx context.Context, admin *models.Administrator) error
	AdminByID(ctx context.Context, id uuid.UUID) (*models.Administrator, error)
	AdminByEmail(ctx context.Context, email string) (*models.Administrator, error)
	AdminEmailExists(ctx context.Context, email string) (bool, error)
	AdminUsernameExists(ctx context.Context, username string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Expert").
		Preload("Recruiter").
		Preload("Skills").
		Preload("Interests").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Expert").
		Preload("Recruiter").
		First(&user, "email = ?", email).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *userRepository) LatestPaged(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (r *userRepository) LastBanned(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", false).
		Order("banned_at DESC NULLS LAST").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) CreateExpert(ctx context.Context, expert *models.Expert) error {
	return r.db.WithContext(ctx).Create(expert).Error
}

func (r *userRepository) CreateRecruiter(ctx context.Context, recruiter *models.Recruiter) error {
	return r.db.WithContext(ctx).Create(recruiter).Error
}

func (r *userRepository) ExpertIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var expert models.Expert
	err := r.db.WithContext(ctx).Select("id").First(&expert, "user_id = ?", userID).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &expert.ID, nil
}

func (r *userRepository) RecruiterIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var recruiter models.Recruiter
	err := r.db.WithContext(ctx).Select("id").First(&recruiter, "user_id = ?", userID).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &recruiter.ID, nil
}

func (r *userRepository) CreateAdmin(ctx context.Context, admin *models.Administrator) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *userRepository) AdminByID(ctx context.Context, id uuid.UUID) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *userRepository) AdminByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.db.WithContext(ctx).First(&admin, "email = ?", email).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *userRepository) AdminEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Administrator{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) AdminUsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Administrator{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
