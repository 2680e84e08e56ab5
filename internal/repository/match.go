package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentlink-app/talentlink_be/internal/models"
)

type MatchRepository interface {
	// GetOrCreate returns the match for the pair, creating it in pending
	// state when absent. Safe under concurrent calls for the same pair.
	GetOrCreate(ctx context.Context, expertID, recruiterID uuid.UUID) (*models.Match, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	Save(ctx context.Context, match *models.Match) error
	PendingForExpertUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error)
	PendingForRecruiterUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error)
	LatestPaged(ctx context.Context, limit, offset int) ([]models.Match, int64, error)
	CountCompleted(ctx context.Context) (int64, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// participantGraph eagerly loads both parties with their users' skills and
// interests for DTO projection.
func participantGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Expert").
		Preload("Expert.User").
		Preload("Expert.User.Skills").
		Preload("Expert.User.Interests").
		Preload("Recruiter").
		Preload("Recruiter.User").
		Preload("Recruiter.User.Skills").
		Preload("Recruiter.User.Interests")
}

func (r *matchRepository) GetOrCreate(ctx context.Context, expertID, recruiterID uuid.UUID) (*models.Match, bool, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Where("expert_id = ? AND recruiter_id = ?", expertID, recruiterID).
		First(&match).Error
	if err == nil {
		return &match, false, nil
	}
	if translate(err) != ErrNotFound {
		return nil, false, err
	}

	match = models.Match{
		ID:           uuid.New(),
		ExpertID:     expertID,
		RecruiterID:  recruiterID,
		Status:       models.MatchStatusPending,
		ExpertAck:    models.AckPending,
		RecruiterAck: models.AckPending,
	}

	// The unique (expert_id, recruiter_id) index resolves the create race:
	// a concurrent insert wins, ours turns into a no-op and we reload.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "expert_id"}, {Name: "recruiter_id"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		err := r.db.WithContext(ctx).
			Where("expert_id = ? AND recruiter_id = ?", expertID, recruiterID).
			First(&match).Error
		if err != nil {
			return nil, false, translate(err)
		}
		return &match, false, nil
	}
	return &match, true, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var match models.Match
	err := participantGraph(r.db.WithContext(ctx)).First(&match, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &match, nil
}

func (r *matchRepository) Save(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Save(match).Error
}

func (r *matchRepository) PendingForExpertUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error) {
	var matches []models.Match
	err := participantGraph(r.db.WithContext(ctx)).
		Joins("JOIN experts ON experts.id = matches.expert_id").
		Where("experts.user_id = ? AND matches.status = ?", userID, models.MatchStatusPending).
		Find(&matches).Error
	return matches, err
}

func (r *matchRepository) PendingForRecruiterUser(ctx context.Context, userID uuid.UUID) ([]models.Match, error) {
	var matches []models.Match
	err := participantGraph(r.db.WithContext(ctx)).
		Joins("JOIN recruiters ON recruiters.id = matches.recruiter_id").
		Where("recruiters.user_id = ? AND matches.status = ?", userID, models.MatchStatusPending).
		Find(&matches).Error
	return matches, err
}

func (r *matchRepository) LatestPaged(ctx context.Context, limit, offset int) ([]models.Match, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Match{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var matches []models.Match
	err := participantGraph(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&matches).Error
	return matches, total, err
}

func (r *matchRepository) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("status = ?", models.MatchStatusCompleted).
		Count(&count).Error
	return count, err
}
