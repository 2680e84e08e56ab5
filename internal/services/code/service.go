package code

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

const (
	codeLength = 6
	codeTTL    = 15 * time.Minute
)

// Service issues and consumes single-use verification codes. At most one
// active code per (user, type): issuing a new one revokes its predecessors.
type Service struct {
	codes repository.CodeRepository
}

func NewService(codes repository.CodeRepository) *Service {
	return &Service{codes: codes}
}

// Generate revokes any active code of the same type and creates a fresh one.
// The value is returned so the caller can deliver it out of band.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, codeType string) (*models.Code, error) {
	if err := s.codes.RevokeActive(ctx, userID, codeType); err != nil {
		return nil, err
	}

	value, err := models.GenerateCodeValue(codeLength)
	if err != nil {
		return nil, err
	}

	c := &models.Code{
		ID:        uuid.New(),
		UserID:    userID,
		Value:     value,
		Type:      codeType,
		ExpiresAt: time.Now().Add(codeTTL),
		CreatedAt: time.Now(),
	}
	if err := s.codes.Create(ctx, c); err != nil {
		return nil, err
	}

	// delivery is out of band; the value is only ever logged in development
	log.Printf("code: issued %s code for user %s", codeType, userID)
	return c, nil
}

// ValidateAndConsume checks the submitted value against the user's latest
// code of that type and marks it used. A code is consumed at most once.
func (s *Service) ValidateAndConsume(ctx context.Context, userID uuid.UUID, codeType, value string) (result.Result[struct{}], error) {
	c, err := s.codes.GetByValue(ctx, userID, codeType, value)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[struct{}](result.Failure("Code.Invalid", "code is invalid")), nil
		}
		return result.Result[struct{}]{}, err
	}

	if !c.IsValid(time.Now()) {
		return result.Fail[struct{}](result.Failure("Code.Invalid", "code is expired or no longer valid")), nil
	}

	if err := s.codes.MarkUsed(ctx, c.ID); err != nil {
		return result.Result[struct{}]{}, err
	}
	return result.Ok(struct{}{}), nil
}
