package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/pagination"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/utils"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

const lastBannedLimit = 10

// Service covers the administrator's user-management surface: banning and
// unbanning accounts, onboarding fellow administrators and the dashboard
// counts and listings.
type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// BanUser deactivates the account. A banned user can no longer log in; the
// check lives in the login paths, not here.
func (s *Service) BanUser(ctx context.Context, userID uuid.UUID) (result.Result[string], error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[string](result.NotFound("User.NotFound",
				"The specified user does not exist.")), nil
		}
		return result.Result[string]{}, err
	}

	if u.IsActive {
		now := time.Now()
		u.IsActive = false
		u.BannedAt = &now
		if err := s.users.Update(ctx, u); err != nil {
			return result.Result[string]{}, err
		}
	}

	return result.Ok(fmt.Sprintf("User %s %s - %s has been banned successfully",
		u.FirstName, u.LastName, u.ID)), nil
}

// UnbanUser reactivates a banned account. Unbanning an active user is an
// idempotent no-op.
func (s *Service) UnbanUser(ctx context.Context, userID uuid.UUID) (result.Result[string], error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[string](result.NotFound("User.NotFound",
				"The specified user does not exist.")), nil
		}
		return result.Result[string]{}, err
	}

	if !u.IsActive {
		u.IsActive = true
		u.BannedAt = nil
		if err := s.users.Update(ctx, u); err != nil {
			return result.Result[string]{}, err
		}
	}

	return result.Ok(fmt.Sprintf("User %s %s - %s has been unbanned successfully",
		u.FirstName, u.LastName, u.ID)), nil
}

type CreateAdminInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateAdmin onboards a new administrator. Email and username are unique
// across the administrators table.
func (s *Service) CreateAdmin(ctx context.Context, in CreateAdminInput) (result.Result[AdminDTO], error) {
	taken, err := s.users.AdminEmailExists(ctx, in.Email)
	if err != nil {
		return result.Result[AdminDTO]{}, err
	}
	if taken {
		return result.Fail[AdminDTO](result.Conflict("Admin.EmailAlreadyExists",
			"The provided email is already registered.")), nil
	}

	taken, err = s.users.AdminUsernameExists(ctx, in.Username)
	if err != nil {
		return result.Result[AdminDTO]{}, err
	}
	if taken {
		return result.Fail[AdminDTO](result.Conflict("Admin.UsernameAlreadyExists",
			"The username is already registered.")), nil
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return result.Result[AdminDTO]{}, err
	}

	admin := &models.Administrator{
		ID:        uuid.New(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.users.CreateAdmin(ctx, admin); err != nil {
		return result.Result[AdminDTO]{}, err
	}

	return result.Ok(toAdminDTO(admin)), nil
}

// ActiveUsersCount reports how many accounts are currently active.
func (s *Service) ActiveUsersCount(ctx context.Context) (int64, error) {
	return s.users.CountActive(ctx)
}

// LatestUsersPaged lists the newest accounts for the admin dashboard.
func (s *Service) LatestUsersPaged(ctx context.Context, page, pageSize int) (result.Result[pagination.PagedResult[UserDTO]], error) {
	if err := pagination.Validate(page, pageSize); err != nil {
		return result.Fail[pagination.PagedResult[UserDTO]](err), nil
	}

	limit, offset := pagination.Range(page, pageSize)
	users, total, err := s.users.LatestPaged(ctx, limit, offset)
	if err != nil {
		return result.Result[pagination.PagedResult[UserDTO]]{}, err
	}
	return result.Ok(pagination.New(toUserDTOList(users), total, page, pageSize)), nil
}

// LastBannedUsers lists the most recently banned accounts. An empty list is
// a successful result, not an error.
func (s *Service) LastBannedUsers(ctx context.Context) (result.Result[[]UserDTO], error) {
	users, err := s.users.LastBanned(ctx, lastBannedLimit)
	if err != nil {
		return result.Result[[]UserDTO]{}, err
	}
	return result.Ok(toUserDTOList(users)), nil
}
