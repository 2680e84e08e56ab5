package token

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/utils"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

// Entity discriminator carried in refresh tokens.
const (
	EntityUser          = "User"
	EntityAdministrator = "Administrator"
)

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Options are the signing parameters for both token kinds.
type Options struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service mints and refreshes JWT pairs. Roles on access tokens are derived
// at issue time from the existence of profile rows, never stored.
type Service struct {
	users repository.UserRepository
	opts  Options
}

func NewService(users repository.UserRepository, opts Options) *Service {
	return &Service{users: users, opts: opts}
}

// IssueUserTokens mints an access/refresh pair for a regular user. The three
// role lookups are independent reads and run concurrently.
func (s *Service) IssueUserTokens(ctx context.Context, user *models.User) (Pair, error) {
	var (
		wg          sync.WaitGroup
		expertID    *uuid.UUID
		recruiterID *uuid.UUID
		isAdmin     bool
		errExpert   error
		errRec      error
		errAdmin    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		expertID, errExpert = s.users.ExpertIDByUserID(ctx, user.ID)
	}()
	go func() {
		defer wg.Done()
		recruiterID, errRec = s.users.RecruiterIDByUserID(ctx, user.ID)
	}()
	go func() {
		defer wg.Done()
		isAdmin, errAdmin = s.users.AdminEmailExists(ctx, user.Email)
	}()
	wg.Wait()

	for _, err := range []error{errExpert, errRec, errAdmin} {
		if err != nil {
			return Pair{}, err
		}
	}

	roles := []string{string(models.RoleUser)}
	claims := utils.AccessClaims{
		Email:     user.Email,
		Username:  user.Username,
		TokenType: utils.TokenTypeAccess,
	}
	if expertID != nil {
		roles = append(roles, string(models.RoleExpert))
		claims.ExpertID = expertID.String()
	}
	if recruiterID != nil {
		roles = append(roles, string(models.RoleRecruiter))
		claims.RecruiterID = recruiterID.String()
	}
	if isAdmin {
		roles = append(roles, string(models.RoleAdministrator))
	}
	claims.Roles = roles
	claims.RegisteredClaims = s.registered(user.ID.String(), s.opts.AccessTTL)

	return s.signPair(claims, user.ID.String(), EntityUser)
}

// IssueAdminTokens mints an access/refresh pair for an administrator.
func (s *Service) IssueAdminTokens(ctx context.Context, admin *models.Administrator) (Pair, error) {
	claims := utils.AccessClaims{
		Email:            admin.Email,
		Username:         admin.Username,
		Roles:            []string{string(models.RoleAdministrator)},
		FullName:         strings.TrimSpace(admin.FirstName + " " + admin.LastName),
		ProfilePicture:   admin.ProfilePicture,
		TokenType:        utils.TokenTypeAccess,
		RegisteredClaims: s.registered(admin.ID.String(), s.opts.AccessTTL),
	}
	return s.signPair(claims, admin.ID.String(), EntityAdministrator)
}

// Refresh validates a refresh token and re-mints a pair for the principal it
// names. Claims are checked explicitly so a bad issuer or audience is
// rejected with the same opaque error as a tampered token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (result.Result[Pair], error) {
	claims, err := utils.ParseRefreshToken(s.opts.Secret, refreshToken)
	if err != nil {
		return s.invalid(), nil
	}
	if claims.TokenType != utils.TokenTypeRefresh {
		return s.invalid(), nil
	}
	if claims.Issuer != s.opts.Issuer {
		return s.invalid(), nil
	}
	if !audienceContains(claims.Audience, s.opts.Audience) {
		return s.invalid(), nil
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return s.invalid(), nil
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return s.invalid(), nil
	}

	switch claims.Entity {
	case EntityUser:
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				return result.Fail[Pair](result.NotFound("User.NotFound", "user not found")), nil
			}
			return result.Result[Pair]{}, err
		}
		pair, err := s.IssueUserTokens(ctx, user)
		if err != nil {
			return result.Result[Pair]{}, err
		}
		return result.Ok(pair), nil
	case EntityAdministrator:
		admin, err := s.users.AdminByID(ctx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				return result.Fail[Pair](result.NotFound("Administrator.NotFound", "administrator not found")), nil
			}
			return result.Result[Pair]{}, err
		}
		pair, err := s.IssueAdminTokens(ctx, admin)
		if err != nil {
			return result.Result[Pair]{}, err
		}
		return result.Ok(pair), nil
	default:
		return s.invalid(), nil
	}
}

func (s *Service) invalid() result.Result[Pair] {
	return result.Fail[Pair](result.Unauthorized("Token.Invalid", "refresh token is invalid"))
}

func (s *Service) signPair(access utils.AccessClaims, subject, entity string) (Pair, error) {
	accessToken, err := utils.SignClaims(s.opts.Secret, access)
	if err != nil {
		return Pair{}, err
	}

	refresh := utils.RefreshClaims{
		Entity:           entity,
		TokenType:        utils.TokenTypeRefresh,
		RegisteredClaims: s.registered(subject, s.opts.RefreshTTL),
	}
	refreshToken, err := utils.SignClaims(s.opts.Secret, refresh)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.opts.Issuer,
		Audience:  jwt.ClaimStrings{s.opts.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func audienceContains(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
