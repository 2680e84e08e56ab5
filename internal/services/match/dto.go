package match

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/models"
)

type UserSummary struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

type PartyDTO struct {
	ID     string       `json:"id"`
	UserID string       `json:"user_id"`
	User   *UserSummary `json:"user,omitempty"`
}

type MatchDTO struct {
	ID           string    `json:"id"`
	ExpertID     string    `json:"expert_id"`
	RecruiterID  string    `json:"recruiter_id"`
	Status       string    `json:"status"`
	ExpertAck    string    `json:"expert_ack"`
	RecruiterAck string    `json:"recruiter_ack"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Expert    *PartyDTO `json:"expert,omitempty"`
	Recruiter *PartyDTO `json:"recruiter,omitempty"`
}

// Caller identifies the authenticated principal acting on a match, as
// derived from the access token claims.
type Caller struct {
	UserID      uuid.UUID
	ExpertID    *uuid.UUID
	RecruiterID *uuid.UUID
}

func toUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	skills := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		skills = append(skills, s.Name)
	}
	interests := make([]string, 0, len(u.Interests))
	for _, i := range u.Interests {
		interests = append(interests, i.Name)
	}
	return &UserSummary{
		ID:        u.ID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Skills:    skills,
		Interests: interests,
	}
}

func toMatchDTO(m *models.Match) MatchDTO {
	dto := MatchDTO{
		ID:           m.ID.String(),
		ExpertID:     m.ExpertID.String(),
		RecruiterID:  m.RecruiterID.String(),
		Status:       string(m.Status),
		ExpertAck:    string(m.ExpertAck),
		RecruiterAck: string(m.RecruiterAck),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Expert != nil {
		dto.Expert = &PartyDTO{
			ID:     m.Expert.ID.String(),
			UserID: m.Expert.UserID.String(),
			User:   toUserSummary(m.Expert.User),
		}
	}
	if m.Recruiter != nil {
		dto.Recruiter = &PartyDTO{
			ID:     m.Recruiter.ID.String(),
			UserID: m.Recruiter.UserID.String(),
			User:   toUserSummary(m.Recruiter.User),
		}
	}
	return dto
}

func toMatchDTOList(matches []models.Match) []MatchDTO {
	out := make([]MatchDTO, 0, len(matches))
	for i := range matches {
		out = append(out, toMatchDTO(&matches[i]))
	}
	return out
}
