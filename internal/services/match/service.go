package match

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/pagination"
	"github.com/talentlink-app/talentlink_be/internal/realtime"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Notifier is the push side channel. Implemented by realtime.Notifier;
// faked in tests.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{})
	NotifyPair(ctx context.Context, a, b uuid.UUID, event string, payload interface{})
}

// Service enforces the match lifecycle: pending -> accepted (both parties
// ack) | rejected (either party rejects), accepted -> completed. Every state
// change persists a notification per participant and triggers a best-effort
// push; push failures never fail the command.
type Service struct {
	matches       repository.MatchRepository
	notifications repository.NotificationRepository
	notifier      Notifier
}

func NewService(matches repository.MatchRepository, notifications repository.NotificationRepository, notifier Notifier) *Service {
	return &Service{matches: matches, notifications: notifications, notifier: notifier}
}

// GetOrCreate returns the match for the (expert, recruiter) pair, creating
// it in pending state when absent. Idempotent under concurrent calls.
func (s *Service) GetOrCreate(ctx context.Context, expertID, recruiterID uuid.UUID) (result.Result[MatchDTO], error) {
	m, created, err := s.matches.GetOrCreate(ctx, expertID, recruiterID)
	if err != nil {
		return result.Result[MatchDTO]{}, err
	}

	// reload with the participant graph for the DTO and user ids
	m, err = s.matches.GetByID(ctx, m.ID)
	if err != nil {
		return result.Result[MatchDTO]{}, err
	}

	dto := toMatchDTO(m)
	if created {
		s.recordAndPush(ctx, m, models.NotificationNewMatch,
			"You have a new match", realtime.EventNewMatch, dto)
		s.pushPendingRefresh(ctx, m)
	}
	return result.Ok(dto), nil
}

// Respond records one party's accept/reject decision on a pending match.
// Re-accepting an already accepted side is an idempotent no-op.
func (s *Service) Respond(ctx context.Context, matchID uuid.UUID, caller Caller, decision string) (result.Result[MatchDTO], error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return result.Fail[MatchDTO](result.Failure("Match.InvalidDecision",
			"decision must be accept or reject")), nil
	}

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[MatchDTO](result.NotFound("Match.NotFound", "match not found")), nil
		}
		return result.Result[MatchDTO]{}, err
	}

	isExpert, isRecruiter := callerParties(m, caller)
	if !isExpert && !isRecruiter {
		return result.Fail[MatchDTO](result.Forbidden("Match.Forbidden",
			"caller is not a participant of this match")), nil
	}

	if m.Status != models.MatchStatusPending {
		return result.Fail[MatchDTO](result.Conflict("Match.InvalidTransition",
			"match is no longer pending")), nil
	}

	ack := models.AckAccepted
	if decision == DecisionReject {
		ack = models.AckRejected
	}

	// A caller holding both roles acts on both sides at once.
	changed := false
	if isExpert && m.ExpertAck != ack {
		m.ExpertAck = ack
		changed = true
	}
	if isRecruiter && m.RecruiterAck != ack {
		m.RecruiterAck = ack
		changed = true
	}
	if !changed {
		return result.Ok(toMatchDTO(m)), nil
	}

	// join rule: both acks accepted -> accepted; any rejection -> rejected
	previous := m.Status
	if m.ExpertAck == models.AckRejected || m.RecruiterAck == models.AckRejected {
		m.Status = models.MatchStatusRejected
	} else if m.ExpertAck == models.AckAccepted && m.RecruiterAck == models.AckAccepted {
		m.Status = models.MatchStatusAccepted
	}

	m.UpdatedAt = time.Now()
	if err := s.matches.Save(ctx, m); err != nil {
		return result.Result[MatchDTO]{}, err
	}

	dto := toMatchDTO(m)
	switch {
	case m.Status == models.MatchStatusAccepted && previous != m.Status:
		s.recordAndPush(ctx, m, models.NotificationMatchAccepted,
			"Your match was accepted by both parties", realtime.EventMatchAccepted, dto)
	case m.Status == models.MatchStatusRejected && previous != m.Status:
		s.recordAndPush(ctx, m, models.NotificationMatchRejected,
			"Your match was rejected", realtime.EventMatchRejected, dto)
	default:
		s.pushPendingRefresh(ctx, m)
	}
	return result.Ok(dto), nil
}

// Complete moves an accepted match to completed. Completing an already
// completed match is an idempotent no-op.
func (s *Service) Complete(ctx context.Context, matchID uuid.UUID, caller Caller) (result.Result[MatchDTO], error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if err == repository.ErrNotFound {
			return result.Fail[MatchDTO](result.NotFound("Match.NotFound", "match not found")), nil
		}
		return result.Result[MatchDTO]{}, err
	}

	isExpert, isRecruiter := callerParties(m, caller)
	if !isExpert && !isRecruiter {
		return result.Fail[MatchDTO](result.Forbidden("Match.Forbidden",
			"caller is not a participant of this match")), nil
	}

	if m.Status == models.MatchStatusCompleted {
		return result.Ok(toMatchDTO(m)), nil
	}
	if m.Status != models.MatchStatusAccepted {
		return result.Fail[MatchDTO](result.Conflict("Match.InvalidTransition",
			"only accepted matches can be completed")), nil
	}

	m.Status = models.MatchStatusCompleted
	m.UpdatedAt = time.Now()
	if err := s.matches.Save(ctx, m); err != nil {
		return result.Result[MatchDTO]{}, err
	}

	dto := toMatchDTO(m)
	s.recordAndPush(ctx, m, models.NotificationMatchCompleted,
		"Your match was completed", realtime.EventMatchCompleted, dto)
	return result.Ok(dto), nil
}

// PendingForExpert lists pending matches where the user is the expert.
func (s *Service) PendingForExpert(ctx context.Context, userID uuid.UUID) (result.Result[[]MatchDTO], error) {
	matches, err := s.matches.PendingForExpertUser(ctx, userID)
	if err != nil {
		return result.Result[[]MatchDTO]{}, err
	}
	return result.Ok(toMatchDTOList(matches)), nil
}

// PendingForRecruiter lists pending matches where the user is the recruiter.
func (s *Service) PendingForRecruiter(ctx context.Context, userID uuid.UUID) (result.Result[[]MatchDTO], error) {
	matches, err := s.matches.PendingForRecruiterUser(ctx, userID)
	if err != nil {
		return result.Result[[]MatchDTO]{}, err
	}
	return result.Ok(toMatchDTOList(matches)), nil
}

// LatestPaged lists the newest matches for the admin dashboard.
func (s *Service) LatestPaged(ctx context.Context, page, pageSize int) (result.Result[pagination.PagedResult[MatchDTO]], error) {
	if err := pagination.Validate(page, pageSize); err != nil {
		return result.Fail[pagination.PagedResult[MatchDTO]](err), nil
	}

	limit, offset := pagination.Range(page, pageSize)
	matches, total, err := s.matches.LatestPaged(ctx, limit, offset)
	if err != nil {
		return result.Result[pagination.PagedResult[MatchDTO]]{}, err
	}
	return result.Ok(pagination.New(toMatchDTOList(matches), total, page, pageSize)), nil
}

// CompletedCount reports how many matches reached completed state.
func (s *Service) CompletedCount(ctx context.Context) (int64, error) {
	return s.matches.CountCompleted(ctx)
}

func callerParties(m *models.Match, caller Caller) (isExpert, isRecruiter bool) {
	if caller.ExpertID != nil && *caller.ExpertID == m.ExpertID {
		isExpert = true
	}
	if caller.RecruiterID != nil && *caller.RecruiterID == m.RecruiterID {
		isRecruiter = true
	}
	return
}

func participantUserIDs(m *models.Match) (expertUser, recruiterUser uuid.UUID, ok bool) {
	if m.Expert == nil || m.Recruiter == nil {
		return uuid.Nil, uuid.Nil, false
	}
	return m.Expert.UserID, m.Recruiter.UserID, true
}

// recordAndPush persists one notification per distinct participant and then
// pushes the event. Persistence failures are logged, not propagated: the
// state change already committed and must not be rolled back by fan-out.
func (s *Service) recordAndPush(ctx context.Context, m *models.Match, notifType, content, event string, dto MatchDTO) {
	expertUser, recruiterUser, ok := participantUserIDs(m)
	if !ok {
		log.Printf("match: participant graph not loaded for %s, skipping fan-out", m.ID)
		return
	}

	data, _ := json.Marshal(map[string]string{"match_id": m.ID.String()})
	recipients := []uuid.UUID{expertUser}
	if recruiterUser != expertUser {
		recipients = append(recipients, recruiterUser)
	}
	for _, userID := range recipients {
		n := &models.Notification{
			ID:      uuid.New(),
			UserID:  userID,
			Type:    notifType,
			Content: content,
			Data:    datatypes.JSON(data),
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			log.Printf("match: persist notification for %s: %v", userID, err)
		}
	}

	s.notifier.NotifyPair(ctx, expertUser, recruiterUser, event, dto)
}

// pushPendingRefresh sends each participant their own refreshed pending
// list. Best effort only.
func (s *Service) pushPendingRefresh(ctx context.Context, m *models.Match) {
	expertUser, recruiterUser, ok := participantUserIDs(m)
	if !ok {
		return
	}

	if expertMatches, err := s.matches.PendingForExpertUser(ctx, expertUser); err == nil {
		s.notifier.Notify(ctx, expertUser, realtime.EventMatchesRefresh, toMatchDTOList(expertMatches))
	} else {
		log.Printf("match: pending refresh for expert user %s: %v", expertUser, err)
	}

	if recruiterUser == expertUser {
		return
	}
	if recruiterMatches, err := s.matches.PendingForRecruiterUser(ctx, recruiterUser); err == nil {
		s.notifier.Notify(ctx, recruiterUser, realtime.EventMatchesRefresh, toMatchDTOList(recruiterMatches))
	} else {
		log.Printf("match: pending refresh for recruiter user %s: %v", recruiterUser, err)
	}
}
