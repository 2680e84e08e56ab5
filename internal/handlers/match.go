package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/services/match"
)

type MatchHandler struct {
	Service *match.Service
}

func NewMatchHandler(service *match.Service) *MatchHandler {
	return &MatchHandler{Service: service}
}

type CreateMatchReq struct {
	ExpertID    string `json:"expert_id"`
	RecruiterID string `json:"recruiter_id"`
}

// Create resolves the (expert, recruiter) pair and returns the match,
// creating it when the pair has none yet. A side left empty in the body
// defaults to the caller's own profile.
func (h *MatchHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateMatchReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	expertID, ok := resolveParty(req.ExpertID, caller.ExpertID)
	if !ok {
		return badRequest(c, "expert_id is required")
	}
	recruiterID, ok := resolveParty(req.RecruiterID, caller.RecruiterID)
	if !ok {
		return badRequest(c, "recruiter_id is required")
	}

	// only a participant may open the pair
	if (caller.ExpertID == nil || *caller.ExpertID != expertID) &&
		(caller.RecruiterID == nil || *caller.RecruiterID != recruiterID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not a participant of this match",
		})
	}

	res, err := h.Service.GetOrCreate(c.Context(), expertID, recruiterID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

type RespondReq struct {
	Decision string `json:"decision"` // accept / reject
}

func (h *MatchHandler) Respond(c *fiber.Ctx) error {
	caller, err := callerFromCtx(c)
	if err != nil {
		return err
	}
	matchID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid match id")
	}

	var req RespondReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	res, err := h.Service.Respond(c.Context(), matchID, caller,
		strings.ToLower(strings.TrimSpace(req.Decision)))
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *MatchHandler) Complete(c *fiber.Ctx) error {
	caller, err := callerFromCtx(c)
	if err != nil {
		return err
	}
	matchID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid match id")
	}

	res, err := h.Service.Complete(c.Context(), matchID, caller)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *MatchHandler) PendingAsExpert(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	res, err := h.Service.PendingForExpert(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *MatchHandler) PendingAsRecruiter(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	res, err := h.Service.PendingForRecruiter(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

// Latest is the admin view of recent matches.
func (h *MatchHandler) Latest(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	res, err := h.Service.LatestPaged(c.Context(), page, pageSize)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *MatchHandler) CompletedCount(c *fiber.Ctx) error {
	count, err := h.Service.CompletedCount(c.Context())
	if err != nil {
		return serverError(c)
	}
	return success(c, fiber.StatusOK, "OK", fiber.Map{"count": count})
}

func resolveParty(raw string, fallback *uuid.UUID) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		id, err := uuid.Parse(raw)
		return id, err == nil
	}
	if fallback != nil {
		return *fallback, true
	}
	return uuid.Nil, false
}
