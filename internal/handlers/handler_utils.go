package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/services/match"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

func getUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}

func getProfileUUID(c *fiber.Ctx, key string) *uuid.UUID {
	id, ok := c.Locals(key).(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// callerFromCtx builds the acting principal from the token locals.
func callerFromCtx(c *fiber.Ctx) (match.Caller, error) {
	userID, err := getUserUUID(c)
	if err != nil {
		return match.Caller{}, err
	}
	return match.Caller{
		UserID:      userID,
		ExpertID:    getProfileUUID(c, "expertId"),
		RecruiterID: getProfileUUID(c, "recruiterId"),
	}, nil
}

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// failResult maps a business failure to its HTTP status.
func failResult(c *fiber.Ctx, e *result.Error) error {
	return c.Status(e.HTTPStatus()).JSON(fiber.Map{
		"success": false,
		"message": e.Message,
		"code":    e.Code,
	})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
