package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentlink-app/talentlink_be/internal/services/notification"
)

type NotificationHandler struct {
	Service *notification.Service
}

func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	res, err := h.Service.List(c.Context(), userID, page, pageSize)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid notification id")
	}

	res, err := h.Service.MarkAsRead(c.Context(), id, userID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid notification id")
	}

	res, err := h.Service.Delete(c.Context(), id, userID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "Notification deleted", nil)
}
