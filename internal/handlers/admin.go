package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/talentlink-app/talentlink_be/internal/services/admin"
)

type AdminHandler struct {
	Service *admin.Service
}

func NewAdminHandler(service *admin.Service) *AdminHandler {
	return &AdminHandler{Service: service}
}

func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	res, err := h.Service.BanUser(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, res.Value(), nil)
}

func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	res, err := h.Service.UnbanUser(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, res.Value(), nil)
}

type CreateAdminReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req CreateAdminReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if username == "" {
		errors.Add("username", "Username is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Email format is invalid")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 8 {
		errors.Add("password", "Password must be at least 8 characters")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	res, err := h.Service.CreateAdmin(c.Context(), admin.CreateAdminInput{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusCreated, "Administrator created", res.Value())
}

func (h *AdminHandler) ActiveUsersCount(c *fiber.Ctx) error {
	count, err := h.Service.ActiveUsersCount(c.Context())
	if err != nil {
		return serverError(c)
	}
	return success(c, fiber.StatusOK, "OK", fiber.Map{"count": count})
}

func (h *AdminHandler) LatestUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	res, err := h.Service.LatestUsersPaged(c.Context(), page, pageSize)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}

func (h *AdminHandler) LastBannedUsers(c *fiber.Ctx) error {
	res, err := h.Service.LastBannedUsers(c.Context())
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}
	return success(c, fiber.StatusOK, "OK", res.Value())
}
